package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/models"
	"kepler-responder-go/internal/services/emergency"
)

func TestServiceContainer_WithoutNATS(t *testing.T) {
	cfg := &config.Config{WorkerID: "test", NatsEnabled: false}

	sc, err := NewServiceContainer(cfg)
	require.NoError(t, err)
	assert.Nil(t, sc.Messaging)
	assert.Nil(t, sc.Dispatch)
	assert.False(t, sc.MessagingConnected())

	require.NoError(t, sc.Start(context.Background()))

	alert := models.Alert{
		ID:           "a1",
		CreatedAt:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		RiskLevel:    models.RiskLevelHigh,
		PrimaryCause: "stampede",
	}
	rec := sc.Engine.Generate(context.Background(), alert, models.ResponseContext{})
	assert.Equal(t, models.SourceFallback, rec.Source)
	assert.Equal(t, models.UnitTacticalResponse, *rec.Unit)
	assert.Equal(t, emergency.StateDisabled, sc.Engine.GeneratorState())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sc.Shutdown(ctx))
}

func TestNewEngine_WithKeyStartsUninitialized(t *testing.T) {
	cfg := &config.Config{
		WorkerID:         "test",
		GeneratorAPIKey:  "k",
		GeneratorBaseURL: "http://127.0.0.1:1",
		GeneratorModel:   "m",
	}
	engine := NewEngine(cfg, nil)
	assert.Equal(t, emergency.StateUninitialized, engine.GeneratorState())
}
