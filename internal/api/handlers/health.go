package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusSource reports live component state for the health endpoints.
// *services.ServiceContainer satisfies it.
type StatusSource interface {
	GeneratorState() string
	MessagingConnected() bool
}

type HealthHandler struct {
	WorkerID string
	Version  string
	status   StatusSource
}

func NewHealthHandler(workerID, version string, status StatusSource) *HealthHandler {
	return &HealthHandler{WorkerID: workerID, Version: version, status: status}
}

type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	WorkerID  string `json:"worker_id" example:"responder-1"`
	Generator string `json:"generator" example:"ready"`
	Messaging bool   `json:"messaging" example:"true"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"responder-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the worker is healthy. The generator field is uninitialized, ready or disabled; disabled means fallback-only mode.
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		WorkerID:  h.WorkerID,
		Generator: h.status.GeneratorState(),
		Messaging: h.status.MessagingConnected(),
	})
}

// @Summary Worker information
// @Description Get basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	capabilities := []string{
		"emergency_recommendations",
		"fallback_classifier",
	}
	if h.status.MessagingConnected() {
		capabilities = append(capabilities, "nats_dispatch")
	}

	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID:     h.WorkerID,
		Status:       "running",
		Version:      h.Version,
		Capabilities: capabilities,
	})
}
