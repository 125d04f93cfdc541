package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kepler-responder-go/internal/logging"
	"kepler-responder-go/internal/models"
)

const transportHTTP = "http"

// Recommender produces a recommendation for an alert
type Recommender interface {
	Generate(ctx context.Context, alert models.Alert, rc models.ResponseContext) models.Recommendation
}

// AlertCounter records intake outcomes
type AlertCounter interface {
	AlertReceived(transport, outcome string)
}

type RecommendationHandler struct {
	recommender Recommender
	counter     AlertCounter
}

func NewRecommendationHandler(recommender Recommender, counter AlertCounter) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender, counter: counter}
}

type ErrorResponse struct {
	Error string `json:"error" example:"unknown risk level \"SEVERE\""`
}

// @Summary Generate emergency response recommendation
// @Description Classify one alert and return the recommended unit, action, urgency and reasoning. NONE and LOW alerts return null unit, action and urgency. With include_alert=true the alert is returned with the recommendation attached as emergency_response.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body models.AlertEnvelope true "Alert and optional response context"
// @Param include_alert query bool false "Return the alert with the recommendation attached"
// @Success 200 {object} models.Recommendation
// @Failure 400 {object} ErrorResponse
// @Router /recommendations [post]
func (h *RecommendationHandler) Create(c *gin.Context) {
	var env models.AlertEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.reject(c, err)
		return
	}

	level, err := models.ParseRiskLevel(string(env.Alert.RiskLevel))
	if err != nil {
		h.reject(c, err)
		return
	}
	env.Alert.RiskLevel = level

	if err := env.ResponseContext.Validate(); err != nil {
		h.reject(c, err)
		return
	}

	if env.Alert.ID != "" {
		c.Set(logging.CtxAlertID, env.Alert.ID)
	}
	logging.Debug(c).
		Str("risk_level", env.Alert.RiskLevel.String()).
		Str("primary_cause", env.Alert.PrimaryCause).
		Msg("Recommendation request accepted")

	rec := h.recommender.Generate(c.Request.Context(), env.Alert, env.ResponseContext)
	h.record("processed")

	logging.Info(c).
		Str("source", string(rec.Source)).
		Str("unit", rec.UnitOrEmpty()).
		Str("urgency", rec.UrgencyOrEmpty()).
		Msg("Recommendation served")

	c.Header("X-Recommendation-Source", string(rec.Source))
	if c.Query("include_alert") == "true" {
		c.JSON(http.StatusOK, env.Alert.WithRecommendation(rec))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) reject(c *gin.Context, err error) {
	h.record("invalid")
	logging.Warn(c).Err(err).Msg("Rejected recommendation request")
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (h *RecommendationHandler) record(outcome string) {
	if h.counter != nil {
		h.counter.AlertReceived(transportHTTP, outcome)
	}
}
