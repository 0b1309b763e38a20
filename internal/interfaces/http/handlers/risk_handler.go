package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

// RiskHandler serves risk analysis endpoints.
type RiskHandler struct {
	svc *planner.Service
}

func NewRiskHandler(svc *planner.Service) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// GetPropertyRisk returns the on-demand risk analysis for one property.
// A property with nothing to analyze is a 404 carrying the
// no-inspection-history code, not an empty analysis.
func (h *RiskHandler) GetPropertyRisk(c *gin.Context) {
	propertyID := c.Param("propertyID")

	analysis, err := h.svc.AnalyzeProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if analysis == nil {
		respondErrorCode(c, errors.ErrCodeNoInspectionHistory, "")
		return
	}
	respond(c, http.StatusOK, analysis)
}

// AnalyzePortfolio runs a synchronous full-portfolio sweep.
func (h *RiskHandler) AnalyzePortfolio(c *gin.Context) {
	report, err := h.svc.AnalyzePortfolio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}
