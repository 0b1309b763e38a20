package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

// SeasonalHandler serves the seasonal recommendation table.
type SeasonalHandler struct {
	svc *planner.Service
}

func NewSeasonalHandler(svc *planner.Service) *SeasonalHandler {
	return &SeasonalHandler{svc: svc}
}

type seasonalResponse struct {
	ClientID string                         `json:"client_id"`
	Region   string                         `json:"region"`
	Months   []property.MonthRecommendation `json:"months"`
}

// Recommendations returns the 12-month inspection table for a client and
// region, both passed as query parameters.
func (h *SeasonalHandler) Recommendations(c *gin.Context) {
	clientID := c.Query("client_id")
	region := c.Query("region")
	if clientID == "" {
		respondErrorCode(c, errors.ErrCodeValidation, "client_id query parameter is required")
		return
	}

	months, err := h.svc.SeasonalRecommendations(c.Request.Context(), clientID, region)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, seasonalResponse{ClientID: clientID, Region: region, Months: months[:]})
}
