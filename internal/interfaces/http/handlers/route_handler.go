package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// RouteHandler serves route optimization.
type RouteHandler struct {
	svc *planner.Service
}

func NewRouteHandler(svc *planner.Service) *RouteHandler {
	return &RouteHandler{svc: svc}
}

type optimizeRouteRequest struct {
	PropertyIDs []string `json:"property_ids"`
	Start       struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"start"`
	InspectorID string `json:"inspector_id"`
	RouteDate   string `json:"route_date"`
}

// Optimize plans the visit order for the requested properties.
func (h *RouteHandler) Optimize(c *gin.Context) {
	var req optimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorCode(c, errors.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.PropertyIDs) == 0 {
		respondErrorCode(c, errors.ErrCodeValidation, "property_ids is required")
		return
	}

	var routeDate time.Time
	if req.RouteDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RouteDate)
		if err != nil {
			respondErrorCode(c, errors.ErrCodeValidation, "route_date must be YYYY-MM-DD")
			return
		}
		routeDate = parsed
	}

	plan, err := h.svc.OptimizeRoute(c.Request.Context(), routing.Request{
		Start: geo.Coordinates{
			Latitude:  req.Start.Latitude,
			Longitude: req.Start.Longitude,
		},
		InspectorID: req.InspectorID,
		RouteDate:   routeDate,
	}, req.PropertyIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}
