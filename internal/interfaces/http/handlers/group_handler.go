package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

// GroupHandler serves the inspection grouping endpoints.
type GroupHandler struct {
	svc *planner.Service
}

func NewGroupHandler(svc *planner.Service) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// propertyFilter is the shared request filter for grouping endpoints.
type propertyFilter struct {
	ClientID  string `json:"client_id"`
	ManagerID string `json:"manager_id"`
	Region    string `json:"region"`
}

func (f propertyFilter) toListFilter() property.ListFilter {
	return property.ListFilter{
		ClientID:  f.ClientID,
		ManagerID: f.ManagerID,
		Region:    f.Region,
	}
}

type geographicGroupRequest struct {
	propertyFilter
	MaxGroupSize     int     `json:"max_group_size"`
	MaxDistanceMiles float64 `json:"max_distance_miles"`
}

type customGroupRequest struct {
	propertyFilter
	MaxGroupSize     int     `json:"max_group_size"`
	MaxDistanceMiles float64 `json:"max_distance_miles"`
	SameManager      bool    `json:"same_manager"`
	ExcludeMonths    []int   `json:"exclude_months"`
	TargetMonth      int     `json:"target_month"`
}

type groupResponse struct {
	Groups []grouping.PropertyGroup `json:"groups"`
	Count  int                      `json:"count"`
}

// Geographic clusters the filtered portfolio by distance.
func (h *GroupHandler) Geographic(c *gin.Context) {
	var req geographicGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorCode(c, errors.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	groups, err := h.svc.GroupByGeographicProximity(c.Request.Context(), req.toListFilter(), grouping.GeographicOptions{
		MaxGroupSize:     req.MaxGroupSize,
		MaxDistanceMiles: req.MaxDistanceMiles,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, groupResponse{Groups: groups, Count: len(groups)})
}

// ByManager partitions the filtered portfolio by property manager.
func (h *GroupHandler) ByManager(c *gin.Context) {
	var req propertyFilter
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorCode(c, errors.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	groups, err := h.svc.GroupByPropertyManager(c.Request.Context(), req.toListFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, groupResponse{Groups: groups, Count: len(groups)})
}

// ByRisk sweeps the portfolio and tiers the scored properties. The request
// body is optional and currently carries no parameters.
func (h *GroupHandler) ByRisk(c *gin.Context) {
	groups, err := h.svc.GroupByRisk(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, groupResponse{Groups: groups, Count: len(groups)})
}

// Custom clusters under caller-supplied constraints. When the rules exclude
// the target month the response carries zero groups rather than an error.
func (h *GroupHandler) Custom(c *gin.Context) {
	var req customGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorCode(c, errors.ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TargetMonth < 0 || req.TargetMonth > 12 {
		respondErrorCode(c, errors.ErrCodeValidation, "target_month must be between 1 and 12")
		return
	}
	for _, m := range req.ExcludeMonths {
		if m < 1 || m > 12 {
			respondErrorCode(c, errors.ErrCodeValidation, "exclude_months entries must be between 1 and 12")
			return
		}
	}

	rules := grouping.CustomRules{
		MaxGroupSize:     req.MaxGroupSize,
		MaxDistanceMiles: req.MaxDistanceMiles,
		SameManager:      req.SameManager,
		TargetMonth:      time.Month(req.TargetMonth),
	}
	for _, m := range req.ExcludeMonths {
		rules.ExcludeMonths = append(rules.ExcludeMonths, time.Month(m))
	}

	groups, err := h.svc.GroupByCustomRules(c.Request.Context(), req.toListFilter(), rules)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, groupResponse{Groups: groups, Count: len(groups)})
}
