// Package planner is the application facade over the engine's domain
// services: risk analysis, inspection grouping, seasonal advice, and route
// optimization. The HTTP handlers, CLI, and sweep worker all call through
// here.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/internal/domain/risk"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/redis"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/prometheus"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

// seasonalCacheTTL bounds staleness of cached per-client seasonal tables.
const seasonalCacheTTL = 6 * time.Hour

// Dependencies collects everything the Service needs. Cache and Metrics are
// optional; a nil cache disables read-through caching and a nil metrics
// sink disables instrumentation.
type Dependencies struct {
	Store     property.Store
	Analyzer  *risk.Analyzer
	Grouper   *grouping.Grouper
	Advisor   *grouping.SeasonalAdvisor
	Optimizer *routing.Optimizer
	Cache     redis.Cache
	Metrics   *prometheus.AppMetrics
	Log       logging.Logger
}

// Service coordinates the engine's operations.
type Service struct {
	store     property.Store
	analyzer  *risk.Analyzer
	grouper   *grouping.Grouper
	advisor   *grouping.SeasonalAdvisor
	optimizer *routing.Optimizer
	cache     redis.Cache
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// NewService validates the required dependencies and builds the facade.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New(errors.ErrCodeValidation, "property store is required")
	}
	if deps.Analyzer == nil || deps.Grouper == nil || deps.Advisor == nil || deps.Optimizer == nil {
		return nil, errors.New(errors.ErrCodeValidation, "domain services are required")
	}
	if deps.Log == nil {
		deps.Log = logging.NewNopLogger()
	}

	return &Service{
		store:     deps.Store,
		analyzer:  deps.Analyzer,
		grouper:   deps.Grouper,
		advisor:   deps.Advisor,
		optimizer: deps.Optimizer,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		log:       deps.Log.Named("planner"),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Risk analysis
// ─────────────────────────────────────────────────────────────────────────────

// AnalyzeProperty returns the risk analysis for one property, or (nil, nil)
// when the property has nothing to analyze.
func (s *Service) AnalyzeProperty(ctx context.Context, propertyID string) (*risk.Analysis, error) {
	start := time.Now()
	analysis, err := s.analyzer.AnalyzeProperty(ctx, propertyID)

	if s.metrics != nil {
		outcome := "scored"
		if err != nil {
			outcome = "error"
		} else if analysis == nil {
			outcome = "absent"
		}
		prometheus.RecordAnalysis(s.metrics, outcome, time.Since(start))
	}
	return analysis, err
}

// SweepReport is the outcome of one full-portfolio sweep.
type SweepReport struct {
	RequestID        string          `json:"request_id,omitempty"`
	Analyses         []risk.Analysis `json:"analyses"`
	PropertiesTotal  int             `json:"properties_total"`
	PropertiesScored int             `json:"properties_scored"`
	TopRiskScore     float64         `json:"top_risk_score"`
	Duration         time.Duration   `json:"duration_ms"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// AnalyzePortfolio sweeps the whole portfolio and returns analyses sorted
// non-increasing by score, wrapped with summary counts.
func (s *Service) AnalyzePortfolio(ctx context.Context) (*SweepReport, error) {
	start := time.Now()

	props, err := s.store.ListProperties(ctx, property.ListFilter{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list portfolio properties")
	}

	analyses, err := s.analyzer.AnalyzePortfolio(ctx)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{
		Analyses:         analyses,
		PropertiesTotal:  len(props),
		PropertiesScored: len(analyses),
		Duration:         time.Since(start),
		GeneratedAt:      time.Now().UTC(),
	}
	if len(analyses) > 0 {
		report.TopRiskScore = analyses[0].Score
	}

	s.log.Info("portfolio sweep finished",
		logging.Int("total", report.PropertiesTotal),
		logging.Int("scored", report.PropertiesScored),
		logging.Duration("took", report.Duration),
	)
	return report, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Grouping
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) recordGrouping(strategy string) {
	if s.metrics != nil {
		s.metrics.GroupingRequestsTotal.WithLabelValues(strategy).Inc()
	}
}

// GroupByGeographicProximity clusters the filtered portfolio by distance.
func (s *Service) GroupByGeographicProximity(ctx context.Context, filter property.ListFilter, opts grouping.GeographicOptions) ([]grouping.PropertyGroup, error) {
	s.recordGrouping("geographic")
	props, err := s.store.ListProperties(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list properties for grouping")
	}
	return s.grouper.ByGeographicProximity(props, opts), nil
}

// GroupByPropertyManager partitions the filtered portfolio by manager.
func (s *Service) GroupByPropertyManager(ctx context.Context, filter property.ListFilter) ([]grouping.PropertyGroup, error) {
	s.recordGrouping("property_manager")
	props, err := s.store.ListProperties(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list properties for grouping")
	}
	return s.grouper.ByPropertyManager(props), nil
}

// GroupByRisk sweeps the portfolio and tiers the scored properties.
// Properties without an analysis (no completed inspections) carry no score
// and are left out of the tiers.
func (s *Service) GroupByRisk(ctx context.Context) ([]grouping.PropertyGroup, error) {
	s.recordGrouping("risk_based")

	props, err := s.store.ListProperties(ctx, property.ListFilter{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list properties for grouping")
	}
	byID := make(map[string]property.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}

	analyses, err := s.analyzer.AnalyzePortfolio(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]grouping.ScoredProperty, 0, len(analyses))
	for _, a := range analyses {
		p, ok := byID[a.PropertyID]
		if !ok {
			continue
		}
		scored = append(scored, grouping.ScoredProperty{Property: p, RiskScore: a.Score})
	}

	return s.grouper.ByRisk(scored), nil
}

// GroupByCustomRules clusters the filtered portfolio under caller-supplied
// constraints. A nil result means the rules exclude the target month.
func (s *Service) GroupByCustomRules(ctx context.Context, filter property.ListFilter, rules grouping.CustomRules) ([]grouping.PropertyGroup, error) {
	s.recordGrouping("custom")
	props, err := s.store.ListProperties(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list properties for grouping")
	}
	return s.grouper.ByCustomRules(props, rules), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Seasonal recommendations
// ─────────────────────────────────────────────────────────────────────────────

// SeasonalRecommendations returns the 12-month inspection table for a
// client/region pair, read through the cache when one is configured.
func (s *Service) SeasonalRecommendations(ctx context.Context, clientID, region string) ([12]property.MonthRecommendation, error) {
	if s.cache == nil {
		return s.advisor.Recommendations(ctx, clientID, region)
	}

	key := fmt.Sprintf("seasonal:%s:%s", clientID, region)
	var months [12]property.MonthRecommendation
	err := s.cache.GetOrSet(ctx, key, &months, seasonalCacheTTL, func(ctx context.Context) (interface{}, error) {
		table, err := s.advisor.Recommendations(ctx, clientID, region)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			prometheus.RecordCacheAccess(s.metrics, "seasonal", false)
		}
		return table, nil
	})
	if err == redis.ErrCacheMiss {
		// The advisor always yields a table; a sentinel miss means the cache
		// absorbed a previous nil. Fall through to the advisor directly.
		return s.advisor.Recommendations(ctx, clientID, region)
	}
	if err != nil {
		s.log.Warn("seasonal cache lookup failed; serving from store", logging.Err(err))
		return s.advisor.Recommendations(ctx, clientID, region)
	}
	return months, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Route optimization
// ─────────────────────────────────────────────────────────────────────────────

// OptimizeRoute resolves the requested property IDs and plans the visit
// order. Unknown IDs fail the call; properties without coordinates are
// carried through to the plan's Skipped list.
func (s *Service) OptimizeRoute(ctx context.Context, req routing.Request, propertyIDs []string) (*routing.RoutePlan, error) {
	if len(propertyIDs) > 0 {
		resolved := make([]property.Property, 0, len(propertyIDs))
		for _, id := range propertyIDs {
			p, err := s.store.GetProperty(ctx, id)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to resolve route property")
			}
			if p == nil {
				return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("property %q not found", id))
			}
			resolved = append(resolved, *p)
		}
		req.Properties = resolved
	}

	if len(req.Properties) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one property is required")
	}

	plan := s.optimizer.Optimize(req)

	if s.metrics != nil {
		s.metrics.RouteRequestsTotal.WithLabelValues("ok").Inc()
		s.metrics.RouteStops.WithLabelValues("ok").Observe(float64(plan.StopCount()))
	}
	return &plan, nil
}
