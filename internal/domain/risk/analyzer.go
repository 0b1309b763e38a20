package risk

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Analyzer — the risk analysis service
// ─────────────────────────────────────────────────────────────────────────────

// defaultSweepConcurrency bounds the portfolio sweep fan-out when no explicit
// concurrency is configured.
const defaultSweepConcurrency = 4

// Analyzer computes risk analyses against an injected property store.  It is
// stateless between calls; the same inputs always produce the same analysis.
type Analyzer struct {
	store       property.Store
	log         logging.Logger
	table       KeywordTable
	concurrency int
	now         func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithKeywordTable overrides the findings keyword table.
func WithKeywordTable(t KeywordTable) Option {
	return func(a *Analyzer) { a.table = t }
}

// WithConcurrency bounds the portfolio sweep worker pool.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer constructs an Analyzer with the default keyword table and
// sweep concurrency.
func NewAnalyzer(store property.Store, log logging.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:       store,
		log:         log.Named("risk"),
		table:       DefaultKeywordTable(),
		concurrency: defaultSweepConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeProperty fetches a property and its inspection history and derives
// a full risk analysis.
//
// Absence is an expected outcome, not a failure: a missing property, an
// empty inspection history, or a store fetch failure all return (nil, nil)
// so that callers can distinguish "nothing to report" from engine errors.
// Store failures are logged before being absorbed.
func (a *Analyzer) AnalyzeProperty(ctx context.Context, propertyID string) (*Analysis, error) {
	p, err := a.store.GetProperty(ctx, propertyID)
	if err != nil {
		a.log.Warn("property fetch failed; returning absent analysis",
			logging.String("property_id", propertyID), logging.Err(err))
		return nil, nil
	}
	if p == nil {
		a.log.Debug("property not found", logging.String("property_id", propertyID))
		return nil, nil
	}

	history, err := a.store.GetInspectionHistory(ctx, propertyID)
	if err != nil {
		a.log.Warn("inspection history fetch failed; returning absent analysis",
			logging.String("property_id", propertyID), logging.Err(err))
		return nil, nil
	}
	if len(history) == 0 {
		a.log.Debug("no completed inspections", logging.String("property_id", propertyID))
		return nil, nil
	}

	analysis := a.analyze(*p, history)
	return &analysis, nil
}

// analyze performs the pure derivation for a property whose history has
// already been fetched.  history must be non-empty and newest-first.
func (a *Analyzer) analyze(p property.Property, history []property.InspectionRecord) Analysis {
	now := a.now()
	latest := history[0]

	conditionScore := a.table.ConditionScore(latest)
	score, factors := CompositeScore(p, latest, conditionScore, now)
	trends := AnalyzeTrends(history, a.table)
	recs := GenerateRecommendations(p, latest, conditionScore, now)

	daysSinceLatest := now.Sub(latest.CompletedAt).Hours() / 24
	if daysSinceLatest < 0 {
		daysSinceLatest = 0
	}

	return Analysis{
		PropertyID:           p.ID,
		PropertyName:         p.Name,
		Score:                score,
		Level:                LevelForScore(score),
		Factors:              factors,
		PredictedMaintenance: PredictMaintenanceDate(conditionScore, conditionDirection(trends), now),
		Recommendations:      recs,
		Trends:               trends,
		CostEstimate:         EstimateCost(recs),
		Confidence:           ConfidenceScore(len(history), daysSinceLatest),
		InspectionCount:      len(history),
		GeneratedAt:          now,
	}
}

// AnalyzePortfolio analyzes every property in the store and returns the
// survivors sorted non-increasing by risk score.
//
// The sweep fans out over a bounded worker pool; a single property's fetch
// or scoring failure is logged and skipped, never aborting the sweep.  Only
// the initial property listing can fail the call as a whole.
func (a *Analyzer) AnalyzePortfolio(ctx context.Context) ([]Analysis, error) {
	props, err := a.store.ListProperties(ctx, property.ListFilter{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreUnavailable, "failed to list portfolio properties")
	}
	if len(props) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		results = make([]Analysis, 0, len(props))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, p := range props {
		p := p
		g.Go(func() error {
			history, err := a.store.GetInspectionHistory(gctx, p.ID)
			if err != nil {
				a.log.Warn("skipping property in portfolio sweep",
					logging.String("property_id", p.ID), logging.Err(err))
				return nil
			}
			if len(history) == 0 {
				return nil
			}

			analysis := a.analyze(p, history)

			mu.Lock()
			results = append(results, analysis)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "portfolio sweep interrupted")
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}
