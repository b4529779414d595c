// internal/diagnosis/engine.go
package diagnosis

import (
	"sync/atomic"
	"time"

	"jobchaja-workers/internal/models"
)

// Config tunes the engine. Zero values fall back to the defaults below.
type Config struct {
	// TopN caps how many pathways a result carries.
	TopN int
	// HourlyMinimumWage in KRW, used for part-time income estimates.
	HourlyMinimumWage int
	// WonPerUSD converts pathway costs for the USD field.
	WonPerUSD int
	// Clock stamps result metadata. Defaults to time.Now.
	Clock func() time.Time
}

const (
	defaultTopN      = 5
	defaultWage      = 10030
	defaultWonPerUSD = 1350
)

// Engine evaluates applicant profiles against an immutable catalog snapshot.
// Evaluate never mutates the snapshot, so concurrent evaluations are safe,
// and SwapCatalog replaces the snapshot atomically between evaluations.
type Engine struct {
	catalog atomic.Pointer[models.VisaCatalog]
	cfg     Config
}

// NewEngine builds an engine over the given catalog snapshot.
func NewEngine(catalog *models.VisaCatalog, cfg Config) *Engine {
	if cfg.TopN <= 0 {
		cfg.TopN = defaultTopN
	}
	if cfg.HourlyMinimumWage <= 0 {
		cfg.HourlyMinimumWage = defaultWage
	}
	if cfg.WonPerUSD <= 0 {
		cfg.WonPerUSD = defaultWonPerUSD
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	e := &Engine{cfg: cfg}
	e.catalog.Store(catalog)
	return e
}

// SwapCatalog replaces the catalog snapshot. Evaluations already running keep
// the snapshot they started with.
func (e *Engine) SwapCatalog(catalog *models.VisaCatalog) {
	e.catalog.Store(catalog)
}

// Catalog returns the current snapshot.
func (e *Engine) Catalog() *models.VisaCatalog {
	return e.catalog.Load()
}

// Evaluate runs the full pipeline: validate, filter, score, label, compose,
// rank, assemble. An empty pathway list is a legitimate result, not an error;
// the only errors are invalid input (ValidationError, UnknownOptionError) and
// catalog or rule-table defects (ConfigError).
func (e *Engine) Evaluate(raw *RawDiagnosisInput) (*models.DiagnosisResult, error) {
	catalog := e.catalog.Load()

	input, err := ValidateInput(raw, catalog)
	if err != nil {
		return nil, err
	}

	evaluable, hardFilteredOut := FilterEligibility(input, catalog)

	costs := CostAssumptions{
		HourlyMinimumWage: e.cfg.HourlyMinimumWage,
		WonPerUSD:         e.cfg.WonPerUSD,
	}

	pathways := make([]models.RecommendedPathway, 0, len(evaluable))
	for _, entry := range evaluable {
		breakdown, err := Score(input, entry, catalog.Rules)
		if err != nil {
			return nil, err
		}
		finalScore := FinalScore(breakdown)

		composed, err := ComposePathway(entry, input.FinalGoal, catalog, costs)
		if err != nil {
			return nil, err
		}

		pathways = append(pathways, models.RecommendedPathway{
			ID:               composed.ID,
			NameKo:           composed.NameKo,
			NameEn:           composed.NameEn,
			Description:      entry.Description,
			ScoreBreakdown:   breakdown,
			FinalScore:       finalScore,
			FeasibilityLabel: FeasibilityLabel(finalScore),
			VisaChain:        composed.Chain,
			Milestones:       composed.Milestones,
			EstimatedMonths:  composed.EstimatedMonths,
			EstimatedCostWon: composed.CostWon,
			EstimatedCostUSD: composed.CostUSD,
			NextSteps:        composed.NextSteps,
		})
	}

	ranked := RankPathways(pathways, input.PriorityPreference, e.cfg.TopN)

	return &models.DiagnosisResult{
		UserInput: input,
		Pathways:  ranked,
		Meta: models.DiagnosisMeta{
			TotalPathwaysEvaluated: len(evaluable),
			HardFilteredOut:        hardFilteredOut,
			Timestamp:              e.cfg.Clock().UTC(),
		},
	}, nil
}
