// internal/catalog/loader.go

// Package catalog loads and verifies the visa catalog that the diagnosis
// engine evaluates against. A catalog that fails any check is rejected whole;
// the engine keeps serving its previous snapshot.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonerrors "jobchaja-workers/internal/common/errors"
	"jobchaja-workers/internal/common/logger"
	"jobchaja-workers/internal/common/metrics"
	"jobchaja-workers/internal/common/validation"
	"jobchaja-workers/internal/models"
)

// Target receives verified catalog snapshots. The diagnosis engine
// implements it.
type Target interface {
	SwapCatalog(cat *models.VisaCatalog)
}

// Load fetches, validates and decodes a catalog from the source. The returned
// catalog has passed both the structural schema and the referential checks.
func Load(ctx context.Context, source Source) (*models.VisaCatalog, error) {
	raw, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	issues, err := validation.ValidateCatalogDocument(raw)
	if err != nil {
		return nil, commonerrors.NewCatalogLoadFailedError(source.Name(), err)
	}
	if len(issues) > 0 {
		summary := make([]string, 0, len(issues))
		for _, issue := range issues {
			summary = append(summary, issue.String())
		}
		return nil, commonerrors.NewCatalogConfigInvalidError(strings.Join(summary, "; "))
	}

	var cat models.VisaCatalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, commonerrors.NewCatalogLoadFailedError(source.Name(), err)
	}

	if err := verify(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

var knownGoals = map[models.FinalGoal]bool{
	models.GoalLanguageStudy: true,
	models.GoalShortTermWork: true,
	models.GoalLongTermWork:  true,
	models.GoalDegree:        true,
	models.GoalResidency:     true,
}

// verify enforces the referential rules the JSON schema cannot express.
// Every code mentioned anywhere must resolve to a node, and the rule tables
// must cover every category and goal the entries use.
func verify(cat *models.VisaCatalog) error {
	seen := make(map[string]bool, len(cat.Entries))
	for _, entry := range cat.Entries {
		if seen[entry.Code] {
			return commonerrors.NewCatalogConfigInvalidError(
				fmt.Sprintf("duplicate entry code %q", entry.Code))
		}
		seen[entry.Code] = true

		if _, ok := cat.Nodes[entry.Code]; !ok {
			return commonerrors.NewCatalogConfigInvalidError(
				fmt.Sprintf("entry %q has no chain node", entry.Code))
		}

		// hard predicates must name known options, otherwise the rank
		// lookup would default to zero and quietly disable the check
		if entry.Eligibility.MinEducation != "" {
			if _, ok := models.EducationRank[entry.Eligibility.MinEducation]; !ok {
				return commonerrors.NewCatalogConfigInvalidError(
					fmt.Sprintf("entry %q minEducation %q is not a known level", entry.Code, entry.Eligibility.MinEducation))
			}
		}
		if entry.Eligibility.MinFund != "" {
			if _, ok := models.FundRank[entry.Eligibility.MinFund]; !ok {
				return commonerrors.NewCatalogConfigInvalidError(
					fmt.Sprintf("entry %q minFund %q is not a known bucket", entry.Code, entry.Eligibility.MinFund))
			}
		}
		for _, goal := range entry.Goals {
			if !knownGoals[goal] {
				return commonerrors.NewCatalogConfigInvalidError(
					fmt.Sprintf("entry %q names unknown goal %q", entry.Code, goal))
			}
		}
	}

	for from, targets := range cat.Transitions {
		if _, ok := cat.Nodes[from]; !ok {
			return commonerrors.NewCatalogConfigInvalidError(
				fmt.Sprintf("transition source %q has no chain node", from))
		}
		for _, to := range targets {
			if _, ok := cat.Nodes[to]; !ok {
				return commonerrors.NewCatalogConfigInvalidError(
					fmt.Sprintf("transition %s -> %s targets unknown node", from, to))
			}
		}
	}

	for goal, terminals := range cat.GoalTerminals {
		for _, code := range terminals {
			if _, ok := cat.Nodes[code]; !ok {
				return commonerrors.NewCatalogConfigInvalidError(
					fmt.Sprintf("goal %q terminal %q has no chain node", goal, code))
			}
		}
	}

	for _, entry := range cat.Entries {
		if err := verifyRuleCoverage(cat, entry.Category); err != nil {
			return err
		}
	}

	for goal := range cat.GoalTerminals {
		if _, ok := cat.Rules.GoalFit[goal]; !ok {
			return commonerrors.NewRuleTableMissingError(
				fmt.Sprintf("goalFit has no row for goal %q", goal))
		}
	}
	return nil
}

func verifyRuleCoverage(cat *models.VisaCatalog, category models.VisaCategory) error {
	bands, ok := cat.Rules.Age[category]
	if !ok || len(bands) == 0 {
		return commonerrors.NewRuleTableMissingError(
			fmt.Sprintf("age table has no bands for category %q", category))
	}
	prev := -1
	for _, band := range bands {
		if band.MaxAge <= prev {
			return commonerrors.NewCatalogConfigInvalidError(
				fmt.Sprintf("age bands for category %q are not ascending", category))
		}
		prev = band.MaxAge
	}

	if _, ok := cat.Rules.Nationality[category]; !ok {
		return commonerrors.NewRuleTableMissingError(
			fmt.Sprintf("nationality table has no row for category %q", category))
	}
	if _, ok := cat.Rules.Fund[category]; !ok {
		return commonerrors.NewRuleTableMissingError(
			fmt.Sprintf("fund table has no row for category %q", category))
	}
	if _, ok := cat.Rules.Education[category]; !ok {
		return commonerrors.NewRuleTableMissingError(
			fmt.Sprintf("education table has no row for category %q", category))
	}
	return nil
}

// Loader keeps a Target supplied with catalog snapshots and reloads on an
// interval when one is configured.
type Loader struct {
	source   Source
	target   Target
	interval time.Duration
	log      logger.Logger
}

func NewLoader(source Source, target Target, interval time.Duration, log logger.Logger) *Loader {
	return &Loader{
		source:   source,
		target:   target,
		interval: interval,
		log:      log,
	}
}

// Reload loads one snapshot and swaps it into the target.
func (l *Loader) Reload(ctx context.Context) error {
	cat, err := Load(ctx, l.source)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues(l.source.Name(), "failure").Inc()
		l.log.Error("Catalog reload failed", map[string]interface{}{
			"source": l.source.Name(),
			"error":  err.Error(),
		})
		return err
	}

	l.target.SwapCatalog(cat)
	metrics.CatalogReloads.WithLabelValues(l.source.Name(), "success").Inc()
	l.log.Info("Catalog reloaded", map[string]interface{}{
		"source":  l.source.Name(),
		"version": cat.Version,
		"entries": cat.Size(),
	})
	return nil
}

// Run reloads on the configured interval until the context is cancelled.
// A failed reload is logged and the previous snapshot stays in service.
func (l *Loader) Run(ctx context.Context) {
	if l.interval <= 0 {
		return
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = l.Reload(ctx)
		}
	}
}
