// internal/diagnosis/pathway.go
package diagnosis

import (
	"fmt"
	"sort"
	"strings"

	"jobchaja-workers/internal/models"
)

// weeksPerMonth converts a weekly work allowance into a monthly income
// estimate. 52 weeks / 12 months.
const weeksPerMonth = 52.0 / 12.0

// CostAssumptions are the monetary constants the composer needs. They come
// from configuration, not the catalog, because they change on a different
// cadence (minimum wage yearly, FX daily).
type CostAssumptions struct {
	HourlyMinimumWage int
	WonPerUSD         int
}

// ComposedPathway is the structural half of a recommendation: the visa chain,
// its timeline, its costs and its immediate next steps. Scoring is layered on
// separately.
type ComposedPathway struct {
	ID              string
	NameKo          string
	NameEn          string
	Chain           []models.VisaChainSegment
	Milestones      []models.Milestone
	EstimatedMonths int
	CostWon         int
	CostUSD         int
	NextSteps       []models.NextStep
}

// ComposePathway builds the full chain from an evaluable root entry to the
// nearest terminal serving the applicant's goal. The walk over the transition
// graph is breadth-first with neighbors visited in catalog order, so the same
// catalog always yields the same chain.
func ComposePathway(entry models.VisaCatalogEntry, goal models.FinalGoal, catalog *models.VisaCatalog, costs CostAssumptions) (ComposedPathway, error) {
	codes, err := shortestChain(entry.Code, goal, catalog)
	if err != nil {
		return ComposedPathway{}, err
	}

	nodes := make([]models.ChainNode, 0, len(codes))
	for _, code := range codes {
		node, ok := catalog.Node(code)
		if !ok {
			return ComposedPathway{}, &ConfigError{
				Subject: "catalog",
				Detail:  fmt.Sprintf("transition references unknown node %q", code),
			}
		}
		nodes = append(nodes, node)
	}

	composed := ComposedPathway{
		ID:     strings.Join(codes, "->"),
		NameKo: chainNameKo(entry, nodes),
		NameEn: chainNameEn(entry, nodes),
	}

	cum := 0
	totalWon := 0
	for i, node := range nodes {
		composed.Chain = append(composed.Chain, models.VisaChainSegment{
			VisaCode:      node.Code,
			DurationLabel: node.DurationLabel,
			Months:        node.Months,
		})
		totalWon += node.CostWon

		acquisition := models.Milestone{
			MonthFromStart:  cum,
			NameKo:          node.MilestoneKo,
			Description:     node.MilestoneDesc,
			VisaStatus:      node.Code,
			CanWorkPartTime: node.Work.CanWorkPartTime,
		}
		if node.Work.CanWorkPartTime {
			acquisition.WeeklyHours = node.Work.WeeklyHours
			acquisition.EstimatedMonthlyIncome = monthlyIncome(node.Work.WeeklyHours, costs.HourlyMinimumWage)
		}
		composed.Milestones = append(composed.Milestones, acquisition)

		for _, sub := range node.SubEvents {
			event := models.Milestone{
				MonthFromStart:  cum + sub.MonthOffset,
				NameKo:          sub.NameKo,
				Description:     sub.Description,
				VisaStatus:      node.Code,
				CanWorkPartTime: node.Work.CanWorkPartTime,
			}
			if node.Work.CanWorkPartTime {
				event.WeeklyHours = node.Work.WeeklyHours
				event.EstimatedMonthlyIncome = monthlyIncome(node.Work.WeeklyHours, costs.HourlyMinimumWage)
			}
			composed.Milestones = append(composed.Milestones, event)
		}

		last := i == len(nodes)-1
		if last && node.CompletionKo != "" {
			composed.Milestones = append(composed.Milestones, models.Milestone{
				MonthFromStart: cum + node.Months,
				NameKo:         node.CompletionKo,
				Description:    node.MilestoneDesc,
				VisaStatus:     node.Code,
			})
		}
		cum += node.Months
	}

	// Stable sort keeps acquisition events ahead of sub-events that land in
	// the same month.
	sort.SliceStable(composed.Milestones, func(i, j int) bool {
		return composed.Milestones[i].MonthFromStart < composed.Milestones[j].MonthFromStart
	})
	for i := range composed.Milestones {
		composed.Milestones[i].Order = i + 1
	}
	composed.EstimatedMonths = composed.Milestones[len(composed.Milestones)-1].MonthFromStart

	composed.CostWon = totalWon
	if costs.WonPerUSD > 0 {
		composed.CostUSD = totalWon / costs.WonPerUSD
	}

	composed.NextSteps = nextSteps(nodes[0])
	return composed, nil
}

// shortestChain finds the code sequence from root to the first terminal that
// serves the goal. Roots that are themselves terminals yield a single-node
// chain. A root with no reachable terminal is a catalog defect: the entry
// claimed to serve the goal but the graph cannot deliver it.
func shortestChain(root string, goal models.FinalGoal, catalog *models.VisaCatalog) ([]string, error) {
	terminals := make(map[string]bool, len(catalog.GoalTerminals[goal]))
	for _, code := range catalog.GoalTerminals[goal] {
		terminals[code] = true
	}
	if len(terminals) == 0 {
		return nil, &ConfigError{
			Subject: "catalog",
			Detail:  fmt.Sprintf("no terminal nodes declared for goal %q", goal),
		}
	}

	if terminals[root] {
		return []string{root}, nil
	}

	parent := map[string]string{root: ""}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range catalog.Transitions[current] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if terminals[next] {
				return backtrack(parent, next), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, &ConfigError{
		Subject: "catalog",
		Detail:  fmt.Sprintf("no path from %q to any terminal of goal %q", root, goal),
	}
}

func backtrack(parent map[string]string, end string) []string {
	var codes []string
	for code := end; code != ""; code = parent[code] {
		codes = append(codes, code)
	}
	for i, j := 0, len(codes)-1; i < j; i, j = i+1, j-1 {
		codes[i], codes[j] = codes[j], codes[i]
	}
	return codes
}

func chainNameKo(entry models.VisaCatalogEntry, nodes []models.ChainNode) string {
	if len(nodes) == 1 {
		return entry.NameKo
	}
	return entry.NameKo + " → " + nodes[len(nodes)-1].NameKo
}

func chainNameEn(entry models.VisaCatalogEntry, nodes []models.ChainNode) string {
	if len(nodes) == 1 {
		return entry.NameEn
	}
	return entry.NameEn + " → " + nodes[len(nodes)-1].Code
}

func monthlyIncome(weeklyHours, hourlyWage int) int {
	return int(float64(weeklyHours) * weeksPerMonth * float64(hourlyWage))
}

// nextSteps returns the root node's requirements ordered by urgency. The sort
// is stable so requirements sharing an urgency keep their catalog order.
func nextSteps(root models.ChainNode) []models.NextStep {
	reqs := make([]models.Requirement, len(root.Requirements))
	copy(reqs, root.Requirements)
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Urgency < reqs[j].Urgency
	})

	steps := make([]models.NextStep, 0, len(reqs))
	for _, r := range reqs {
		steps = append(steps, models.NextStep{
			NameKo:      r.NameKo,
			Description: r.Description,
			ActionType:  r.ActionType,
			URL:         r.URL,
		})
	}
	return steps
}
