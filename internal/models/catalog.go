// internal/models/catalog.go
package models

// VisaCategory groups visa types for rule-table lookups.
type VisaCategory string

const (
	CategoryLanguageTraining VisaCategory = "language-training"
	CategoryStudy            VisaCategory = "study"
	CategoryJobSeeking       VisaCategory = "job-seeking"
	CategoryNonProfessional  VisaCategory = "non-professional-work"
	CategorySeasonalWork     VisaCategory = "seasonal-work"
	CategoryProfessional     VisaCategory = "professional-work"
	CategoryWorkingVisit     VisaCategory = "working-visit"
	CategoryResidency        VisaCategory = "residency"
)

// HardEligibility holds the binary gate predicates of a visa type.
// A zero value on any dimension means "no restriction" (open-world default).
type HardEligibility struct {
	MinAge        *int           `json:"minAge,omitempty"`
	MaxAge        *int           `json:"maxAge,omitempty"`
	Nationalities []string       `json:"nationalities,omitempty"` // allowlist of ISO codes
	MinEducation  EducationLevel `json:"minEducation,omitempty"`
	MinFund       FundBucket     `json:"minFund,omitempty"`
}

// VisaCatalogEntry is one pathway root in the static visa catalog.
type VisaCatalogEntry struct {
	Code        string          `json:"code"`
	Category    VisaCategory    `json:"category"`
	NameKo      string          `json:"nameKo"`
	NameEn      string          `json:"nameEn"`
	Description string          `json:"description"`
	BaseScore   float64         `json:"baseScore"`
	Eligibility HardEligibility `json:"eligibility"`
	Goals       []FinalGoal     `json:"goals,omitempty"` // goals this entry serves; empty = all
}

// SubEvent is an intermediate milestone within one chain node's stay,
// e.g. 사회통합프로그램 이수 during an F-2-7 run-up.
type SubEvent struct {
	NameKo      string `json:"nameKo"`
	Description string `json:"description"`
	MonthOffset int    `json:"monthOffset"` // relative to node start
}

// Requirement is a plan item behind the first unmet milestone of a node.
type Requirement struct {
	NameKo      string     `json:"nameKo"`
	Description string     `json:"description"`
	ActionType  ActionType `json:"actionType"`
	URL         string     `json:"url,omitempty"`
	Urgency     int        `json:"urgency"` // lower = sooner
}

// WorkPolicy states whether a visa status legally permits part-time work.
type WorkPolicy struct {
	CanWorkPartTime bool `json:"canWorkPartTime"`
	WeeklyHours     int  `json:"weeklyHours,omitempty"`
}

// ChainNode describes one visa status as a pathway building block. Every code
// appearing in a chain (roots, intermediates, terminals) has exactly one node.
type ChainNode struct {
	Code          string       `json:"code"`
	Category      VisaCategory `json:"category"`
	NameKo        string       `json:"nameKo"`
	Months        int          `json:"months"` // typical stay before conversion; 0 = open-ended
	DurationLabel string       `json:"durationLabel"`
	CostWon       int          `json:"costWon"` // fees + program cost for this segment
	Work          WorkPolicy   `json:"work"`
	MilestoneKo   string       `json:"milestoneKo"` // acquisition milestone title
	MilestoneDesc string       `json:"milestoneDesc"`
	CompletionKo  string       `json:"completionKo,omitempty"` // terminal completion title
	SubEvents     []SubEvent   `json:"subEvents,omitempty"`
	Requirements  []Requirement `json:"requirements,omitempty"`
}

// AgeBand maps an inclusive upper age bound to a multiplier. Bands are
// ordered ascending by MaxAge; the last band should cover all ages.
type AgeBand struct {
	MaxAge     int     `json:"maxAge"`
	Multiplier float64 `json:"multiplier"`
}

// NationalityRule gives per-country multipliers with a category default.
type NationalityRule struct {
	Multipliers map[string]float64 `json:"multipliers,omitempty"`
	Default     float64            `json:"default"`
}

// RuleTables is the explicit, immutable scoring configuration. Every lookup
// is keyed by the visa category; a missing row is a configuration defect.
type RuleTables struct {
	Age         map[VisaCategory][]AgeBand                   `json:"age"`
	Nationality map[VisaCategory]NationalityRule             `json:"nationality"`
	Fund        map[VisaCategory]map[FundBucket]float64      `json:"fund"`
	Education   map[VisaCategory]map[EducationLevel]float64  `json:"education"`
	GoalFit     map[FinalGoal]map[VisaCategory]float64       `json:"goalFit"`
	Priority    map[PriorityPreference]map[VisaCategory]float64 `json:"priority"`
}

// VisaCatalog is the full static reference data set the engine evaluates
// against. Loaded once at startup and treated as an immutable snapshot;
// reloads swap the whole catalog reference, never mutate in place.
type VisaCatalog struct {
	Version            string                  `json:"version"`
	UpdatedAt          string                  `json:"lastUpdated"`
	Nationalities      []string                `json:"nationalities"`
	NationalityAliases map[string]string       `json:"nationalityAliases,omitempty"`
	Entries            []VisaCatalogEntry      `json:"entries"`
	Nodes              map[string]ChainNode    `json:"nodes"`
	Transitions        map[string][]string     `json:"transitions"`
	GoalTerminals      map[FinalGoal][]string  `json:"goalTerminals"`
	Rules              RuleTables              `json:"rules"`
}

// Size returns the number of pathway roots, the denominator of
// totalPathwaysEvaluated + hardFilteredOut.
func (c *VisaCatalog) Size() int {
	return len(c.Entries)
}

// Node returns the chain node for a visa code.
func (c *VisaCatalog) Node(code string) (ChainNode, bool) {
	n, ok := c.Nodes[code]
	return n, ok
}
