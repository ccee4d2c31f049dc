package clarity

import (
	"sort"

	"dealdesk/internal/domain"
)

// Rule is one declarative clarity check. Predicates are pure: the same
// snapshot and context always produce the same answer.
type Rule struct {
	ID         string
	Severity   string
	StepIndex  int
	FieldPath  string
	MessageKey string
	Check      func(s domain.Snapshot, engagementType, category string) bool
}

var severityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// Rules is the fixed rule table, grouped by severity. Order within a
// severity group is the tie-break order of the evaluator output.
var Rules = []Rule{
	{
		ID: "no_deposit", Severity: "high", StepIndex: 5,
		FieldPath: "deposit_percent", MessageKey: "clarity.no_deposit",
		Check: func(s domain.Snapshot, typ, _ string) bool {
			return typ == "task" && (s.DepositPercent == nil || *s.DepositPercent == 0)
		},
	},
	{
		ID: "no_exclusions", Severity: "high", StepIndex: 2,
		FieldPath: "exclusions", MessageKey: "clarity.no_exclusions",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return len(s.Exclusions) == 0
		},
	},
	{
		ID: "no_review_window", Severity: "high", StepIndex: 3,
		FieldPath: "review_window_days", MessageKey: "clarity.no_review_window",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return s.ReviewWindowDays == 0
		},
	},
	{
		ID: "no_capacity_cap", Severity: "high", StepIndex: 4,
		FieldPath: "monthly_capacity", MessageKey: "clarity.no_capacity_cap",
		Check: func(s domain.Snapshot, typ, _ string) bool {
			noCapacity := s.MonthlyCapacity == nil || *s.MonthlyCapacity == ""
			noRate := s.OutOfScopeRateMinor == nil || *s.OutOfScopeRateMinor == 0
			return typ == "retainer" && noCapacity && noRate
		},
	},
	{
		ID: "no_termination_notice", Severity: "medium", StepIndex: 6,
		FieldPath: "termination_notice_days", MessageKey: "clarity.no_termination_notice",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return s.TerminationNoticeDays == 0
		},
	},
	{
		ID: "no_bug_fix_window", Severity: "medium", StepIndex: 4,
		FieldPath: "bug_fix_days", MessageKey: "clarity.no_bug_fix_window",
		Check: func(s domain.Snapshot, _, category string) bool {
			return category == "development" && (s.BugFixDays == nil || *s.BugFixDays == 0)
		},
	},
	{
		ID: "no_revision_limit", Severity: "medium", StepIndex: 4,
		FieldPath: "revision_rounds", MessageKey: "clarity.no_revision_limit",
		Check: func(s domain.Snapshot, _, category string) bool {
			return category == "design" && s.RevisionRounds == 0
		},
	},
	{
		ID: "no_dependencies", Severity: "medium", StepIndex: 2,
		FieldPath: "dependencies", MessageKey: "clarity.no_dependencies",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return len(s.Dependencies) == 0
		},
	},
	{
		ID: "no_deliverables", Severity: "medium", StepIndex: 2,
		FieldPath: "deliverables", MessageKey: "clarity.no_deliverables",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return len(s.Deliverables) == 0
		},
	},
	{
		ID: "no_milestones", Severity: "medium", StepIndex: 3,
		FieldPath: "milestones", MessageKey: "clarity.no_milestones",
		Check: func(s domain.Snapshot, typ, _ string) bool {
			return typ == "task" && len(s.Milestones) == 0
		},
	},
	{
		ID: "late_fee_off", Severity: "low", StepIndex: 5,
		FieldPath: "late_fee_enabled", MessageKey: "clarity.late_fee_off",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return !s.LateFeeEnabled
		},
	},
	{
		ID: "no_dispute_path", Severity: "low", StepIndex: 7,
		FieldPath: "dispute_path", MessageKey: "clarity.no_dispute_path",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return s.DisputePath == ""
		},
	},
	{
		ID: "no_governing_law", Severity: "low", StepIndex: 7,
		FieldPath: "governing_law", MessageKey: "clarity.no_governing_law",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return s.GoverningLaw == nil || *s.GoverningLaw == ""
		},
	},
	{
		ID: "no_ownership_rule", Severity: "low", StepIndex: 6,
		FieldPath: "ownership_transfer_rule", MessageKey: "clarity.no_ownership_rule",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return s.OwnershipTransferRule == ""
		},
	},
	{
		ID: "no_summary", Severity: "low", StepIndex: 1,
		FieldPath: "summary", MessageKey: "clarity.no_summary",
		Check: func(s domain.Snapshot, _, _ string) bool {
			return trimmedEmpty(s.Summary)
		},
	},
}

func trimmedEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Evaluate runs every rule against the snapshot and returns matches sorted
// by severity rank, high first. The sort is stable so rule-table order is
// preserved inside each severity group.
func Evaluate(s domain.Snapshot, engagementType, category string) []domain.ClarityRisk {
	var risks []domain.ClarityRisk
	for _, r := range Rules {
		if r.Check(s, engagementType, category) {
			risks = append(risks, domain.ClarityRisk{
				ID:         r.ID,
				Severity:   r.Severity,
				StepIndex:  r.StepIndex,
				FieldPath:  r.FieldPath,
				MessageKey: r.MessageKey,
			})
		}
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return severityRank[risks[i].Severity] < severityRank[risks[j].Severity]
	})
	return risks
}

// ForStep filters risks down to one wizard step.
func ForStep(risks []domain.ClarityRisk, stepIndex int) []domain.ClarityRisk {
	var out []domain.ClarityRisk
	for _, r := range risks {
		if r.StepIndex == stepIndex {
			out = append(out, r)
		}
	}
	return out
}

// RiskCounts aggregates risks per severity.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Total  int `json:"total"`
}

func Counts(risks []domain.ClarityRisk) RiskCounts {
	var c RiskCounts
	for _, r := range risks {
		switch r.Severity {
		case "high":
			c.High++
		case "medium":
			c.Medium++
		case "low":
			c.Low++
		}
	}
	c.Total = len(risks)
	return c
}

func HasHighSeverity(risks []domain.ClarityRisk) bool {
	for _, r := range risks {
		if r.Severity == "high" {
			return true
		}
	}
	return false
}
