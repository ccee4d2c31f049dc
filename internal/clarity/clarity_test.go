package clarity_test

import (
	"testing"

	"dealdesk/internal/clarity"
	"dealdesk/internal/domain"
)

func emptySnapshot() domain.Snapshot {
	return domain.Snapshot{}
}

func solidSnapshot() domain.Snapshot {
	deposit := 40
	bugFix := 14
	law := "Delaware"
	snap := domain.DefaultSnapshot()
	snap.Summary = "Build and launch the marketing site."
	snap.Deliverables = []domain.Deliverable{{ID: "d1", Description: "Homepage"}}
	snap.Exclusions = []string{"Copywriting"}
	snap.Dependencies = []string{"Brand assets from client"}
	snap.Milestones = []domain.Milestone{{ID: "m1", Title: "Launch"}}
	snap.DepositPercent = &deposit
	snap.BugFixDays = &bugFix
	snap.LateFeeEnabled = true
	snap.GoverningLaw = &law
	return snap
}

func TestEvaluateEmptySnapshotOrdersBySeverity(t *testing.T) {
	risks := clarity.Evaluate(emptySnapshot(), "task", "development")
	if len(risks) == 0 {
		t.Fatalf("expected risks on an empty snapshot")
	}
	last := 0
	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	for i, r := range risks {
		got := rank[r.Severity]
		if got < last {
			t.Fatalf("risk %d (%s) out of severity order", i, r.ID)
		}
		last = got
	}
	if risks[0].Severity != "high" {
		t.Fatalf("expected high severity first, got %s", risks[0].Severity)
	}
	if !clarity.HasHighSeverity(risks) {
		t.Fatalf("expected high severity flag")
	}
}

func TestEvaluateSolidSnapshotIsClean(t *testing.T) {
	risks := clarity.Evaluate(solidSnapshot(), "task", "development")
	if len(risks) != 0 {
		ids := make([]string, 0, len(risks))
		for _, r := range risks {
			ids = append(ids, r.ID)
		}
		t.Fatalf("expected no risks, got %v", ids)
	}
}

func TestDepositRuleOnlyForTaskType(t *testing.T) {
	snap := solidSnapshot()
	snap.DepositPercent = nil
	capacity := "40h"
	snap.MonthlyCapacity = &capacity
	if !hasRisk(clarity.Evaluate(snap, "task", "development"), "no_deposit") {
		t.Fatalf("expected deposit risk for task engagement")
	}
	if hasRisk(clarity.Evaluate(snap, "retainer", "development"), "no_deposit") {
		t.Fatalf("deposit rule must not fire for retainers")
	}
}

func TestCapacityCapRuleForRetainers(t *testing.T) {
	snap := solidSnapshot()
	risks := clarity.Evaluate(snap, "retainer", "consulting")
	if !hasRisk(risks, "no_capacity_cap") {
		t.Fatalf("expected capacity risk without cap or rate")
	}
	// either a monthly capacity or an out-of-scope rate clears it
	rate := int64(15000)
	snap.OutOfScopeRateMinor = &rate
	if hasRisk(clarity.Evaluate(snap, "retainer", "consulting"), "no_capacity_cap") {
		t.Fatalf("out-of-scope rate should clear the capacity risk")
	}
}

func TestCategoryScopedRules(t *testing.T) {
	snap := solidSnapshot()
	snap.BugFixDays = nil
	snap.RevisionRounds = 0
	dev := clarity.Evaluate(snap, "task", "development")
	if !hasRisk(dev, "no_bug_fix_window") {
		t.Fatalf("expected bug fix risk for development")
	}
	if hasRisk(dev, "no_revision_limit") {
		t.Fatalf("revision rule is design-only")
	}
	design := clarity.Evaluate(snap, "task", "design")
	if !hasRisk(design, "no_revision_limit") {
		t.Fatalf("expected revision risk for design")
	}
	if hasRisk(design, "no_bug_fix_window") {
		t.Fatalf("bug fix rule is development-only")
	}
}

func TestForStepAndCounts(t *testing.T) {
	risks := clarity.Evaluate(emptySnapshot(), "task", "design")
	step2 := clarity.ForStep(risks, 2)
	for _, r := range step2 {
		if r.StepIndex != 2 {
			t.Fatalf("unexpected step %d", r.StepIndex)
		}
	}
	if len(step2) == 0 {
		t.Fatalf("expected scope step risks")
	}
	c := clarity.Counts(risks)
	if c.Total != len(risks) {
		t.Fatalf("total mismatch: %d vs %d", c.Total, len(risks))
	}
	if c.High+c.Medium+c.Low != c.Total {
		t.Fatalf("severity buckets do not add up")
	}
	if c.High == 0 {
		t.Fatalf("expected high severity risks")
	}
}

func hasRisk(risks []domain.ClarityRisk, id string) bool {
	for _, r := range risks {
		if r.ID == id {
			return true
		}
	}
	return false
}
