package wizard_test

import (
	"testing"
	"time"

	"dealdesk/internal/wizard"
)

func TestCreateSessionStartsAtClientSetup(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	if s.CurrentStep() != wizard.StepClientSetup {
		t.Fatalf("expected step 0, got %d", s.CurrentStep())
	}
	if s.Mode() != "create" {
		t.Fatalf("expected create mode")
	}
	if !s.Visited(wizard.StepClientSetup) {
		t.Fatalf("first step should be visited")
	}
	if s.Visited(wizard.StepSummary) {
		t.Fatalf("later steps start unvisited")
	}
}

func TestForwardNavigationIsGated(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	// jumping two ahead is rejected
	if s.GoTo(wizard.StepScope) {
		t.Fatalf("expected jump past unvisited step rejected")
	}
	if s.CurrentStep() != wizard.StepClientSetup {
		t.Fatalf("rejected jump must not move the session")
	}
	// one step forward is allowed
	if !s.Next() {
		t.Fatalf("expected next to succeed")
	}
	if s.CurrentStep() != wizard.StepSummary {
		t.Fatalf("expected step 1")
	}
	// backward is always allowed
	s.Prev()
	if s.CurrentStep() != wizard.StepClientSetup {
		t.Fatalf("expected step 0 after prev")
	}
	// visited steps stay reachable by jump
	if !s.GoTo(wizard.StepSummary) {
		t.Fatalf("expected jump to visited step")
	}
}

func TestNextClampsAtLastStep(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	for i := 0; i < wizard.TotalSteps+3; i++ {
		s.Next()
	}
	if s.CurrentStep() != wizard.StepReviewExport {
		t.Fatalf("expected clamp at last step, got %d", s.CurrentStep())
	}
}

func TestEditSessionVisitsEverything(t *testing.T) {
	s := wizard.NewEditSession("eng-1", "retainer", "consulting", "ar")
	for i := 0; i < wizard.TotalSteps; i++ {
		if !s.Visited(i) {
			t.Fatalf("step %d should be visited in edit mode", i)
		}
	}
	if !s.GoTo(wizard.StepTerms) {
		t.Fatalf("expected free jumps in edit mode")
	}
	if s.EngagementID() != "eng-1" {
		t.Fatalf("expected engagement id")
	}
	// classification is locked in edit mode
	s.SetClassification("task", "design", "en")
	typ, cat, lang := s.Classification()
	if typ != "retainer" || cat != "consulting" || lang != "ar" {
		t.Fatalf("edit mode must not change classification")
	}
}

func TestClassificationUpdatesInCreateMode(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	s.SetClassification("retainer", "", "ar")
	typ, cat, lang := s.Classification()
	if typ != "retainer" || cat != "design" || lang != "ar" {
		t.Fatalf("expected partial update, got %s/%s/%s", typ, cat, lang)
	}
}

func TestDirtyAndSavedTracking(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	s.SetDirty(true)
	if !s.Dirty() {
		t.Fatalf("expected dirty")
	}
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.MarkSaved(ts)
	if s.Dirty() {
		t.Fatalf("save should clear dirty")
	}
	if s.LastSavedAt() != "2024-03-01T10:00:00Z" {
		t.Fatalf("unexpected saved timestamp %s", s.LastSavedAt())
	}
}

func TestOutOfRangeSteps(t *testing.T) {
	s := wizard.NewSession("task", "design", "en")
	if s.CanNavigateTo(-1) || s.CanNavigateTo(wizard.TotalSteps) {
		t.Fatalf("out-of-range steps must be rejected")
	}
}
