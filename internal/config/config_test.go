package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.Default("prof-1")
	if cfg.Profile.ID != "prof-1" {
		t.Fatalf("profile id not set")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Defaults.Currency != "USD" || cfg.Defaults.ReviewWindowDays != 3 {
		t.Fatalf("unexpected defaults: %s/%d", cfg.Defaults.Currency, cfg.Defaults.ReviewWindowDays)
	}
	if cfg.Scope.Version != "1.0.0" {
		t.Fatalf("unexpected scope version %s", cfg.Scope.Version)
	}
	for _, category := range []string{"design", "development", "consulting", "marketing", "legal", "other"} {
		preset := cfg.CategoryScope(category)
		if len(preset.Exclusions) == 0 {
			t.Fatalf("category %s has no exclusions preset", category)
		}
	}
}

func TestGenerateDefaultRoundTrips(t *testing.T) {
	raw := config.GenerateDefault("prof-9")
	cfg, err := config.FromYAML([]byte(raw))
	if err != nil {
		t.Fatalf("parse generated: %v", err)
	}
	if cfg.Profile.ID != "prof-9" {
		t.Fatalf("profile id lost: %s", cfg.Profile.ID)
	}
	if cfg.Server.Addr != "127.0.0.1:8787" || cfg.Server.BasePath != "/v0" {
		t.Fatalf("unexpected server defaults")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	for name, yml := range map[string]string{
		"missing profile":  "defaults:\n  currency: USD\n",
		"missing currency": "profile:\n  id: p1\n",
		"bad dispute path": "profile:\n  id: p1\ndefaults:\n  currency: USD\n  dispute_path: trial_by_combat\n",
		"bad category":     "profile:\n  id: p1\ndefaults:\n  currency: USD\nscope:\n  categories:\n    gardening:\n      exclusions: [weeds]\n",
		"preset no id":     "profile:\n  id: p1\ndefaults:\n  currency: USD\nscope:\n  categories:\n    design:\n      deliverables:\n        - description: thing\n",
	} {
		if _, err := config.FromYAML([]byte(yml)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	if err != nil || cfg != nil {
		t.Fatalf("expected nil,nil for missing file, got %v/%v", cfg, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dealdesk.yml"), []byte(config.GenerateDefault("p1")), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg == nil || cfg.Profile.ID != "p1" {
		t.Fatalf("expected loaded config")
	}
	// Load errors instead of returning nil for a missing file
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error from Load")
	}
}

func TestApplySnapshotDefaultsFillsOnlyEmptyFields(t *testing.T) {
	cfg := config.Default("p1")
	snap := domain.Snapshot{Currency: "EUR"}
	cfg.ApplySnapshotDefaults(&snap)
	if snap.Currency != "EUR" {
		t.Fatalf("existing currency must win")
	}
	if snap.ReviewWindowDays != 3 || snap.TerminationNoticeDays != 14 {
		t.Fatalf("empty fields should be filled")
	}
	if snap.DisputePath != "negotiation" || snap.OwnershipTransferRule != "upon_full_payment" {
		t.Fatalf("string defaults should be filled")
	}
}

func TestMergeScopeDefaultsDeduplicates(t *testing.T) {
	cfg := config.Default("p1")
	snap := domain.Snapshot{
		Exclusions: []string{"  photography or PHOTO shoots  "},
	}
	added := cfg.MergeScopeDefaults(&snap, "design")
	preset := cfg.CategoryScope("design")
	want := len(preset.Dependencies) + len(preset.Exclusions) - 1
	if added != want {
		t.Fatalf("expected %d added, got %d", want, added)
	}
	// the user's original spelling is kept
	if snap.Exclusions[0] != "  photography or PHOTO shoots  " {
		t.Fatalf("existing lines must stay verbatim")
	}
	// a second merge adds nothing
	if again := cfg.MergeScopeDefaults(&snap, "design"); again != 0 {
		t.Fatalf("re-merge must be a no-op, added %d", again)
	}
}

func TestShouldAutoApplyScope(t *testing.T) {
	empty := domain.Snapshot{}
	if !config.ShouldAutoApplyScope(&empty) {
		t.Fatalf("expected auto-apply on untouched snapshot")
	}
	touched := domain.Snapshot{Dependencies: []string{"API keys"}}
	if config.ShouldAutoApplyScope(&touched) {
		t.Fatalf("user input must block auto-apply")
	}
}

func TestDeliverableFromPreset(t *testing.T) {
	d := config.DeliverableFromPreset(config.DeliverablePreset{
		ID: "logo-design", Description: "Logo design", Format: "SVG",
	})
	if d.ID == "" || d.ID == "logo-design" {
		t.Fatalf("expected fresh uuid, got %q", d.ID)
	}
	if d.Quantity == nil || *d.Quantity != 1 {
		t.Fatalf("expected quantity floor of 1")
	}
	if d.PresetID == nil || *d.PresetID != "logo-design" {
		t.Fatalf("expected preset link")
	}
	if d.Format == nil || *d.Format != "SVG" {
		t.Fatalf("expected format carried")
	}
	plain := config.DeliverableFromPreset(config.DeliverablePreset{ID: "x", Description: "Thing"})
	if plain.Format != nil {
		t.Fatalf("empty format should stay nil")
	}
}
