package config

import (
	"strings"

	"github.com/google/uuid"

	"dealdesk/internal/domain"
)

// ApplySnapshotDefaults fills empty commercial fields on a snapshot from the
// configured defaults. Non-empty fields are left alone.
func (c *Config) ApplySnapshotDefaults(snap *domain.Snapshot) {
	if snap.Currency == "" {
		snap.Currency = c.Defaults.Currency
	}
	if snap.ReviewWindowDays == 0 {
		snap.ReviewWindowDays = c.Defaults.ReviewWindowDays
	}
	if snap.RevisionRounds == 0 {
		snap.RevisionRounds = c.Defaults.RevisionRounds
	}
	if snap.TerminationNoticeDays == 0 {
		snap.TerminationNoticeDays = c.Defaults.TerminationNoticeDays
	}
	if snap.OwnershipTransferRule == "" && c.Defaults.OwnershipTransferRule != "" {
		snap.OwnershipTransferRule = c.Defaults.OwnershipTransferRule
	}
	if snap.DisputePath == "" && c.Defaults.DisputePath != "" {
		snap.DisputePath = c.Defaults.DisputePath
	}
}

// MergeScopeDefaults appends the category's preset dependencies and
// exclusions that are not already present. Comparison is case-insensitive
// on trimmed text so re-applying defaults never duplicates lines.
func (c *Config) MergeScopeDefaults(snap *domain.Snapshot, category string) (added int) {
	preset := c.CategoryScope(category)
	snap.Dependencies, added = mergeLines(snap.Dependencies, preset.Dependencies)
	var more int
	snap.Exclusions, more = mergeLines(snap.Exclusions, preset.Exclusions)
	return added + more
}

// ShouldAutoApplyScope reports whether a snapshot is still untouched enough
// to seed scope defaults without clobbering user input.
func ShouldAutoApplyScope(snap *domain.Snapshot) bool {
	return len(snap.Dependencies) == 0 && len(snap.Exclusions) == 0
}

// DeliverableFromPreset builds a fresh deliverable from a preset, keeping
// the preset id so re-application can detect it.
func DeliverableFromPreset(p DeliverablePreset) domain.Deliverable {
	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	presetID := p.ID
	d := domain.Deliverable{
		ID:          uuid.New().String(),
		Description: p.Description,
		Quantity:    &qty,
		PresetID:    &presetID,
	}
	if p.Format != "" {
		format := p.Format
		d.Format = &format
	}
	return d
}

func mergeLines(existing, incoming []string) ([]string, int) {
	seen := make(map[string]bool, len(existing))
	for _, line := range existing {
		seen[normalizeLine(line)] = true
	}
	added := 0
	for _, line := range incoming {
		key := normalizeLine(line)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, line)
		added++
	}
	return existing, added
}

func normalizeLine(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
