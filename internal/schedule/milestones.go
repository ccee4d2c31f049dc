package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dealdesk/internal/domain"
)

const dateLayout = "2006-01-02"

// MilestoneDates returns count target dates evenly distributed strictly
// between start and end: date[i] = start + (i+1)*(end-start)/(count+1).
// Missing dates or a non-positive range yield nil entries for every slot.
func MilestoneDates(count int, startDate, endDate *string) []*string {
	dates := make([]*string, count)
	if startDate == nil || endDate == nil || count == 0 {
		return dates
	}
	start, err := time.Parse(dateLayout, *startDate)
	if err != nil {
		return dates
	}
	end, err := time.Parse(dateLayout, *endDate)
	if err != nil {
		return dates
	}
	duration := end.Sub(start)
	if duration <= 0 {
		return dates
	}
	for i := 0; i < count; i++ {
		offset := time.Duration(i+1) * duration / time.Duration(count+1)
		d := start.Add(offset).Format(dateLayout)
		dates[i] = &d
	}
	return dates
}

// GenerateMilestones builds one milestone per deliverable with distributed
// target dates. Milestones the user edited are kept untouched and their
// source deliverables are skipped; everything else is regenerated.
func GenerateMilestones(deliverables []domain.Deliverable, startDate, endDate *string, existing []domain.Milestone) []domain.Milestone {
	if len(deliverables) == 0 {
		return existing
	}

	var preserved []domain.Milestone
	covered := make(map[string]bool)
	for _, m := range existing {
		if m.State == domain.ItemEdited {
			preserved = append(preserved, m)
			if m.GeneratedFromDeliverableID != nil {
				covered[*m.GeneratedFromDeliverableID] = true
			}
		}
	}

	var pending []domain.Deliverable
	for _, d := range deliverables {
		if !covered[d.ID] {
			pending = append(pending, d)
		}
	}

	dates := MilestoneDates(len(pending), startDate, endDate)

	out := append([]domain.Milestone{}, preserved...)
	for i, d := range pending {
		title := d.Description
		if title == "" {
			title = fmt.Sprintf("Milestone %d", i+1)
		}
		deliverableID := d.ID
		out = append(out, domain.Milestone{
			ID:                         uuid.New().String(),
			Title:                      title,
			TargetDate:                 dates[i],
			DeliverableIDs:             []string{d.ID},
			State:                      domain.ItemGenerated,
			GeneratedFromDeliverableID: &deliverableID,
		})
	}
	return out
}

// SyncMilestones drops generated milestones whose source deliverable was
// removed. Edited milestones and milestones without a source are kept.
func SyncMilestones(milestones []domain.Milestone, deliverables []domain.Deliverable) []domain.Milestone {
	ids := make(map[string]bool, len(deliverables))
	for _, d := range deliverables {
		ids[d.ID] = true
	}
	var out []domain.Milestone
	for _, m := range milestones {
		switch {
		case m.State == domain.ItemEdited:
			out = append(out, m)
		case m.GeneratedFromDeliverableID == nil:
			out = append(out, m)
		case ids[*m.GeneratedFromDeliverableID]:
			out = append(out, m)
		}
	}
	return out
}

// MarkMilestoneEdited flips a milestone to the edited state; edited items
// are never overwritten by later regeneration.
func MarkMilestoneEdited(m domain.Milestone) domain.Milestone {
	m.State = domain.ItemEdited
	return m
}
