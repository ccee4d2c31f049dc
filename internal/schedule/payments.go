package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"dealdesk/internal/domain"
)

// MaxGeneratedPayments caps how many schedule entries the generators emit
// from milestones or deliverables.
const MaxGeneratedPayments = 6

var splitLabels = map[string]struct{ deposit, agreement, completion string }{
	"en": {"Deposit (30%)", "Agreement (40%)", "Completion (30%)"},
	"ar": {"الدفعة الأولى (30%)", "الاتفاق (40%)", "عند الإنجاز (30%)"},
}

// FromMilestones distributes totalMinor evenly over at most
// MaxGeneratedPayments milestones. The integer-division remainder lands on
// the last item so the sum is exact.
func FromMilestones(milestones []domain.Milestone, totalMinor int64, currency string) []domain.PaymentScheduleItem {
	if len(milestones) == 0 || totalMinor <= 0 {
		return nil
	}
	use := milestones
	if len(use) > MaxGeneratedPayments {
		use = use[:MaxGeneratedPayments]
	}
	per := totalMinor / int64(len(use))
	remainder := totalMinor - per*int64(len(use))

	items := make([]domain.PaymentScheduleItem, 0, len(use))
	for i, m := range use {
		label := m.Title
		if label == "" {
			label = fmt.Sprintf("Payment %d", i+1)
		}
		amount := per
		if i == len(use)-1 {
			amount += remainder
		}
		milestoneID := m.ID
		items = append(items, domain.PaymentScheduleItem{
			ID:                       uuid.New().String(),
			Label:                    label,
			Trigger:                  "on_milestone",
			MilestoneID:              &milestoneID,
			AmountMinor:              amount,
			Currency:                 currency,
			State:                    domain.ItemGenerated,
			GeneratedFromMilestoneID: &milestoneID,
		})
	}
	return items
}

// FromDeliverables is the fallback distribution when no milestones exist.
func FromDeliverables(deliverables []domain.Deliverable, totalMinor int64, currency string) []domain.PaymentScheduleItem {
	if len(deliverables) == 0 || totalMinor <= 0 {
		return nil
	}
	count := len(deliverables)
	if count > MaxGeneratedPayments {
		count = MaxGeneratedPayments
	}
	per := totalMinor / int64(count)
	remainder := totalMinor - per*int64(count)

	items := make([]domain.PaymentScheduleItem, 0, count)
	for i, d := range deliverables[:count] {
		label := d.Description
		if label == "" {
			label = fmt.Sprintf("Payment %d", i+1)
		}
		amount := per
		if i == count-1 {
			amount += remainder
		}
		items = append(items, domain.PaymentScheduleItem{
			ID:          uuid.New().String(),
			Label:       label,
			Trigger:     "on_completion",
			AmountMinor: amount,
			Currency:    currency,
			State:       domain.ItemGenerated,
		})
	}
	return items
}

// DefaultSplit produces the fixed 30/40/30 schedule. Integer division
// remainders are absorbed by the completion bucket.
func DefaultSplit(totalMinor int64, currency, language string) []domain.PaymentScheduleItem {
	if totalMinor <= 0 {
		return nil
	}
	labels, ok := splitLabels[language]
	if !ok {
		labels = splitLabels["en"]
	}
	deposit := totalMinor * 30 / 100
	agreement := totalMinor * 40 / 100
	completion := totalMinor - deposit - agreement

	return []domain.PaymentScheduleItem{
		{
			ID: uuid.New().String(), Label: labels.deposit, Trigger: "on_signing",
			AmountMinor: deposit, Currency: currency, State: domain.ItemGenerated,
		},
		{
			ID: uuid.New().String(), Label: labels.agreement, Trigger: "on_milestone",
			AmountMinor: agreement, Currency: currency, State: domain.ItemGenerated,
		},
		{
			ID: uuid.New().String(), Label: labels.completion, Trigger: "on_completion",
			AmountMinor: completion, Currency: currency, State: domain.ItemGenerated,
		},
	}
}

// GeneratePayments builds a schedule summing exactly to totalMinor. Source
// priority is milestones, then deliverables, then the default split. Items
// the user edited are kept as-is; only the remaining amount is distributed,
// and milestones already covered by an edited item are excluded.
func GeneratePayments(milestones []domain.Milestone, deliverables []domain.Deliverable, totalMinor int64, currency string, existing []domain.PaymentScheduleItem, language string) []domain.PaymentScheduleItem {
	var preserved []domain.PaymentScheduleItem
	var preservedTotal int64
	covered := make(map[string]bool)
	for _, item := range existing {
		if item.State == domain.ItemEdited {
			preserved = append(preserved, item)
			preservedTotal += item.AmountMinor
			if item.GeneratedFromMilestoneID != nil {
				covered[*item.GeneratedFromMilestoneID] = true
			}
		}
	}

	remaining := totalMinor - preservedTotal
	if remaining <= 0 {
		return preserved
	}

	var generated []domain.PaymentScheduleItem
	switch {
	case len(milestones) > 0:
		var uncovered []domain.Milestone
		for _, m := range milestones {
			if !covered[m.ID] {
				uncovered = append(uncovered, m)
			}
		}
		generated = FromMilestones(uncovered, remaining, currency)
	case len(deliverables) > 0:
		generated = FromDeliverables(deliverables, remaining, currency)
	default:
		generated = DefaultSplit(remaining, currency, language)
	}

	return append(preserved, generated...)
}

// ResetPayments discards every non-edited item and recomputes the whole
// schedule. This is the only path that throws away generated items.
func ResetPayments(milestones []domain.Milestone, deliverables []domain.Deliverable, totalMinor int64, currency, language string) []domain.PaymentScheduleItem {
	return GeneratePayments(milestones, deliverables, totalMinor, currency, nil, language)
}

// MarkPaymentEdited flips a schedule item to the edited state.
func MarkPaymentEdited(item domain.PaymentScheduleItem) domain.PaymentScheduleItem {
	item.State = domain.ItemEdited
	return item
}

// ShouldAutoFill reports whether the payment step should generate a
// schedule on first visit.
func ShouldAutoFill(items []domain.PaymentScheduleItem, totalMinor int64) bool {
	return len(items) == 0 && totalMinor > 0
}
