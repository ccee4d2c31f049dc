package wizard

import (
	"sync"
	"time"
)

// The nine fixed wizard steps, in order.
const (
	StepClientSetup = iota
	StepSummary
	StepScope
	StepTimeline
	StepReviews
	StepPayment
	StepRelationship
	StepTerms
	StepReviewExport

	TotalSteps = 9
)

var StepLabels = [TotalSteps]string{
	"Client Setup",
	"Summary",
	"Scope",
	"Timeline",
	"Reviews",
	"Payment",
	"Relationship",
	"Terms",
	"Review & Export",
}

// Session holds the navigation state for one editing session. Each session
// is its own value; nothing here is process-global, so concurrent editing
// sessions cannot interfere. All transitions are atomic under the mutex.
type Session struct {
	mu sync.Mutex

	mode         string // "create" or "edit"
	currentStep  int
	visited      map[int]bool
	engagementID string
	typ          string
	category     string
	language     string

	dirty       bool
	lastSavedAt string
	loading     bool
	saving      bool
}

// NewSession starts a create-mode session at step 0.
func NewSession(engagementType, category, language string) *Session {
	return &Session{
		mode:     "create",
		visited:  map[int]bool{StepClientSetup: true},
		typ:      engagementType,
		category: category,
		language: language,
	}
}

// NewEditSession starts an edit-mode session for an existing engagement.
// The document is already fully populated, so every step is visited up
// front and type/category/language are locked to the stored values.
func NewEditSession(engagementID, engagementType, category, language string) *Session {
	s := &Session{
		mode:         "edit",
		visited:      make(map[int]bool, TotalSteps),
		engagementID: engagementID,
		typ:          engagementType,
		category:     category,
		language:     language,
	}
	for i := 0; i < TotalSteps; i++ {
		s.visited[i] = true
	}
	return s
}

// CanNavigateTo reports whether a jump to step is permitted: any visited
// step, or exactly one step beyond the current position.
func (s *Session) CanNavigateTo(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canNavigateLocked(step)
}

func (s *Session) canNavigateLocked(step int) bool {
	if step < 0 || step >= TotalSteps {
		return false
	}
	if s.visited[step] {
		return true
	}
	return step == s.currentStep+1
}

// GoTo moves to step if permitted and marks it visited. Returns whether
// the navigation happened; a rejected jump leaves the state unchanged.
func (s *Session) GoTo(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canNavigateLocked(step) {
		return false
	}
	s.currentStep = step
	s.visited[step] = true
	return true
}

// Next advances one step, clamped to the last step.
func (s *Session) Next() bool {
	s.mu.Lock()
	step := s.currentStep + 1
	s.mu.Unlock()
	if step > TotalSteps-1 {
		step = TotalSteps - 1
	}
	return s.GoTo(step)
}

// Prev moves one step back, clamped to step 0. Backward movement is
// always permitted.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentStep > 0 {
		s.currentStep--
	}
}

func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep
}

func (s *Session) Visited(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visited[step]
}

func (s *Session) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// EngagementID returns the persisted engagement id, empty for a new draft.
func (s *Session) EngagementID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engagementID
}

// SetEngagementID records the id once the draft is first persisted.
func (s *Session) SetEngagementID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagementID = id
}

// Classification returns type, category and language for the session.
func (s *Session) Classification() (engagementType, category, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typ, s.category, s.language
}

// SetClassification updates type/category/language; ignored in edit mode,
// where the stored values are locked.
func (s *Session) SetClassification(engagementType, category, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == "edit" {
		return
	}
	if engagementType != "" {
		s.typ = engagementType
	}
	if category != "" {
		s.category = category
	}
	if language != "" {
		s.language = language
	}
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) SetDirty(dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = dirty
}

func (s *Session) LastSavedAt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt
}

func (s *Session) MarkSaved(ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	s.lastSavedAt = ts.UTC().Format(time.RFC3339)
}

func (s *Session) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Session) SetSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
}

// Busy reports loading/saving flags in one atomic read.
func (s *Session) Busy() (loading, saving bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.saving
}
