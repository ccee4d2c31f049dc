package domain

// Engagement is the root record for one service agreement with a client.
// Document content lives in versions; the engagement row tracks identity,
// classification and lifecycle status.
type Engagement struct {
	ID               string  `json:"id"`
	ProfileID        string  `json:"profile_id"`
	ClientID         string  `json:"client_id"`
	ProjectID        *string `json:"project_id,omitempty"`
	Type             string  `json:"type" enum:"task,retainer"`
	Category         string  `json:"category" enum:"design,development,consulting,marketing,legal,other"`
	PrimaryLanguage  string  `json:"primary_language" enum:"en,ar"`
	Status           string  `json:"status" enum:"draft,final,archived"`
	CurrentVersionID *string `json:"current_version_id,omitempty"`
	CreatedAt        string  `json:"created_at" format:"date-time"`
	UpdatedAt        string  `json:"updated_at" format:"date-time"`
	ArchivedAt       *string `json:"archived_at,omitempty" format:"date-time"`
}

// EngagementVersion is an immutable numbered capture of the document.
// Versions are append-only; versionNumber starts at 1 per engagement.
type EngagementVersion struct {
	ID            string   `json:"id"`
	EngagementID  string   `json:"engagement_id"`
	VersionNumber int      `json:"version_number"`
	Status        string   `json:"status" enum:"draft,final"`
	Snapshot      Snapshot `json:"snapshot"`
	CreatedAt     string   `json:"created_at" format:"date-time"`
}

// Item states for generated schedule entries. An item the user has touched is
// "edited" and must survive regeneration unchanged.
const (
	ItemGenerated = "generated"
	ItemEdited    = "edited"
)

type Deliverable struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    *int    `json:"quantity,omitempty"`
	Format      *string `json:"format,omitempty"`
	PresetID    *string `json:"preset_id,omitempty"`
}

type Milestone struct {
	ID                         string   `json:"id"`
	Title                      string   `json:"title"`
	TargetDate                 *string  `json:"target_date,omitempty" format:"date"`
	DeliverableIDs             []string `json:"deliverable_ids,omitempty"`
	State                      string   `json:"state" enum:"generated,edited"`
	GeneratedFromDeliverableID *string  `json:"generated_from_deliverable_id,omitempty"`
}

type PaymentScheduleItem struct {
	ID                       string  `json:"id"`
	Label                    string  `json:"label"`
	Trigger                  string  `json:"trigger" enum:"on_signing,on_milestone,on_completion,monthly"`
	MilestoneID              *string `json:"milestone_id,omitempty"`
	AmountMinor              int64   `json:"amount_minor"`
	Currency                 string  `json:"currency"`
	State                    string  `json:"state" enum:"generated,edited"`
	GeneratedFromMilestoneID *string `json:"generated_from_milestone_id,omitempty"`
}

// Snapshot is the full point-in-time content of an engagement document,
// stored as JSON inside a version row. Monetary fields are integer minor
// units; dates are YYYY-MM-DD strings. Every field is optional on the wire:
// a snapshot is a working document that fills in over time, and the clarity
// rules and generators must accept it half-finished.
type Snapshot struct {
	ProfileID   string  `json:"profile_id" required:"false"`
	ProfileName string  `json:"profile_name" required:"false"`
	ClientID    string  `json:"client_id" required:"false"`
	ClientName  string  `json:"client_name" required:"false"`
	ProjectID   *string `json:"project_id,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`
	Title       string  `json:"title" required:"false"`
	Summary     string  `json:"summary" required:"false"`
	ClientGoal  *string `json:"client_goal,omitempty"`

	Deliverables []Deliverable `json:"deliverables" required:"false"`
	Exclusions   []string      `json:"exclusions" required:"false"`
	Dependencies []string      `json:"dependencies" required:"false"`

	StartDate             *string     `json:"start_date,omitempty" format:"date"`
	EndDate               *string     `json:"end_date,omitempty" format:"date"`
	Milestones            []Milestone `json:"milestones" required:"false"`
	ReviewWindowDays      int         `json:"review_window_days" required:"false"`
	SilenceEqualsApproval bool        `json:"silence_equals_approval" required:"false"`

	RevisionRounds     int      `json:"revision_rounds" required:"false"`
	RevisionDefinition []string `json:"revision_definition,omitempty"`
	BugFixDays         *int     `json:"bug_fix_days,omitempty"`
	ChangeRequestRule  bool     `json:"change_request_rule" required:"false"`

	// Retainer terms.
	ScopeCategories  []string `json:"scope_categories,omitempty"`
	MonthlyCapacity  *string  `json:"monthly_capacity,omitempty"`
	ResponseTimeDays *int     `json:"response_time_days,omitempty"`

	Currency         string                `json:"currency" required:"false"`
	TotalAmountMinor *int64                `json:"total_amount_minor,omitempty"`
	DepositPercent   *int                  `json:"deposit_percent,omitempty"`
	ScheduleItems    []PaymentScheduleItem `json:"schedule_items" required:"false"`
	LateFeeEnabled   bool                  `json:"late_fee_enabled" required:"false"`

	RetainerAmountMinor *int64  `json:"retainer_amount_minor,omitempty"`
	BillingDay          *int    `json:"billing_day,omitempty"`
	RolloverRule        *string `json:"rollover_rule,omitempty" enum:"none,carry,expire"`
	OutOfScopeRateMinor *int64  `json:"out_of_scope_rate_minor,omitempty"`

	TermType                string `json:"term_type" required:"false" enum:"fixed,month-to-month"`
	TerminationNoticeDays   int    `json:"termination_notice_days" required:"false"`
	CancellationCoveragePct *int   `json:"cancellation_coverage_percent,omitempty"`
	OwnershipTransferRule   string `json:"ownership_transfer_rule" required:"false"`

	Confidentiality       bool    `json:"confidentiality" required:"false"`
	IPOwnership           bool    `json:"ip_ownership" required:"false"`
	WarrantyDisclaimer    bool    `json:"warranty_disclaimer" required:"false"`
	LimitationOfLiability bool    `json:"limitation_of_liability" required:"false"`
	NonSolicitation       bool    `json:"non_solicitation" required:"false"`
	DisputePath           string  `json:"dispute_path" required:"false" enum:"negotiation,mediation,arbitration"`
	GoverningLaw          *string `json:"governing_law,omitempty"`

	DefaultsApplied bool    `json:"defaults_applied,omitempty"`
	DefaultsVersion *string `json:"defaults_version,omitempty"`
}

// DefaultSnapshot returns the starting content for a new document.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Deliverables:          []Deliverable{},
		Exclusions:            []string{},
		Dependencies:          []string{},
		Milestones:            []Milestone{},
		ReviewWindowDays:      3,
		RevisionRounds:        2,
		ChangeRequestRule:     true,
		Currency:              "USD",
		ScheduleItems:         []PaymentScheduleItem{},
		TermType:              "fixed",
		TerminationNoticeDays: 14,
		OwnershipTransferRule: "upon_full_payment",
		Confidentiality:       true,
		IPOwnership:           true,
		WarrantyDisclaimer:    true,
		LimitationOfLiability: true,
		DisputePath:           "negotiation",
	}
}

// ClarityRisk is a detected gap or weak term in the current snapshot.
// Derived, never persisted.
type ClarityRisk struct {
	ID         string `json:"id"`
	Severity   string `json:"severity" enum:"high,medium,low"`
	StepIndex  int    `json:"step_index"`
	FieldPath  string `json:"field_path"`
	MessageKey string `json:"message_key"`
}

// Party records. The document store resolves these for display and search;
// they are external collaborators of the document core.

type BusinessProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Project struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// EngagementDisplay is an engagement enriched with resolved names and
// version bookkeeping for list views.
type EngagementDisplay struct {
	Engagement
	ProfileName   string  `json:"profile_name,omitempty"`
	ClientName    string  `json:"client_name,omitempty"`
	ProjectName   *string `json:"project_name,omitempty"`
	Title         string  `json:"title,omitempty"`
	VersionCount  int     `json:"version_count"`
	LastVersionAt *string `json:"last_version_at,omitempty" format:"date-time"`
}

type Event struct {
	ID           int64  `json:"id"`
	TS           string `json:"ts" format:"date-time"`
	Type         string `json:"type"`
	EngagementID string `json:"engagement_id,omitempty"`
	EntityKind   string `json:"entity_kind"`
	EntityID     string `json:"entity_id,omitempty"`
	ActorID      string `json:"actor_id"`
	Payload      string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// RecoveryRecord is the single keyed autosave record used for crash
// recovery of an in-progress wizard session.
type RecoveryRecord struct {
	Key          string   `json:"key"`
	EngagementID *string  `json:"engagement_id,omitempty"`
	Snapshot     Snapshot `json:"snapshot"`
	SavedAt      string   `json:"saved_at" format:"date-time"`
}
