package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/events"
	"dealdesk/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// CreateOptions are parameters for creating an engagement. Either ClientID
// or ClientName must be set; a name creates the client record on the fly.
type CreateOptions struct {
	ProfileID   string
	ClientID    string
	ClientName  string
	ProjectID   string
	ProjectName string
	Type        string
	Category    string
	Language    string
	Snapshot    *domain.Snapshot
	ActorID     string
}

func (e Engine) CreateEngagement(ctx context.Context, opts CreateOptions) (domain.Engagement, domain.EngagementVersion, error) {
	var none domain.EngagementVersion
	if opts.ProfileID == "" {
		return domain.Engagement{}, none, errors.New("profile is required")
	}
	switch opts.Type {
	case "task", "retainer":
	default:
		return domain.Engagement{}, none, fmt.Errorf("type must be task or retainer, got %q", opts.Type)
	}
	switch opts.Category {
	case "design", "development", "consulting", "marketing", "legal", "other":
	default:
		return domain.Engagement{}, none, fmt.Errorf("unknown category %q", opts.Category)
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Language != "en" && opts.Language != "ar" {
		return domain.Engagement{}, none, fmt.Errorf("language must be en or ar, got %q", opts.Language)
	}
	profile, err := e.Repo.GetProfile(ctx, opts.ProfileID)
	if err != nil {
		return domain.Engagement{}, none, fmt.Errorf("profile: %w", err)
	}

	now := e.timestamp()
	clientID := opts.ClientID
	clientName := opts.ClientName
	if clientID == "" {
		if strings.TrimSpace(clientName) == "" {
			return domain.Engagement{}, none, errors.New("client is required")
		}
		clientID = uuid.New().String()
		if err := e.Repo.InsertClient(ctx, domain.Client{ID: clientID, Name: strings.TrimSpace(clientName), CreatedAt: now}); err != nil {
			return domain.Engagement{}, none, err
		}
	} else {
		c, err := e.Repo.GetClient(ctx, clientID)
		if err != nil {
			return domain.Engagement{}, none, fmt.Errorf("client: %w", err)
		}
		clientName = c.Name
	}

	var projectID *string
	var projectName *string
	if opts.ProjectID != "" {
		p, err := e.Repo.GetProject(ctx, opts.ProjectID)
		if err != nil {
			return domain.Engagement{}, none, fmt.Errorf("project: %w", err)
		}
		if p.ClientID != clientID {
			return domain.Engagement{}, none, errors.New("project belongs to a different client")
		}
		projectID = &p.ID
		projectName = &p.Name
	} else if strings.TrimSpace(opts.ProjectName) != "" {
		p := domain.Project{ID: uuid.New().String(), ClientID: clientID, Name: strings.TrimSpace(opts.ProjectName), CreatedAt: now}
		if err := e.Repo.InsertProject(ctx, p); err != nil {
			return domain.Engagement{}, none, err
		}
		projectID = &p.ID
		projectName = &p.Name
	}

	snap := domain.DefaultSnapshot()
	if opts.Snapshot != nil {
		snap = *opts.Snapshot
	}
	snap.ProfileID = profile.ID
	snap.ProfileName = profile.Name
	snap.ClientID = clientID
	snap.ClientName = clientName
	snap.ProjectID = projectID
	snap.ProjectName = projectName
	if e.Config != nil {
		e.Config.ApplySnapshotDefaults(&snap)
		if config.ShouldAutoApplyScope(&snap) {
			e.Config.MergeScopeDefaults(&snap, opts.Category)
			snap.DefaultsApplied = true
			if v := e.Config.Scope.Version; v != "" {
				snap.DefaultsVersion = &v
			}
		}
	}

	eng := domain.Engagement{
		ID:              uuid.New().String(),
		ProfileID:       profile.ID,
		ClientID:        clientID,
		ProjectID:       projectID,
		Type:            opts.Type,
		Category:        opts.Category,
		PrimaryLanguage: opts.Language,
		Status:          "draft",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	version := domain.EngagementVersion{
		ID:            uuid.New().String(),
		EngagementID:  eng.ID,
		VersionNumber: 1,
		Status:        "draft",
		Snapshot:      snap,
		CreatedAt:     now,
	}
	eng.CurrentVersionID = &version.ID

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Engagement{}, none, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertEngagement(ctx, tx, eng); err != nil {
		return domain.Engagement{}, none, fmt.Errorf("insert engagement: %w", err)
	}
	if err := e.Repo.InsertVersion(ctx, tx, version); err != nil {
		return domain.Engagement{}, none, fmt.Errorf("insert version: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "engagement.created", eng.ID, "engagement", eng.ID, opts.ActorID, events.EventPayload{
		"type": eng.Type, "category": eng.Category, "language": eng.PrimaryLanguage,
	}); err != nil {
		return domain.Engagement{}, none, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Engagement{}, none, err
	}
	return eng, version, nil
}

// SaveVersion appends a new draft version with the provided snapshot.
// Saving onto a final engagement reopens it as a draft and records that.
func (e Engine) SaveVersion(ctx context.Context, engagementID string, snap domain.Snapshot, actorID string) (domain.EngagementVersion, error) {
	var none domain.EngagementVersion
	if err := validateSnapshot(snap); err != nil {
		return none, err
	}
	eng, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return none, err
	}
	if eng.Status == "archived" {
		return none, errors.New("engagement is archived; restore it before saving")
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return none, err
	}
	defer tx.Rollback()

	number, err := e.Repo.NextVersionNumber(ctx, tx, engagementID)
	if err != nil {
		return none, err
	}
	now := e.timestamp()
	v := domain.EngagementVersion{
		ID:            uuid.New().String(),
		EngagementID:  engagementID,
		VersionNumber: number,
		Status:        "draft",
		Snapshot:      snap,
		CreatedAt:     now,
	}
	if err := e.Repo.InsertVersion(ctx, tx, v); err != nil {
		return none, err
	}
	reopened := eng.Status == "final"
	eng.Status = "draft"
	eng.CurrentVersionID = &v.ID
	eng.UpdatedAt = now
	if err := e.Repo.UpdateEngagement(ctx, tx, eng); err != nil {
		return none, err
	}
	if reopened {
		if err := e.Events.Append(ctx, tx, "engagement.reopened", engagementID, "engagement", engagementID, actorID, events.EventPayload{
			"version_number": number,
		}); err != nil {
			return none, err
		}
	}
	if err := e.Events.Append(ctx, tx, "version.saved", engagementID, "version", v.ID, actorID, events.EventPayload{
		"version_number": number,
	}); err != nil {
		return none, err
	}
	if err := tx.Commit(); err != nil {
		return none, err
	}
	return v, nil
}

// Finalize appends a final version carrying the latest snapshot and marks
// the engagement final. The snapshot must pass full validation.
func (e Engine) Finalize(ctx context.Context, engagementID, actorID string) (domain.EngagementVersion, error) {
	var none domain.EngagementVersion
	eng, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return none, err
	}
	if eng.Status == "archived" {
		return none, errors.New("engagement is archived; restore it before finalizing")
	}
	latest, err := e.Repo.LatestVersion(ctx, engagementID)
	if err != nil {
		return none, err
	}
	if err := validateSnapshot(latest.Snapshot); err != nil {
		return none, err
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return none, err
	}
	defer tx.Rollback()

	number, err := e.Repo.NextVersionNumber(ctx, tx, engagementID)
	if err != nil {
		return none, err
	}
	now := e.timestamp()
	v := domain.EngagementVersion{
		ID:            uuid.New().String(),
		EngagementID:  engagementID,
		VersionNumber: number,
		Status:        "final",
		Snapshot:      latest.Snapshot,
		CreatedAt:     now,
	}
	if err := e.Repo.InsertVersion(ctx, tx, v); err != nil {
		return none, err
	}
	eng.Status = "final"
	eng.CurrentVersionID = &v.ID
	eng.UpdatedAt = now
	if err := e.Repo.UpdateEngagement(ctx, tx, eng); err != nil {
		return none, err
	}
	if err := e.Events.Append(ctx, tx, "engagement.finalized", engagementID, "version", v.ID, actorID, events.EventPayload{
		"version_number": number,
	}); err != nil {
		return none, err
	}
	if err := tx.Commit(); err != nil {
		return none, err
	}
	return v, nil
}

// DuplicateOptions optionally re-point the copy at another client or
// profile. Empty fields keep the source's references.
type DuplicateOptions struct {
	NewClientID  string
	NewProfileID string
}

// Duplicate clones the latest snapshot into a fresh draft engagement,
// keeping the source's client and profile unless re-pointed. The project
// link is cleared; schedules keep their content but the copy starts its
// own version history at 1.
func (e Engine) Duplicate(ctx context.Context, engagementID string, opts DuplicateOptions, actorID string) (domain.Engagement, error) {
	src, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return domain.Engagement{}, err
	}
	latest, err := e.Repo.LatestVersion(ctx, engagementID)
	if err != nil {
		return domain.Engagement{}, err
	}
	snap := latest.Snapshot
	snap.ProjectID = nil
	snap.ProjectName = nil

	clientID := src.ClientID
	profileID := src.ProfileID
	if opts.NewClientID != "" {
		c, err := e.Repo.GetClient(ctx, opts.NewClientID)
		if err != nil {
			return domain.Engagement{}, fmt.Errorf("client: %w", err)
		}
		clientID = c.ID
		snap.ClientID = c.ID
		snap.ClientName = c.Name
	}
	if opts.NewProfileID != "" {
		p, err := e.Repo.GetProfile(ctx, opts.NewProfileID)
		if err != nil {
			return domain.Engagement{}, fmt.Errorf("profile: %w", err)
		}
		profileID = p.ID
		snap.ProfileID = p.ID
		snap.ProfileName = p.Name
	}

	now := e.timestamp()
	dup := domain.Engagement{
		ID:              uuid.New().String(),
		ProfileID:       profileID,
		ClientID:        clientID,
		Type:            src.Type,
		Category:        src.Category,
		PrimaryLanguage: src.PrimaryLanguage,
		Status:          "draft",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	v := domain.EngagementVersion{
		ID:            uuid.New().String(),
		EngagementID:  dup.ID,
		VersionNumber: 1,
		Status:        "draft",
		Snapshot:      snap,
		CreatedAt:     now,
	}
	dup.CurrentVersionID = &v.ID

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Engagement{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertEngagement(ctx, tx, dup); err != nil {
		return domain.Engagement{}, err
	}
	if err := e.Repo.InsertVersion(ctx, tx, v); err != nil {
		return domain.Engagement{}, err
	}
	if err := e.Events.Append(ctx, tx, "engagement.duplicated", dup.ID, "engagement", dup.ID, actorID, events.EventPayload{
		"source_id": src.ID,
	}); err != nil {
		return domain.Engagement{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Engagement{}, err
	}
	return dup, nil
}

func (e Engine) Archive(ctx context.Context, engagementID, actorID string) error {
	eng, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return err
	}
	if eng.Status == "archived" {
		return nil
	}
	now := e.timestamp()
	eng.Status = "archived"
	eng.ArchivedAt = &now
	eng.UpdatedAt = now
	return e.updateWithEvent(ctx, eng, "engagement.archived", actorID, nil)
}

// Restore moves an archived engagement back to its pre-archive status,
// final when the latest version is final, draft otherwise.
func (e Engine) Restore(ctx context.Context, engagementID, actorID string) error {
	eng, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return err
	}
	if eng.Status != "archived" {
		return errors.New("engagement is not archived")
	}
	status := "draft"
	if latest, err := e.Repo.LatestVersion(ctx, engagementID); err == nil && latest.Status == "final" {
		status = "final"
	}
	eng.Status = status
	eng.ArchivedAt = nil
	eng.UpdatedAt = e.timestamp()
	return e.updateWithEvent(ctx, eng, "engagement.restored", actorID, events.EventPayload{"status": status})
}

func (e Engine) updateWithEvent(ctx context.Context, eng domain.Engagement, evtType, actorID string, payload events.EventPayload) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.UpdateEngagement(ctx, tx, eng); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, evtType, eng.ID, "engagement", eng.ID, actorID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the engagement and its whole version history. The event
// log keeps the trail.
func (e Engine) Delete(ctx context.Context, engagementID, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := e.Repo.GetEngagementTx(ctx, tx, engagementID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "engagement.deleted", "", "engagement", engagementID, actorID, nil); err != nil {
		return err
	}
	if err := e.Repo.DeleteEngagement(ctx, tx, engagementID); err != nil {
		return err
	}
	return tx.Commit()
}

func validateSnapshot(snap domain.Snapshot) error {
	if strings.TrimSpace(snap.Title) == "" {
		return errors.New("title is required")
	}
	if snap.ClientID == "" {
		return errors.New("client is required")
	}
	if snap.ProfileID == "" {
		return errors.New("profile is required")
	}
	if snap.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}
