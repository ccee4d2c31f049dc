package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dealdesk/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

const engagementColumns = `id,profile_id,client_id,project_id,type,category,primary_language,status,current_version_id,created_at,updated_at,archived_at`

func scanEngagement(scan func(dest ...any) error) (domain.Engagement, error) {
	var e domain.Engagement
	var projectID, currentVersionID, archivedAt sql.NullString
	err := scan(&e.ID, &e.ProfileID, &e.ClientID, &projectID, &e.Type, &e.Category, &e.PrimaryLanguage,
		&e.Status, &currentVersionID, &e.CreatedAt, &e.UpdatedAt, &archivedAt)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	if err != nil {
		return e, err
	}
	if projectID.Valid {
		e.ProjectID = &projectID.String
	}
	if currentVersionID.Valid {
		e.CurrentVersionID = &currentVersionID.String
	}
	if archivedAt.Valid {
		e.ArchivedAt = &archivedAt.String
	}
	return e, nil
}

func (r Repo) InsertEngagement(ctx context.Context, tx *sql.Tx, e domain.Engagement) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO engagements(`+engagementColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.ProfileID, e.ClientID, nullableStringPtr(e.ProjectID), e.Type, e.Category, e.PrimaryLanguage,
		e.Status, nullableStringPtr(e.CurrentVersionID), e.CreatedAt, e.UpdatedAt, nullableStringPtr(e.ArchivedAt))
	return err
}

func (r Repo) GetEngagement(ctx context.Context, id string) (domain.Engagement, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id=?`, id)
	return scanEngagement(row.Scan)
}

func (r Repo) GetEngagementTx(ctx context.Context, tx *sql.Tx, id string) (domain.Engagement, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id=?`, id)
	return scanEngagement(row.Scan)
}

func (r Repo) UpdateEngagement(ctx context.Context, tx *sql.Tx, e domain.Engagement) error {
	res, err := tx.ExecContext(ctx, `UPDATE engagements SET profile_id=?, client_id=?, project_id=?, status=?, current_version_id=?, updated_at=?, archived_at=? WHERE id=?`,
		e.ProfileID, e.ClientID, nullableStringPtr(e.ProjectID), e.Status, nullableStringPtr(e.CurrentVersionID),
		e.UpdatedAt, nullableStringPtr(e.ArchivedAt), e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteEngagement(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM engagement_versions WHERE engagement_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM engagements WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type EngagementFilters struct {
	Status          string
	Type            string
	Category        string
	ProfileID       string
	ClientID        string
	ProjectID       string
	Search          string
	Sort            string
	IncludeArchived bool
	Limit           int
	Offset          int
}

// displayQuery joins resolved party names and latest-version bookkeeping
// onto each engagement row. The latest version (highest version_number)
// supplies the display title used by list views and free-text search.
const displayQuery = `
SELECT e.id, e.profile_id, e.client_id, e.project_id, e.type, e.category, e.primary_language,
       e.status, e.current_version_id, e.created_at, e.updated_at, e.archived_at,
       bp.name AS profile_name, c.name AS client_name, p.name AS project_name,
       COALESCE(lv.title,'') AS title,
       COALESCE(vc.n, 0) AS version_count,
       vc.last_at AS last_version_at
FROM engagements e
JOIN business_profiles bp ON bp.id = e.profile_id
JOIN clients c ON c.id = e.client_id
LEFT JOIN projects p ON p.id = e.project_id
LEFT JOIN (
  SELECT v.engagement_id, json_extract(v.snapshot_json,'$.title') AS title
  FROM engagement_versions v
  WHERE v.version_number = (SELECT MAX(v2.version_number) FROM engagement_versions v2 WHERE v2.engagement_id = v.engagement_id)
) lv ON lv.engagement_id = e.id
LEFT JOIN (
  SELECT engagement_id, COUNT(*) AS n, MAX(created_at) AS last_at
  FROM engagement_versions GROUP BY engagement_id
) vc ON vc.engagement_id = e.id`

func scanDisplay(scan func(dest ...any) error) (domain.EngagementDisplay, error) {
	var d domain.EngagementDisplay
	var projectID, currentVersionID, archivedAt, projectName, lastVersionAt sql.NullString
	err := scan(&d.ID, &d.ProfileID, &d.ClientID, &projectID, &d.Type, &d.Category, &d.PrimaryLanguage,
		&d.Status, &currentVersionID, &d.CreatedAt, &d.UpdatedAt, &archivedAt,
		&d.ProfileName, &d.ClientName, &projectName, &d.Title, &d.VersionCount, &lastVersionAt)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	if projectID.Valid {
		d.ProjectID = &projectID.String
	}
	if currentVersionID.Valid {
		d.CurrentVersionID = &currentVersionID.String
	}
	if archivedAt.Valid {
		d.ArchivedAt = &archivedAt.String
	}
	if projectName.Valid {
		d.ProjectName = &projectName.String
	}
	if lastVersionAt.Valid {
		d.LastVersionAt = &lastVersionAt.String
	}
	return d, nil
}

func (r Repo) GetEngagementDisplay(ctx context.Context, id string) (domain.EngagementDisplay, error) {
	row := r.DB.QueryRowContext(ctx, displayQuery+` WHERE e.id=?`, id)
	return scanDisplay(row.Scan)
}

// ListEngagements filters and sorts enriched engagement rows. Free-text
// search matches the client name or the latest version title,
// case-insensitive. Archived engagements are excluded unless the status
// filter asks for them or IncludeArchived is set.
func (r Repo) ListEngagements(ctx context.Context, f EngagementFilters) ([]domain.EngagementDisplay, error) {
	var clauses []string
	var args []any
	if f.Status != "" {
		clauses = append(clauses, "e.status=?")
		args = append(args, f.Status)
	} else if !f.IncludeArchived {
		clauses = append(clauses, "e.status != 'archived'")
	}
	if f.Type != "" {
		clauses = append(clauses, "e.type=?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		clauses = append(clauses, "e.category=?")
		args = append(args, f.Category)
	}
	if f.ProfileID != "" {
		clauses = append(clauses, "e.profile_id=?")
		args = append(args, f.ProfileID)
	}
	if f.ClientID != "" {
		clauses = append(clauses, "e.client_id=?")
		args = append(args, f.ClientID)
	}
	if f.ProjectID != "" {
		clauses = append(clauses, "e.project_id=?")
		args = append(args, f.ProjectID)
	}
	if f.Search != "" {
		clauses = append(clauses, "(LOWER(c.name) LIKE ? OR LOWER(COALESCE(lv.title,'')) LIKE ?)")
		needle := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, needle, needle)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	order := " ORDER BY e.updated_at DESC, e.id DESC"
	switch f.Sort {
	case "", "updated_desc":
	case "updated_asc":
		order = " ORDER BY e.updated_at ASC, e.id ASC"
	case "created_desc":
		order = " ORDER BY e.created_at DESC, e.id DESC"
	case "created_asc":
		order = " ORDER BY e.created_at ASC, e.id ASC"
	case "client":
		order = " ORDER BY LOWER(c.name) ASC, e.updated_at DESC"
	case "title":
		order = " ORDER BY LOWER(COALESCE(lv.title,'')) ASC, e.updated_at DESC"
	default:
		return nil, fmt.Errorf("unknown sort %q", f.Sort)
	}
	query := displayQuery + where + order
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.EngagementDisplay
	for rows.Next() {
		d, err := scanDisplay(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r Repo) CountEngagementsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, count(*) FROM engagements GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		res[status] = count
	}
	return res, nil
}

func (r Repo) LatestEvents(ctx context.Context, limit int, engagementID, evtType string) ([]domain.Event, error) {
	clauses := []string{"1=1"}
	var args []any
	if engagementID != "" {
		clauses = append(clauses, "engagement_id=?")
		args = append(args, engagementID)
	}
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,engagement_id,entity_kind,entity_id,actor_id,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var engID, entityID, payload sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &engID, &e.EntityKind, &entityID, &e.ActorID, &payload); err != nil {
			return nil, err
		}
		if engID.Valid {
			e.EngagementID = engID.String
		}
		if entityID.Valid {
			e.EntityID = entityID.String
		}
		if payload.Valid {
			e.Payload = payload.String
		}
		res = append(res, e)
	}
	return res, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}
