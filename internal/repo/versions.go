package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"dealdesk/internal/domain"
)

// Versions are append-only. NextVersionNumber must be read inside the same
// transaction as the insert so concurrent saves cannot race on max+1; the
// UNIQUE(engagement_id, version_number) constraint backstops it.

func (r Repo) NextVersionNumber(ctx context.Context, tx *sql.Tx, engagementID string) (int, error) {
	var max sql.NullInt64
	err := tx.QueryRowContext(ctx, `SELECT MAX(version_number) FROM engagement_versions WHERE engagement_id=?`, engagementID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (r Repo) InsertVersion(ctx context.Context, tx *sql.Tx, v domain.EngagementVersion) error {
	payload, err := json.Marshal(v.Snapshot)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO engagement_versions(id,engagement_id,version_number,status,snapshot_json,created_at) VALUES (?,?,?,?,?,?)`,
		v.ID, v.EngagementID, v.VersionNumber, v.Status, string(payload), v.CreatedAt)
	return err
}

func scanVersion(scan func(dest ...any) error) (domain.EngagementVersion, error) {
	var v domain.EngagementVersion
	var payload string
	err := scan(&v.ID, &v.EngagementID, &v.VersionNumber, &v.Status, &payload, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return v, ErrNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(payload), &v.Snapshot); err != nil {
		return v, err
	}
	return v, nil
}

func (r Repo) GetVersion(ctx context.Context, id string) (domain.EngagementVersion, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,engagement_id,version_number,status,snapshot_json,created_at FROM engagement_versions WHERE id=?`, id)
	return scanVersion(row.Scan)
}

func (r Repo) GetVersionByNumber(ctx context.Context, engagementID string, number int) (domain.EngagementVersion, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,engagement_id,version_number,status,snapshot_json,created_at FROM engagement_versions WHERE engagement_id=? AND version_number=?`, engagementID, number)
	return scanVersion(row.Scan)
}

func (r Repo) LatestVersion(ctx context.Context, engagementID string) (domain.EngagementVersion, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,engagement_id,version_number,status,snapshot_json,created_at FROM engagement_versions WHERE engagement_id=? ORDER BY version_number DESC LIMIT 1`, engagementID)
	return scanVersion(row.Scan)
}

func (r Repo) LatestVersionTx(ctx context.Context, tx *sql.Tx, engagementID string) (domain.EngagementVersion, error) {
	row := tx.QueryRowContext(ctx, `SELECT id,engagement_id,version_number,status,snapshot_json,created_at FROM engagement_versions WHERE engagement_id=? ORDER BY version_number DESC LIMIT 1`, engagementID)
	return scanVersion(row.Scan)
}

func (r Repo) ListVersions(ctx context.Context, engagementID string) ([]domain.EngagementVersion, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,engagement_id,version_number,status,snapshot_json,created_at FROM engagement_versions WHERE engagement_id=? ORDER BY version_number DESC`, engagementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.EngagementVersion
	for rows.Next() {
		v, err := scanVersion(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r Repo) CountVersions(ctx context.Context, engagementID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM engagement_versions WHERE engagement_id=?`, engagementID).Scan(&n)
	return n, err
}
