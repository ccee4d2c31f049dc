package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"dealdesk/internal/domain"
)

// Recovery records back the wizard autosave. One row per key; the upsert
// keeps only the most recent snapshot.

func (r Repo) SaveRecovery(ctx context.Context, rec domain.RecoveryRecord) error {
	payload, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO wizard_recovery(key,engagement_id,snapshot_json,saved_at) VALUES (?,?,?,?)
ON CONFLICT(key) DO UPDATE SET engagement_id=excluded.engagement_id, snapshot_json=excluded.snapshot_json, saved_at=excluded.saved_at`,
		rec.Key, nullableStringPtr(rec.EngagementID), string(payload), rec.SavedAt)
	return err
}

func (r Repo) GetRecovery(ctx context.Context, key string) (domain.RecoveryRecord, error) {
	var rec domain.RecoveryRecord
	var engagementID sql.NullString
	var payload string
	err := r.DB.QueryRowContext(ctx, `SELECT key,engagement_id,snapshot_json,saved_at FROM wizard_recovery WHERE key=?`, key).
		Scan(&rec.Key, &engagementID, &payload, &rec.SavedAt)
	if err == sql.ErrNoRows {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	if engagementID.Valid {
		rec.EngagementID = &engagementID.String
	}
	if err := json.Unmarshal([]byte(payload), &rec.Snapshot); err != nil {
		return rec, err
	}
	return rec, nil
}

func (r Repo) ClearRecovery(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM wizard_recovery WHERE key=?`, key)
	return err
}
