package engine

import (
	"context"

	"dealdesk/internal/clarity"
	"dealdesk/internal/clauses"
	"dealdesk/internal/domain"
)

// ExportDocument is the full assembled document for a single version:
// the snapshot plus the processed legal sections in the engagement's
// primary language, with any remaining clarity risks attached.
type ExportDocument struct {
	Engagement    domain.Engagement    `json:"engagement"`
	VersionNumber int                  `json:"version_number"`
	VersionStatus string               `json:"version_status"`
	Language      string               `json:"language"`
	Snapshot      domain.Snapshot      `json:"snapshot"`
	Sections      []clauses.Section    `json:"sections"`
	Risks         []domain.ClarityRisk `json:"risks"`
	GeneratedAt   string               `json:"generated_at" format:"date-time"`
}

// Export assembles the document for a version. versionNumber 0 selects the
// latest version.
func (e Engine) Export(ctx context.Context, engagementID string, versionNumber int) (ExportDocument, error) {
	eng, err := e.Repo.GetEngagement(ctx, engagementID)
	if err != nil {
		return ExportDocument{}, err
	}
	var v domain.EngagementVersion
	if versionNumber > 0 {
		v, err = e.Repo.GetVersionByNumber(ctx, engagementID, versionNumber)
	} else {
		v, err = e.Repo.LatestVersion(ctx, engagementID)
	}
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{
		Engagement:    eng,
		VersionNumber: v.VersionNumber,
		VersionStatus: v.Status,
		Language:      eng.PrimaryLanguage,
		Snapshot:      v.Snapshot,
		Sections:      clauses.Process(eng.PrimaryLanguage, v.Snapshot),
		Risks:         clarity.Evaluate(v.Snapshot, eng.Type, eng.Category),
		GeneratedAt:   e.timestamp(),
	}, nil
}
