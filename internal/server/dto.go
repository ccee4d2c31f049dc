package server

import (
	"dealdesk/internal/clarity"
	"dealdesk/internal/domain"
)

// Request payloads

type CreateEngagementRequest struct {
	ClientID    *string          `json:"client_id,omitempty"`
	ClientName  *string          `json:"client_name,omitempty"`
	ProjectID   *string          `json:"project_id,omitempty"`
	ProjectName *string          `json:"project_name,omitempty"`
	Type        string           `json:"type" enum:"task,retainer"`
	Category    string           `json:"category" enum:"design,development,consulting,marketing,legal,other"`
	Language    string           `json:"language,omitempty" enum:"en,ar"`
	Snapshot    *domain.Snapshot `json:"snapshot,omitempty"`
}

type DuplicateEngagementRequest struct {
	NewClientID  *string `json:"new_client_id,omitempty"`
	NewProfileID *string `json:"new_profile_id,omitempty"`
}

type SaveVersionRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

type ClarityCheckRequest struct {
	Type     string          `json:"type" enum:"task,retainer"`
	Category string          `json:"category,omitempty" enum:"design,development,consulting,marketing,legal,other"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type GenerateMilestonesRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

type GeneratePaymentsRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Language string          `json:"language,omitempty" enum:"en,ar"`
	Reset    bool            `json:"reset,omitempty"`
}

type SaveRecoveryRequest struct {
	EngagementID *string         `json:"engagement_id,omitempty"`
	Snapshot     domain.Snapshot `json:"snapshot"`
}

type DevLoginRequest struct {
	ActorID string `json:"actor_id"`
}

// Response payloads

type EngagementResponse struct {
	ID              string  `json:"id"`
	ProfileID       string  `json:"profile_id"`
	ProfileName     string  `json:"profile_name,omitempty"`
	ClientID        string  `json:"client_id"`
	ClientName      string  `json:"client_name,omitempty"`
	ProjectID       *string `json:"project_id,omitempty"`
	ProjectName     *string `json:"project_name,omitempty"`
	Type            string  `json:"type" enum:"task,retainer"`
	Category        string  `json:"category" enum:"design,development,consulting,marketing,legal,other"`
	PrimaryLanguage string  `json:"primary_language" enum:"en,ar"`
	Status          string  `json:"status" enum:"draft,final,archived"`
	Title           string  `json:"title,omitempty"`
	VersionCount    int     `json:"version_count"`
	LastVersionAt   *string `json:"last_version_at,omitempty" format:"date-time"`
	CreatedAt       string  `json:"created_at" format:"date-time"`
	UpdatedAt       string  `json:"updated_at" format:"date-time"`
	ArchivedAt      *string `json:"archived_at,omitempty" format:"date-time"`
}

type VersionResponse struct {
	ID            string          `json:"id"`
	EngagementID  string          `json:"engagement_id"`
	VersionNumber int             `json:"version_number"`
	Status        string          `json:"status" enum:"draft,final"`
	Snapshot      domain.Snapshot `json:"snapshot"`
	CreatedAt     string          `json:"created_at" format:"date-time"`
}

type VersionSummaryResponse struct {
	ID            string `json:"id"`
	VersionNumber int    `json:"version_number"`
	Status        string `json:"status" enum:"draft,final"`
	CreatedAt     string `json:"created_at" format:"date-time"`
}

type ClarityCheckResponse struct {
	Risks  []domain.ClarityRisk `json:"risks"`
	Counts clarity.RiskCounts   `json:"counts"`
	High   bool                 `json:"has_high_severity"`
}

type MilestonesResponse struct {
	Milestones []domain.Milestone `json:"milestones"`
}

type PaymentsResponse struct {
	ScheduleItems []domain.PaymentScheduleItem `json:"schedule_items"`
	TotalMinor    int64                        `json:"total_minor"`
}

type RecoveryResponse struct {
	Key          string          `json:"key"`
	EngagementID *string         `json:"engagement_id,omitempty"`
	Snapshot     domain.Snapshot `json:"snapshot"`
	SavedAt      string          `json:"saved_at" format:"date-time"`
}

type DevLoginResponse struct {
	Token string `json:"token"`
}

type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type EventResponse struct {
	ID           int64  `json:"id"`
	TS           string `json:"ts" format:"date-time"`
	Type         string `json:"type"`
	EngagementID string `json:"engagement_id,omitempty"`
	EntityKind   string `json:"entity_kind"`
	EntityID     string `json:"entity_id,omitempty"`
	ActorID      string `json:"actor_id"`
	Payload      string `json:"payload_json"`
}

func engagementResponse(d domain.EngagementDisplay) EngagementResponse {
	return EngagementResponse{
		ID:              d.ID,
		ProfileID:       d.ProfileID,
		ProfileName:     d.ProfileName,
		ClientID:        d.ClientID,
		ClientName:      d.ClientName,
		ProjectID:       d.ProjectID,
		ProjectName:     d.ProjectName,
		Type:            d.Type,
		Category:        d.Category,
		PrimaryLanguage: d.PrimaryLanguage,
		Status:          d.Status,
		Title:           d.Title,
		VersionCount:    d.VersionCount,
		LastVersionAt:   d.LastVersionAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ArchivedAt:      d.ArchivedAt,
	}
}

func mapEngagements(items []domain.EngagementDisplay) []EngagementResponse {
	res := make([]EngagementResponse, 0, len(items))
	for _, it := range items {
		res = append(res, engagementResponse(it))
	}
	return res
}

func versionResponse(v domain.EngagementVersion) VersionResponse {
	return VersionResponse{
		ID:            v.ID,
		EngagementID:  v.EngagementID,
		VersionNumber: v.VersionNumber,
		Status:        v.Status,
		Snapshot:      v.Snapshot,
		CreatedAt:     v.CreatedAt,
	}
}

func versionSummaries(items []domain.EngagementVersion) []VersionSummaryResponse {
	res := make([]VersionSummaryResponse, 0, len(items))
	for _, v := range items {
		res = append(res, VersionSummaryResponse{
			ID:            v.ID,
			VersionNumber: v.VersionNumber,
			Status:        v.Status,
			CreatedAt:     v.CreatedAt,
		})
	}
	return res
}

func mapEvents(items []domain.Event) []EventResponse {
	res := make([]EventResponse, 0, len(items))
	for _, e := range items {
		res = append(res, EventResponse{
			ID:           e.ID,
			TS:           e.TS,
			Type:         e.Type,
			EngagementID: e.EngagementID,
			EntityKind:   e.EntityKind,
			EntityID:     e.EntityID,
			ActorID:      e.ActorID,
			Payload:      e.Payload,
		})
	}
	return res
}
