package dealdesksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Dealdesk HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Engagement represents the API engagement model (partial).
type Engagement struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	VersionCount int    `json:"version_count"`
	UpdatedAt    string `json:"updated_at"`
}

// Version is one numbered snapshot of an engagement document.
type Version struct {
	ID            string         `json:"id"`
	EngagementID  string         `json:"engagement_id"`
	VersionNumber int            `json:"version_number"`
	Status        string         `json:"status"`
	Snapshot      map[string]any `json:"snapshot"`
	CreatedAt     string         `json:"created_at"`
}

// ClarityRisk flags a vague or missing document term.
type ClarityRisk struct {
	ID         string `json:"id"`
	Severity   string `json:"severity"`
	StepIndex  int    `json:"step_index"`
	FieldPath  string `json:"field_path"`
	MessageKey string `json:"message_key"`
}

// ClarityReport is the result of a clarity check.
type ClarityReport struct {
	Risks           []ClarityRisk  `json:"risks"`
	Counts          map[string]int `json:"counts"`
	HasHighSeverity bool           `json:"has_high_severity"`
}

// Event represents a log entry.
type Event struct {
	ID           int64          `json:"id"`
	TS           string         `json:"ts"`
	Type         string         `json:"type"`
	EngagementID string         `json:"engagement_id"`
	EntityKind   string         `json:"entity_kind"`
	EntityID     string         `json:"entity_id"`
	ActorID      string         `json:"actor_id"`
	Payload      map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateEngagement creates a new engagement with a version 1 snapshot.
func (c *Client) CreateEngagement(ctx context.Context, clientName, engagementType, category string) (Version, error) {
	body := map[string]any{
		"client_name": clientName,
		"type":        engagementType,
		"category":    category,
	}
	var resp Version
	err := c.do(ctx, http.MethodPost, "engagements", body, &resp)
	return resp, err
}

// Engagements lists engagements, newest update first.
func (c *Client) Engagements(ctx context.Context, status string, limit int) ([]Engagement, error) {
	endpoint := "engagements"
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp []Engagement
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetEngagement fetches one engagement by id.
func (c *Client) GetEngagement(ctx context.Context, id string) (Engagement, error) {
	var resp Engagement
	err := c.do(ctx, http.MethodGet, "engagements/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// SaveVersion appends a new version with the given snapshot.
func (c *Client) SaveVersion(ctx context.Context, engagementID string, snapshot map[string]any) (Version, error) {
	body := map[string]any{"snapshot": snapshot}
	var resp Version
	endpoint := fmt.Sprintf("engagements/%s/versions", url.PathEscape(engagementID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// Versions lists an engagement's version history, newest first.
func (c *Client) Versions(ctx context.Context, engagementID string) ([]Version, error) {
	var resp []Version
	endpoint := fmt.Sprintf("engagements/%s/versions", url.PathEscape(engagementID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Finalize locks in the latest snapshot as a final version.
func (c *Client) Finalize(ctx context.Context, engagementID string) (Version, error) {
	var resp Version
	endpoint := fmt.Sprintf("engagements/%s/finalize", url.PathEscape(engagementID))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// DuplicateOptions optionally re-point the copy at another client or
// profile.
type DuplicateOptions struct {
	NewClientID  string
	NewProfileID string
}

// Duplicate copies an engagement's latest snapshot into a new draft.
func (c *Client) Duplicate(ctx context.Context, engagementID string, opts DuplicateOptions) (Engagement, error) {
	var body any
	if opts.NewClientID != "" || opts.NewProfileID != "" {
		fields := map[string]any{}
		if opts.NewClientID != "" {
			fields["new_client_id"] = opts.NewClientID
		}
		if opts.NewProfileID != "" {
			fields["new_profile_id"] = opts.NewProfileID
		}
		body = fields
	}
	var resp Engagement
	endpoint := fmt.Sprintf("engagements/%s/duplicate", url.PathEscape(engagementID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// Archive hides an engagement from default listings.
func (c *Client) Archive(ctx context.Context, engagementID string) error {
	endpoint := fmt.Sprintf("engagements/%s/archive", url.PathEscape(engagementID))
	return c.do(ctx, http.MethodPost, endpoint, nil, nil)
}

// Restore brings an archived engagement back.
func (c *Client) Restore(ctx context.Context, engagementID string) error {
	endpoint := fmt.Sprintf("engagements/%s/restore", url.PathEscape(engagementID))
	return c.do(ctx, http.MethodPost, endpoint, nil, nil)
}

// ClarityCheck evaluates a snapshot without persisting anything.
func (c *Client) ClarityCheck(ctx context.Context, engagementType, category string, snapshot map[string]any) (ClarityReport, error) {
	body := map[string]any{
		"type":     engagementType,
		"category": category,
		"snapshot": snapshot,
	}
	var resp ClarityReport
	err := c.do(ctx, http.MethodPost, "clarity/check", body, &resp)
	return resp, err
}

// Export returns the assembled document for an engagement version.
// versionNumber 0 exports the latest version.
func (c *Client) Export(ctx context.Context, engagementID string, versionNumber int) (map[string]any, error) {
	endpoint := fmt.Sprintf("engagements/%s/export", url.PathEscape(engagementID))
	if versionNumber > 0 {
		endpoint = fmt.Sprintf("%s?version=%d", endpoint, versionNumber)
	}
	var resp map[string]any
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Events returns recent events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// DevLogin mints a bearer token from the dev login endpoint and stores
// it on the client. The server only exposes the endpoint in dev mode.
func (c *Client) DevLogin(ctx context.Context, actorID string) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/dev/login", map[string]any{"actor_id": actorID}, &resp); err != nil {
		return err
	}
	c.BearerToken = resp.Token
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/v0/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
