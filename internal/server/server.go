package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"dealdesk/internal/clarity"
	"dealdesk/internal/domain"
	"dealdesk/internal/engine"
	"dealdesk/internal/repo"
	"dealdesk/internal/schedule"
	"dealdesk/internal/wizard"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"engagement not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

type requestKey struct{}
type bodyBytesKey struct{}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Dealdesk API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			ctx := context.WithValue(r.Context(), requestKey{}, r)
			ctx = context.WithValue(ctx, bodyBytesKey{}, bodyBytes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Engine.Repo))
	hcfg := huma.DefaultConfig("Dealdesk API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerStatus(group, cfg.Engine)
	registerEngagements(group, cfg.Engine)
	registerVersions(group, cfg.Engine)
	registerClarity(group)
	registerGenerators(group)
	registerExport(group, cfg.Engine)
	registerWizard(group, cfg.Engine, &wizardState{})
	registerRecovery(group, cfg.Engine)
	registerParties(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerDevAuth(group, cfg.Auth)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "archived"):
		return newAPIError(http.StatusConflict, "conflict", msg, nil)
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "missing") || strings.Contains(lowered, "required") || strings.Contains(lowered, "must be"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func bodyBytes(ctx context.Context) []byte {
	if b, ok := ctx.Value(bodyBytesKey{}).([]byte); ok {
		return b
	}
	return nil
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Dealdesk API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt; or X-Api-Key.
    </p>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerStatus(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Workspace status",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]any `json:"body"`
	}, error) {
		counts, err := e.Repo.CountEngagementsByStatus(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		profileID := ""
		if e.Config != nil {
			profileID = e.Config.Profile.ID
		}
		return &struct {
			Body map[string]any `json:"body"`
		}{Body: map[string]any{
			"profile_id":        profileID,
			"engagement_counts": counts,
		}}, nil
	})
}

func registerEngagements(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-engagement",
		Method:        http.MethodPost,
		Path:          "/engagements",
		Summary:       "Create engagement",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateEngagementRequest `json:"body"`
	}) (*struct {
		Body VersionResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		profileID := ""
		if e.Config != nil {
			profileID = e.Config.Profile.ID
		}
		opts := engine.CreateOptions{
			ProfileID: profileID,
			Type:      input.Body.Type,
			Category:  input.Body.Category,
			Language:  input.Body.Language,
			Snapshot:  input.Body.Snapshot,
			ActorID:   actorID,
		}
		if input.Body.ClientID != nil {
			opts.ClientID = *input.Body.ClientID
		}
		if input.Body.ClientName != nil {
			opts.ClientName = *input.Body.ClientName
		}
		if input.Body.ProjectID != nil {
			opts.ProjectID = *input.Body.ProjectID
		}
		if input.Body.ProjectName != nil {
			opts.ProjectName = *input.Body.ProjectName
		}
		_, v, err := e.CreateEngagement(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body VersionResponse `json:"body"`
		}{Body: versionResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-engagements",
		Method:      http.MethodGet,
		Path:        "/engagements",
		Summary:     "List engagements",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Status          string `query:"status" enum:",draft,final,archived"`
		Type            string `query:"type" enum:",task,retainer"`
		Category        string `query:"category"`
		ProfileID       string `query:"profile_id"`
		ClientID        string `query:"client_id"`
		ProjectID       string `query:"project_id"`
		Search          string `query:"search"`
		Sort            string `query:"sort"`
		IncludeArchived bool   `query:"include_archived"`
		Limit           int    `query:"limit" default:"50"`
		Offset          int    `query:"offset"`
	}) (*struct {
		Body []EngagementResponse `json:"body"`
	}, error) {
		items, err := e.Repo.ListEngagements(ctx, repo.EngagementFilters{
			Status:          input.Status,
			Type:            input.Type,
			Category:        input.Category,
			ProfileID:       input.ProfileID,
			ClientID:        input.ClientID,
			ProjectID:       input.ProjectID,
			Search:          input.Search,
			Sort:            input.Sort,
			IncludeArchived: input.IncludeArchived,
			Limit:           input.Limit,
			Offset:          input.Offset,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []EngagementResponse `json:"body"`
		}{Body: mapEngagements(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-engagement",
		Method:      http.MethodGet,
		Path:        "/engagements/{id}",
		Summary:     "Get engagement",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body EngagementResponse `json:"body"`
	}, error) {
		d, err := e.Repo.GetEngagementDisplay(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EngagementResponse `json:"body"`
		}{Body: engagementResponse(d)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "duplicate-engagement",
		Method:        http.MethodPost,
		Path:          "/engagements/{id}/duplicate",
		Summary:       "Duplicate engagement",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                      `path:"id"`
		Body *DuplicateEngagementRequest `json:"body,omitempty"`
	}) (*struct {
		Body EngagementResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		opts := engine.DuplicateOptions{}
		if input.Body != nil {
			if input.Body.NewClientID != nil {
				opts.NewClientID = *input.Body.NewClientID
			}
			if input.Body.NewProfileID != nil {
				opts.NewProfileID = *input.Body.NewProfileID
			}
		}
		dup, err := e.Duplicate(ctx, input.ID, opts, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		d, err := e.Repo.GetEngagementDisplay(ctx, dup.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EngagementResponse `json:"body"`
		}{Body: engagementResponse(d)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-engagement",
		Method:      http.MethodPost,
		Path:        "/engagements/{id}/archive",
		Summary:     "Archive engagement",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body EngagementResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.Archive(ctx, input.ID, actorID); err != nil {
			return nil, handleError(err)
		}
		d, err := e.Repo.GetEngagementDisplay(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EngagementResponse `json:"body"`
		}{Body: engagementResponse(d)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-engagement",
		Method:      http.MethodPost,
		Path:        "/engagements/{id}/restore",
		Summary:     "Restore archived engagement",
		Errors:      []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body EngagementResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.Restore(ctx, input.ID, actorID); err != nil {
			return nil, handleError(err)
		}
		d, err := e.Repo.GetEngagementDisplay(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EngagementResponse `json:"body"`
		}{Body: engagementResponse(d)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-engagement",
		Method:      http.MethodDelete,
		Path:        "/engagements/{id}",
		Summary:     "Delete engagement and its versions",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.Delete(ctx, input.ID, actorID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "finalize-engagement",
		Method:      http.MethodPost,
		Path:        "/engagements/{id}/finalize",
		Summary:     "Finalize engagement",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body VersionResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		v, err := e.Finalize(ctx, input.ID, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body VersionResponse `json:"body"`
		}{Body: versionResponse(v)}, nil
	})
}

func registerVersions(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "save-version",
		Method:        http.MethodPost,
		Path:          "/engagements/{id}/versions",
		Summary:       "Save a new draft version",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		ID   string             `path:"id"`
		Body SaveVersionRequest `json:"body"`
	}) (*struct {
		Body VersionResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		v, err := e.SaveVersion(ctx, input.ID, input.Body.Snapshot, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body VersionResponse `json:"body"`
		}{Body: versionResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-versions",
		Method:      http.MethodGet,
		Path:        "/engagements/{id}/versions",
		Summary:     "List versions",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []VersionSummaryResponse `json:"body"`
	}, error) {
		if _, err := e.Repo.GetEngagement(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		items, err := e.Repo.ListVersions(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []VersionSummaryResponse `json:"body"`
		}{Body: versionSummaries(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/engagements/{id}/versions/{number}",
		Summary:     "Get version by number",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID     string `path:"id"`
		Number int    `path:"number" minimum:"1"`
	}) (*struct {
		Body VersionResponse `json:"body"`
	}, error) {
		v, err := e.Repo.GetVersionByNumber(ctx, input.ID, input.Number)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body VersionResponse `json:"body"`
		}{Body: versionResponse(v)}, nil
	})
}

func registerClarity(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "clarity-check",
		Method:      http.MethodPost,
		Path:        "/clarity/check",
		Summary:     "Run a clarity check on a snapshot",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body ClarityCheckRequest `json:"body"`
	}) (*struct {
		Body ClarityCheckResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		risks := clarity.Evaluate(input.Body.Snapshot, input.Body.Type, input.Body.Category)
		return &struct {
			Body ClarityCheckResponse `json:"body"`
		}{Body: ClarityCheckResponse{
			Risks:  risks,
			Counts: clarity.Counts(risks),
			High:   clarity.HasHighSeverity(risks),
		}}, nil
	})
}

func registerGenerators(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-milestones",
		Method:      http.MethodPost,
		Path:        "/generate/milestones",
		Summary:     "Generate milestones from deliverables",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body GenerateMilestonesRequest `json:"body"`
	}) (*struct {
		Body MilestonesResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		snap := input.Body.Snapshot
		milestones := schedule.GenerateMilestones(snap.Deliverables, snap.StartDate, snap.EndDate, snap.Milestones)
		return &struct {
			Body MilestonesResponse `json:"body"`
		}{Body: MilestonesResponse{Milestones: milestones}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "generate-payments",
		Method:      http.MethodPost,
		Path:        "/generate/payments",
		Summary:     "Generate a payment schedule",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body GeneratePaymentsRequest `json:"body"`
	}) (*struct {
		Body PaymentsResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		snap := input.Body.Snapshot
		if snap.TotalAmountMinor == nil || *snap.TotalAmountMinor <= 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "total_amount_minor is required", nil)
		}
		lang := input.Body.Language
		if lang == "" {
			lang = "en"
		}
		total := *snap.TotalAmountMinor
		var items []domain.PaymentScheduleItem
		if input.Body.Reset {
			items = schedule.ResetPayments(snap.Milestones, snap.Deliverables, total, snap.Currency, lang)
		} else {
			items = schedule.GeneratePayments(snap.Milestones, snap.Deliverables, total, snap.Currency, snap.ScheduleItems, lang)
		}
		return &struct {
			Body PaymentsResponse `json:"body"`
		}{Body: PaymentsResponse{ScheduleItems: items, TotalMinor: total}}, nil
	})
}

func registerExport(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "export-engagement",
		Method:      http.MethodGet,
		Path:        "/engagements/{id}/export",
		Summary:     "Export assembled document",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID      string `path:"id"`
		Version int    `query:"version" minimum:"0"`
	}) (*struct {
		Body engine.ExportDocument `json:"body"`
	}, error) {
		doc, err := e.Export(ctx, input.ID, input.Version)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.ExportDocument `json:"body"`
		}{Body: doc}, nil
	})
}

func registerRecovery(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recovery",
		Method:      http.MethodGet,
		Path:        "/recovery",
		Summary:     "Get restorable autosave record",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body RecoveryResponse `json:"body"`
	}, error) {
		rec, ok := wizard.Restorable(ctx, e.Repo, time.Now())
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no restorable autosave", nil)
		}
		return &struct {
			Body RecoveryResponse `json:"body"`
		}{Body: RecoveryResponse{
			Key:          rec.Key,
			EngagementID: rec.EngagementID,
			Snapshot:     rec.Snapshot,
			SavedAt:      rec.SavedAt,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-recovery",
		Method:      http.MethodPut,
		Path:        "/recovery",
		Summary:     "Save autosave record",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body SaveRecoveryRequest `json:"body"`
	}) (*struct {
		Body RecoveryResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		rec := domain.RecoveryRecord{
			Key:          wizard.RecoveryKey,
			EngagementID: input.Body.EngagementID,
			Snapshot:     input.Body.Snapshot,
			SavedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := e.Repo.SaveRecovery(ctx, rec); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RecoveryResponse `json:"body"`
		}{Body: RecoveryResponse{
			Key:          rec.Key,
			EngagementID: rec.EngagementID,
			Snapshot:     rec.Snapshot,
			SavedAt:      rec.SavedAt,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-recovery",
		Method:      http.MethodDelete,
		Path:        "/recovery",
		Summary:     "Clear autosave record",
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		if err := e.Repo.ClearRecovery(ctx, wizard.RecoveryKey); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerParties(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []ClientResponse `json:"body"`
	}, error) {
		items, err := e.Repo.ListClients(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		res := make([]ClientResponse, 0, len(items))
		for _, c := range items {
			res = append(res, ClientResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
		}
		return &struct {
			Body []ClientResponse `json:"body"`
		}{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
	}, func(ctx context.Context, input *struct {
		ClientID string `query:"client_id"`
	}) (*struct {
		Body []ProjectResponse `json:"body"`
	}, error) {
		items, err := e.Repo.ListProjects(ctx, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		res := make([]ProjectResponse, 0, len(items))
		for _, p := range items {
			res = append(res, ProjectResponse{ID: p.ID, ClientID: p.ClientID, Name: p.Name, CreatedAt: p.CreatedAt})
		}
		return &struct {
			Body []ProjectResponse `json:"body"`
		}{Body: res}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent events",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		EngagementID string `query:"engagement_id"`
		Type         string `query:"type"`
		Limit        int    `query:"limit" default:"50" maximum:"500"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		items, err := e.Repo.LatestEvents(ctx, input.Limit, input.EngagementID, input.Type)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: mapEvents(items)}, nil
	})
}

func registerDevAuth(api huma.API, authCfg AuthConfig) {
	if !authCfg.EnableDevAuth {
		return
	}
	huma.Register(api, huma.Operation{
		OperationID: "dev-login",
		Method:      http.MethodPost,
		Path:        "/auth/dev/login",
		Summary:     "DEV ONLY: mint a JWT for local testing",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body DevLoginRequest `json:"body"`
	}) (*struct {
		Body DevLoginResponse `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		actor := strings.TrimSpace(input.Body.ActorID)
		if actor == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "actor_id is required", nil)
		}
		token, err := mintDevToken(authCfg.JWTSecret, actor, 24*time.Hour)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DevLoginResponse `json:"body"`
		}{Body: DevLoginResponse{Token: token}}, nil
	})
}
