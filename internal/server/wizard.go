package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"dealdesk/internal/domain"
	"dealdesk/internal/engine"
	"dealdesk/internal/wizard"
)

// wizardState holds the single active wizard session for this workspace.
// The recovery slot is single-keyed, so one guided draft at a time is the
// contract; starting a new session replaces the old one after flushing it.
type wizardState struct {
	mu       sync.Mutex
	session  *wizard.Session
	saver    *wizard.Autosaver
	snapshot domain.Snapshot
}

type WizardSessionRequest struct {
	Mode         string `json:"mode" enum:"create,edit"`
	EngagementID string `json:"engagement_id,omitempty"`
	Type         string `json:"type,omitempty" enum:",task,retainer"`
	Category     string `json:"category,omitempty" enum:",design,development,consulting,marketing,legal,other"`
	Language     string `json:"language,omitempty" enum:",en,ar"`
	Resume       bool   `json:"resume,omitempty"`
}

type WizardGoToRequest struct {
	Step int `json:"step" minimum:"0" maximum:"8"`
}

type WizardEditRequest struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Type     string          `json:"type,omitempty" enum:",task,retainer"`
	Category string          `json:"category,omitempty" enum:",design,development,consulting,marketing,legal,other"`
	Language string          `json:"language,omitempty" enum:",en,ar"`
}

type WizardSessionResponse struct {
	Mode         string          `json:"mode" enum:"create,edit"`
	EngagementID string          `json:"engagement_id,omitempty"`
	Step         int             `json:"step"`
	StepLabel    string          `json:"step_label"`
	Visited      []int           `json:"visited"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Language     string          `json:"language"`
	Dirty        bool            `json:"dirty"`
	LastSavedAt  string          `json:"last_saved_at,omitempty"`
	Snapshot     domain.Snapshot `json:"snapshot"`
}

func (w *wizardState) response() WizardSessionResponse {
	s := w.session
	var visited []int
	for i := 0; i < wizard.TotalSteps; i++ {
		if s.Visited(i) {
			visited = append(visited, i)
		}
	}
	typ, category, language := s.Classification()
	step := s.CurrentStep()
	return WizardSessionResponse{
		Mode:         s.Mode(),
		EngagementID: s.EngagementID(),
		Step:         step,
		StepLabel:    wizard.StepLabels[step],
		Visited:      visited,
		Type:         typ,
		Category:     category,
		Language:     language,
		Dirty:        s.Dirty(),
		LastSavedAt:  s.LastSavedAt(),
		Snapshot:     w.snapshot,
	}
}

func registerWizard(api huma.API, e engine.Engine, w *wizardState) {
	type sessionOut struct {
		Body WizardSessionResponse `json:"body"`
	}

	huma.Register(api, huma.Operation{
		OperationID:   "start-wizard-session",
		Method:        http.MethodPost,
		Path:          "/wizard/session",
		Summary:       "Start a guided drafting session",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body WizardSessionRequest `json:"body"`
	}) (*sessionOut, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.saver != nil {
			_ = w.saver.Close(ctx)
		}
		switch input.Body.Mode {
		case "edit":
			if input.Body.EngagementID == "" {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "engagement_id is required in edit mode", nil)
			}
			eng, err := e.Repo.GetEngagement(ctx, input.Body.EngagementID)
			if err != nil {
				return nil, handleError(err)
			}
			latest, err := e.Repo.LatestVersion(ctx, eng.ID)
			if err != nil {
				return nil, handleError(err)
			}
			w.session = wizard.NewEditSession(eng.ID, eng.Type, eng.Category, eng.PrimaryLanguage)
			w.snapshot = latest.Snapshot
		case "create":
			w.session = wizard.NewSession(input.Body.Type, input.Body.Category, input.Body.Language)
			w.snapshot = domain.DefaultSnapshot()
			if input.Body.Resume {
				if rec, ok := wizard.Restorable(ctx, e.Repo, time.Now()); ok {
					w.snapshot = rec.Snapshot
				}
			}
		default:
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "mode must be create or edit", nil)
		}
		w.saver = wizard.NewAutosaver(e.Repo)
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-wizard-session",
		Method:      http.MethodGet,
		Path:        "/wizard/session",
		Summary:     "Get the active wizard session",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*sessionOut, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-goto",
		Method:      http.MethodPost,
		Path:        "/wizard/session/goto",
		Summary:     "Jump to a wizard step",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body WizardGoToRequest `json:"body"`
	}) (*sessionOut, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		if !w.session.GoTo(input.Body.Step) {
			return nil, newAPIError(http.StatusConflict, "conflict", "step not reachable yet", nil)
		}
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-next",
		Method:      http.MethodPost,
		Path:        "/wizard/session/next",
		Summary:     "Advance to the next wizard step",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*sessionOut, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		w.session.Next()
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-prev",
		Method:      http.MethodPost,
		Path:        "/wizard/session/prev",
		Summary:     "Go back one wizard step",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*sessionOut, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		w.session.Prev()
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "wizard-edit",
		Method:      http.MethodPatch,
		Path:        "/wizard/session/snapshot",
		Summary:     "Update the working snapshot",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body WizardEditRequest `json:"body"`
	}) (*sessionOut, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		w.snapshot = input.Body.Snapshot
		w.session.SetClassification(input.Body.Type, input.Body.Category, input.Body.Language)
		w.session.SetDirty(true)
		w.saver.Schedule(w.session.EngagementID(), w.snapshot)
		return &sessionOut{Body: w.response()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "wizard-save",
		Method:        http.MethodPost,
		Path:          "/wizard/session/save",
		Summary:       "Persist the working snapshot as a version",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body VersionResponse `json:"body"`
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.session == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "no active wizard session", nil)
		}
		var v domain.EngagementVersion
		if id := w.session.EngagementID(); id != "" {
			saved, err := e.SaveVersion(ctx, id, w.snapshot, actorID)
			if err != nil {
				return nil, handleError(err)
			}
			v = saved
		} else {
			typ, category, language := w.session.Classification()
			snap := w.snapshot
			profileID := snap.ProfileID
			if profileID == "" && e.Config != nil {
				profileID = e.Config.Profile.ID
			}
			eng, saved, err := e.CreateEngagement(ctx, engine.CreateOptions{
				ProfileID:  profileID,
				ClientID:   snap.ClientID,
				ClientName: snap.ClientName,
				Type:       typ,
				Category:   category,
				Language:   language,
				Snapshot:   &snap,
				ActorID:    actorID,
			})
			if err != nil {
				return nil, handleError(err)
			}
			w.session.SetEngagementID(eng.ID)
			v = saved
		}
		w.snapshot = v.Snapshot
		w.session.MarkSaved(time.Now())
		// drop any pending autosave so a later flush cannot resurrect
		// the draft that was just persisted
		w.saver.Cancel()
		_ = e.Repo.ClearRecovery(ctx, wizard.RecoveryKey)
		return &struct {
			Body VersionResponse `json:"body"`
		}{Body: versionResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "close-wizard-session",
		Method:      http.MethodDelete,
		Path:        "/wizard/session",
		Summary:     "Close the wizard session, flushing any pending autosave",
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.saver != nil {
			_ = w.saver.Close(ctx)
		}
		w.session = nil
		w.saver = nil
		w.snapshot = domain.Snapshot{}
		return &struct{}{}, nil
	})
}
