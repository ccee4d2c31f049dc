package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/repo"
)

// ResolveProfileAndConfig picks the active business profile and ensures a
// profile row and workspace config exist, seeding defaults if missing. It
// prefers the override, then the config file, then the single profile in
// the database. A brand-new workspace gets a profile and a dealdesk.yml.
func ResolveProfileAndConfig(ctx context.Context, workspace, profileOverride string, r repo.Repo) (string, *config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return "", nil, err
	}

	profileID := profileOverride
	if profileID == "" && cfg != nil {
		profileID = cfg.Profile.ID
	}
	if profileID == "" {
		profiles, err := r.ListProfiles(ctx)
		if err != nil {
			return "", nil, err
		}
		switch len(profiles) {
		case 0:
			profileID = uuid.New().String()
		case 1:
			profileID = profiles[0].ID
		default:
			return "", nil, fmt.Errorf("multiple profiles exist; specify --profile")
		}
	}

	name := ""
	if cfg != nil {
		name = cfg.Profile.Name
	}
	if err := ensureProfile(ctx, r, profileID, name); err != nil {
		return "", nil, err
	}

	if cfg == nil {
		cfg = config.Default(profileID)
		if err := os.WriteFile(config.Path(workspace), []byte(config.GenerateDefault(profileID)), 0o644); err != nil {
			return "", nil, fmt.Errorf("seed config: %w", err)
		}
	}
	cfg.Profile.ID = profileID
	return profileID, cfg, nil
}

func ensureProfile(ctx context.Context, r repo.Repo, profileID, name string) error {
	_, err := r.GetProfile(ctx, profileID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if name == "" {
		name = "Default Profile"
	}
	return r.InsertProfile(ctx, domain.BusinessProfile{
		ID:        profileID,
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
