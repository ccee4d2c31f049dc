package repo_test

import (
	"context"
	"testing"

	"dealdesk/internal/db"
	"dealdesk/internal/domain"
	"dealdesk/internal/migrate"
	"dealdesk/internal/repo"
)

func newTestRepo(t *testing.T) (repo.Repo, context.Context) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}, context.Background()
}

func TestHashAPIKeyIsStableAndTrimmed(t *testing.T) {
	a := repo.HashAPIKey("secret-key")
	b := repo.HashAPIKey("  secret-key  ")
	if a != b {
		t.Fatalf("hash should trim whitespace")
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex, got %d chars", len(a))
	}
	if repo.HashAPIKey("other") == a {
		t.Fatalf("distinct keys must hash differently")
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	r, ctx := newTestRepo(t)
	hash := repo.HashAPIKey("raw-key")
	if err := r.InsertAPIKey(ctx, domain.APIKey{ID: "k1", ActorID: "robot", Name: "ci", KeyHash: hash}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// required fields enforced
	if err := r.InsertAPIKey(ctx, domain.APIKey{ID: "k2", KeyHash: hash}); err == nil {
		t.Fatalf("expected actor_id error")
	}
	key, err := r.GetAPIKeyByHash(ctx, hash)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if key.ActorID != "robot" || key.Name != "ci" {
		t.Fatalf("unexpected key %+v", key)
	}
	if _, err := r.GetAPIKeyByHash(ctx, "missing"); err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	keys, err := r.ListAPIKeys(ctx, "robot")
	if err != nil || len(keys) != 1 {
		t.Fatalf("list: %v (%d)", err, len(keys))
	}
	if err := r.DeleteAPIKey(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.GetAPIKeyByHash(ctx, hash); err != repo.ErrNotFound {
		t.Fatalf("expected gone, got %v", err)
	}
}

func TestPartiesOrdering(t *testing.T) {
	r, ctx := newTestRepo(t)
	for _, c := range []domain.Client{
		{ID: "c1", Name: "Zenith", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "c2", Name: "Acme", CreatedAt: "2024-01-02T00:00:00Z"},
	} {
		if err := r.InsertClient(ctx, c); err != nil {
			t.Fatalf("insert client: %v", err)
		}
	}
	clients, err := r.ListClients(ctx)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clients) != 2 || clients[0].Name != "Acme" {
		t.Fatalf("expected name ordering, got %+v", clients)
	}

	for _, p := range []domain.Project{
		{ID: "p1", ClientID: "c1", Name: "Beta", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "p2", ClientID: "c2", Name: "Alpha", CreatedAt: "2024-01-01T00:00:00Z"},
	} {
		if err := r.InsertProject(ctx, p); err != nil {
			t.Fatalf("insert project: %v", err)
		}
	}
	projects, err := r.ListProjects(ctx, "")
	if err != nil || len(projects) != 2 {
		t.Fatalf("list projects: %v (%d)", err, len(projects))
	}
	scoped, err := r.ListProjects(ctx, "c1")
	if err != nil || len(scoped) != 1 || scoped[0].ID != "p1" {
		t.Fatalf("client filter broken: %v %+v", err, scoped)
	}
}

func TestRecoverySlotUpsert(t *testing.T) {
	r, ctx := newTestRepo(t)
	key := "engagement_wizard_autosave"
	first := domain.RecoveryRecord{
		Key:      key,
		Snapshot: domain.Snapshot{Title: "first"},
		SavedAt:  "2024-01-01T00:00:00Z",
	}
	if err := r.SaveRecovery(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := first
	second.Snapshot.Title = "second"
	second.SavedAt = "2024-01-01T00:05:00Z"
	if err := r.SaveRecovery(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec, err := r.GetRecovery(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Snapshot.Title != "second" || rec.SavedAt != "2024-01-01T00:05:00Z" {
		t.Fatalf("upsert should replace the slot, got %+v", rec)
	}
	if err := r.ClearRecovery(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := r.GetRecovery(ctx, key); err != repo.ErrNotFound {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestEngagementFilterScoping(t *testing.T) {
	r, ctx := newTestRepo(t)
	for _, p := range []domain.BusinessProfile{
		{ID: "prof-1", Name: "Studio", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "prof-2", Name: "Side Studio", CreatedAt: "2024-01-01T00:00:00Z"},
	} {
		if err := r.InsertProfile(ctx, p); err != nil {
			t.Fatalf("insert profile: %v", err)
		}
	}
	for _, c := range []domain.Client{
		{ID: "c1", Name: "Acme", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "c2", Name: "Globex", CreatedAt: "2024-01-01T00:00:00Z"},
	} {
		if err := r.InsertClient(ctx, c); err != nil {
			t.Fatalf("insert client: %v", err)
		}
	}
	if err := r.InsertProject(ctx, domain.Project{ID: "p1", ClientID: "c1", Name: "Relaunch", CreatedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("insert project: %v", err)
	}

	p1 := "p1"
	archivedAt := "2024-01-03T00:00:00Z"
	rows := []domain.Engagement{
		{ID: "e1", ProfileID: "prof-1", ClientID: "c1", ProjectID: &p1, Type: "task", Category: "design", PrimaryLanguage: "en", Status: "draft", CreatedAt: "2024-01-01T00:00:00Z", UpdatedAt: "2024-01-01T00:00:00Z"},
		{ID: "e2", ProfileID: "prof-2", ClientID: "c2", Type: "retainer", Category: "development", PrimaryLanguage: "en", Status: "draft", CreatedAt: "2024-01-02T00:00:00Z", UpdatedAt: "2024-01-02T00:00:00Z"},
		{ID: "e3", ProfileID: "prof-1", ClientID: "c1", Type: "task", Category: "design", PrimaryLanguage: "en", Status: "archived", ArchivedAt: &archivedAt, CreatedAt: "2024-01-03T00:00:00Z", UpdatedAt: "2024-01-03T00:00:00Z"},
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range rows {
		if err := r.InsertEngagement(ctx, tx, e); err != nil {
			t.Fatalf("insert %s: %v", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	ids := func(f repo.EngagementFilters) []string {
		t.Helper()
		items, err := r.ListEngagements(ctx, f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var out []string
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}

	if got := ids(repo.EngagementFilters{}); len(got) != 2 {
		t.Fatalf("default should hide archived, got %v", got)
	}
	if got := ids(repo.EngagementFilters{IncludeArchived: true}); len(got) != 3 {
		t.Fatalf("include_archived should list everything, got %v", got)
	}
	if got := ids(repo.EngagementFilters{ProfileID: "prof-2"}); len(got) != 1 || got[0] != "e2" {
		t.Fatalf("profile filter broken, got %v", got)
	}
	if got := ids(repo.EngagementFilters{ProfileID: "prof-1", IncludeArchived: true}); len(got) != 2 {
		t.Fatalf("profile filter should combine with archived inclusion, got %v", got)
	}
	if got := ids(repo.EngagementFilters{ProjectID: "p1"}); len(got) != 1 || got[0] != "e1" {
		t.Fatalf("project filter broken, got %v", got)
	}
	if got := ids(repo.EngagementFilters{Status: "archived"}); len(got) != 1 || got[0] != "e3" {
		t.Fatalf("status filter broken, got %v", got)
	}
}

func TestEngagementSortOptions(t *testing.T) {
	r, ctx := newTestRepo(t)
	if _, err := r.ListEngagements(ctx, repo.EngagementFilters{Sort: "by_vibes"}); err == nil {
		t.Fatalf("expected unknown sort error")
	}
	for _, sort := range []string{"", "updated_desc", "updated_asc", "created_desc", "created_asc", "client", "title"} {
		if _, err := r.ListEngagements(ctx, repo.EngagementFilters{Sort: sort}); err != nil {
			t.Fatalf("sort %q: %v", sort, err)
		}
	}
}
