package engine_test

import (
	"context"
	"testing"
	"time"

	"dealdesk/internal/config"
	"dealdesk/internal/db"
	"dealdesk/internal/domain"
	"dealdesk/internal/engine"
	"dealdesk/internal/migrate"
	"dealdesk/internal/repo"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default("prof-1")
	eng := engine.New(conn, cfg)
	eng.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	if err := eng.Repo.InsertProfile(ctx, domain.BusinessProfile{ID: "prof-1", Name: "Studio", CreatedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return testEnv{Engine: eng, Ctx: ctx}
}

func createEngagement(t *testing.T, env testEnv) (domain.Engagement, domain.EngagementVersion) {
	t.Helper()
	eng, v, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID:  "prof-1",
		ClientName: "Acme Corp",
		Type:       "task",
		Category:   "development",
		ActorID:    "tester",
	})
	if err != nil {
		t.Fatalf("create engagement: %v", err)
	}
	return eng, v
}

func TestCreateEngagementStartsAtVersionOne(t *testing.T) {
	env := newTestEnv(t)
	eng, v, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID:  "prof-1",
		ClientName: "Acme Corp",
		Type:       "task",
		Category:   "design",
		ActorID:    "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if eng.Status != "draft" {
		t.Fatalf("expected draft, got %s", eng.Status)
	}
	if v.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", v.VersionNumber)
	}
	if eng.CurrentVersionID == nil || *eng.CurrentVersionID != v.ID {
		t.Fatalf("current version not linked")
	}
	if v.Snapshot.Currency == "" {
		t.Fatalf("expected defaults applied to snapshot")
	}
	if !v.Snapshot.DefaultsApplied {
		t.Fatalf("expected scope defaults applied")
	}
	if len(v.Snapshot.Exclusions) == 0 {
		t.Fatalf("expected design preset exclusions merged")
	}
}

func TestCreateEngagementRejectsBadEnums(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID: "prof-1", ClientName: "Acme", Type: "hourly", Category: "design",
	}); err == nil {
		t.Fatalf("expected type error")
	}
	if _, _, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID: "prof-1", ClientName: "Acme", Type: "task", Category: "gardening",
	}); err == nil {
		t.Fatalf("expected category error")
	}
	if _, _, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID: "prof-1", ClientName: "Acme", Type: "task", Category: "design", Language: "fr",
	}); err == nil {
		t.Fatalf("expected language error")
	}
}

func TestSaveVersionNumbersAreMonotonic(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Website build"
	for i := 2; i <= 5; i++ {
		v, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester")
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if v.VersionNumber != i {
			t.Fatalf("expected version %d, got %d", i, v.VersionNumber)
		}
	}
	count, err := env.Engine.Repo.CountVersions(env.Ctx, eng.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 versions, got %d", count)
	}
}

func TestFinalizeThenSaveReopens(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Retainer agreement"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatalf("save: %v", err)
	}
	fv, err := env.Engine.Finalize(env.Ctx, eng.ID, "tester")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if fv.Status != "final" || fv.VersionNumber != 3 {
		t.Fatalf("unexpected final version %d/%s", fv.VersionNumber, fv.Status)
	}
	got, err := env.Engine.Repo.GetEngagement(env.Ctx, eng.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "final" {
		t.Fatalf("expected final engagement, got %s", got.Status)
	}
	// saving onto a final engagement reopens it
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatalf("save after final: %v", err)
	}
	got, _ = env.Engine.Repo.GetEngagement(env.Ctx, eng.ID)
	if got.Status != "draft" {
		t.Fatalf("expected reopened draft, got %s", got.Status)
	}
	rows, err := env.Engine.DB.QueryContext(env.Ctx, `SELECT count(*) FROM events WHERE type='engagement.reopened'`)
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	defer rows.Close()
	var count int
	rows.Next()
	rows.Scan(&count)
	if count != 1 {
		t.Fatalf("expected one reopened event, got %d", count)
	}
}

func TestFinalizeRequiresValidSnapshot(t *testing.T) {
	env := newTestEnv(t)
	eng, _ := createEngagement(t, env)
	// version 1 has no title yet
	if _, err := env.Engine.Finalize(env.Ctx, eng.ID, "tester"); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestDuplicateClearsProjectAndRestartsHistory(t *testing.T) {
	env := newTestEnv(t)
	eng, v, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID:   "prof-1",
		ClientName:  "Acme Corp",
		ProjectName: "Relaunch",
		Type:        "task",
		Category:    "development",
		ActorID:     "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Snapshot.ProjectID == nil {
		t.Fatalf("expected project on source")
	}
	snap := v.Snapshot
	snap.Title = "Relaunch SOW"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	dup, err := env.Engine.Duplicate(env.Ctx, eng.ID, engine.DuplicateOptions{}, "tester")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == eng.ID {
		t.Fatalf("expected new id")
	}
	if dup.ProjectID != nil {
		t.Fatalf("expected project cleared")
	}
	if dup.ClientID != eng.ClientID {
		t.Fatalf("expected same client")
	}
	dv, err := env.Engine.Repo.LatestVersion(env.Ctx, dup.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dv.VersionNumber != 1 {
		t.Fatalf("expected copy to restart at 1, got %d", dv.VersionNumber)
	}
	if dv.Snapshot.Title != "Relaunch SOW" {
		t.Fatalf("expected latest snapshot carried over")
	}
	if dv.Snapshot.ProjectID != nil {
		t.Fatalf("expected snapshot project cleared")
	}
}

func TestDuplicateRePointsClientAndProfile(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Retainer Agreement"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.Repo.InsertClient(env.Ctx, domain.Client{ID: "cli-2", Name: "Globex", CreatedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	if err := env.Engine.Repo.InsertProfile(env.Ctx, domain.BusinessProfile{ID: "prof-2", Name: "Side Studio", CreatedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	dup, err := env.Engine.Duplicate(env.Ctx, eng.ID, engine.DuplicateOptions{
		NewClientID:  "cli-2",
		NewProfileID: "prof-2",
	}, "tester")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ClientID != "cli-2" || dup.ProfileID != "prof-2" {
		t.Fatalf("expected re-pointed refs, got client=%s profile=%s", dup.ClientID, dup.ProfileID)
	}
	dv, err := env.Engine.Repo.LatestVersion(env.Ctx, dup.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dv.Snapshot.ClientID != "cli-2" || dv.Snapshot.ClientName != "Globex" {
		t.Fatalf("expected snapshot client re-pointed, got %s/%s", dv.Snapshot.ClientID, dv.Snapshot.ClientName)
	}
	if dv.Snapshot.ProfileID != "prof-2" || dv.Snapshot.ProfileName != "Side Studio" {
		t.Fatalf("expected snapshot profile re-pointed, got %s/%s", dv.Snapshot.ProfileID, dv.Snapshot.ProfileName)
	}
	if dv.Snapshot.Title != "Retainer Agreement" {
		t.Fatalf("expected content carried over")
	}

	// unknown re-point targets are rejected
	if _, err := env.Engine.Duplicate(env.Ctx, eng.ID, engine.DuplicateOptions{NewClientID: "nope"}, "tester"); err == nil {
		t.Fatalf("expected unknown client error")
	}
	// source keeps its references when no re-point is requested
	src, _ := env.Engine.Repo.GetEngagement(env.Ctx, eng.ID)
	if src.ClientID == "cli-2" {
		t.Fatalf("source client changed")
	}
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Agreement"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.Finalize(env.Ctx, eng.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.Archive(env.Ctx, eng.ID, "tester"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	// archive is idempotent
	if err := env.Engine.Archive(env.Ctx, eng.ID, "tester"); err != nil {
		t.Fatalf("second archive: %v", err)
	}
	got, _ := env.Engine.Repo.GetEngagement(env.Ctx, eng.ID)
	if got.Status != "archived" || got.ArchivedAt == nil {
		t.Fatalf("expected archived, got %s", got.Status)
	}
	// archived engagements reject writes
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err == nil {
		t.Fatalf("expected save rejected while archived")
	}
	if _, err := env.Engine.Finalize(env.Ctx, eng.ID, "tester"); err == nil {
		t.Fatalf("expected finalize rejected while archived")
	}
	if err := env.Engine.Restore(env.Ctx, eng.ID, "tester"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ = env.Engine.Repo.GetEngagement(env.Ctx, eng.ID)
	if got.Status != "final" {
		t.Fatalf("expected restore back to final, got %s", got.Status)
	}
	if got.ArchivedAt != nil {
		t.Fatalf("expected archived_at cleared")
	}
	// restoring a non-archived engagement errors
	if err := env.Engine.Restore(env.Ctx, eng.ID, "tester"); err == nil {
		t.Fatalf("expected restore error")
	}
}

func TestDeleteRemovesVersionsAndKeepsEventTrail(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Doomed"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.Delete(env.Ctx, eng.ID, "tester"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.Engine.Repo.GetEngagement(env.Ctx, eng.ID); err != repo.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if n, _ := env.Engine.Repo.CountVersions(env.Ctx, eng.ID); n != 0 {
		t.Fatalf("expected versions removed, got %d", n)
	}
	events, err := env.Engine.Repo.LatestEvents(env.Ctx, 10, "", "engagement.deleted")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EntityID != eng.ID {
		t.Fatalf("expected deletion event for %s", eng.ID)
	}
}

func TestListEngagementsSearchAndArchiveFilter(t *testing.T) {
	env := newTestEnv(t)
	a, av := createEngagement(t, env)
	snap := av.Snapshot
	snap.Title = "Brand refresh"
	if _, err := env.Engine.SaveVersion(env.Ctx, a.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	b, _, err := env.Engine.CreateEngagement(env.Ctx, engine.CreateOptions{
		ProfileID: "prof-1", ClientName: "Globex", Type: "retainer", Category: "consulting", ActorID: "tester",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.Archive(env.Ctx, b.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	// default listing excludes archived
	items, err := env.Engine.Repo.ListEngagements(env.Ctx, repo.EngagementFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("expected only the active engagement, got %d", len(items))
	}
	// explicit status shows archived
	items, err = env.Engine.Repo.ListEngagements(env.Ctx, repo.EngagementFilters{Status: "archived"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("expected the archived engagement")
	}
	// search matches client name case-insensitively
	items, err = env.Engine.Repo.ListEngagements(env.Ctx, repo.EngagementFilters{Search: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("expected client name match")
	}
	// search matches latest version title
	items, err = env.Engine.Repo.ListEngagements(env.Ctx, repo.EngagementFilters{Search: "brand"})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Title != "Brand refresh" {
		t.Fatalf("expected title match")
	}
}

func TestExportAssemblesDocument(t *testing.T) {
	env := newTestEnv(t)
	eng, v1 := createEngagement(t, env)
	snap := v1.Snapshot
	snap.Title = "Export me"
	if _, err := env.Engine.SaveVersion(env.Ctx, eng.ID, snap, "tester"); err != nil {
		t.Fatal(err)
	}
	doc, err := env.Engine.Export(env.Ctx, eng.ID, 0)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.VersionNumber != 2 {
		t.Fatalf("expected latest version, got %d", doc.VersionNumber)
	}
	if doc.Language != "en" {
		t.Fatalf("expected en document")
	}
	if len(doc.Sections) == 0 {
		t.Fatalf("expected interpolated sections")
	}
	// a specific historical version can be exported too
	doc, err = env.Engine.Export(env.Ctx, eng.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if doc.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", doc.VersionNumber)
	}
}
