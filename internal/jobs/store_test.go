package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autotrack/autotrack/internal/apitest"
	"github.com/autotrack/autotrack/internal/config"
	"github.com/autotrack/autotrack/internal/jobs"
	"github.com/autotrack/autotrack/pkg/api"
	"github.com/autotrack/autotrack/pkg/models"
)

type staticCreds struct{ token string }

func (s *staticCreds) Token(ctx context.Context) (string, bool, error) {
	return s.token, s.token != "", nil
}
func (s *staticCreds) SetToken(ctx context.Context, token string) error { s.token = token; return nil }

func setupStore(t *testing.T) (*jobs.Store, *apitest.Server) {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "s3cret", "alice@example.com")

	client, err := api.NewClient(
		config.APIConfig{BaseURL: srv.URL(), Timeout: 2 * time.Second},
		&staticCreds{token: srv.TokenFor("alice")},
		nil,
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return jobs.NewStore(client, nil), srv
}

func draft(title, company string) models.JobDraft {
	return models.JobDraft{
		Title:       title,
		Company:     company,
		Description: "desc",
		Link:        "https://example.com/posting",
	}
}

func TestCreateThenLoad_RoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	d := draft("Backend Engineer", "Acme")
	d.Location = "Berlin"
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list := store.Jobs()
	if len(list) != 1 {
		t.Fatalf("expected exactly one job, got %d", len(list))
	}
	j := list[0]
	if j.Title != d.Title || j.Company != d.Company || j.Location != d.Location ||
		j.Description != d.Description || j.Link != d.Link {
		t.Fatalf("mutable fields differ from draft: %+v", j)
	}
	if j.ID == "" || j.DateAdded.IsZero() {
		t.Fatalf("expected server-assigned id and date_added: %+v", j)
	}
}

func TestCreate_InvalidDraftNeverReachesServer(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	bad := draft("", "Acme")
	if err := store.Create(ctx, bad); err == nil {
		t.Fatalf("expected validation failure for empty title")
	}

	badLink := draft("Engineer", "Acme")
	badLink.Link = "not a url"
	if err := store.Create(ctx, badLink); err == nil {
		t.Fatalf("expected validation failure for bad link")
	}

	if store.Len() != 0 {
		t.Fatalf("collection must stay empty")
	}
}

func TestUpdate_PartialFlipsAppliedOnly(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()

	seeded := srv.SeedJob("alice", draft("Engineer", "Acme"))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	applied := true
	if err := store.Update(ctx, seeded.ID, models.JobPatch{Applied: &applied}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	j, ok := store.Get(seeded.ID)
	if !ok {
		t.Fatalf("job missing after update")
	}
	if !j.Applied {
		t.Fatalf("applied flag not flipped")
	}
	if j.Title != seeded.Title || j.Company != seeded.Company || j.Link != seeded.Link {
		t.Fatalf("other fields changed: %+v", j)
	}
}

func TestUpdate_EmptyPatchRejected(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()

	seeded := srv.SeedJob("alice", draft("Engineer", "Acme"))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Update(ctx, seeded.ID, models.JobPatch{}); err == nil {
		t.Fatalf("expected empty patch to be rejected")
	}
}

func TestDelete_RemovesFromCollection(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()

	a := srv.SeedJob("alice", draft("Engineer", "Acme"))
	b := srv.SeedJob("alice", draft("Analyst", "Beta"))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get(a.ID); ok {
		t.Fatalf("deleted job still present")
	}
	if _, ok := store.Get(b.ID); !ok {
		t.Fatalf("unrelated job lost")
	}
}

func TestDelete_AbsentID_NotFoundAndUntouched(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()

	srv.SeedJob("alice", draft("Engineer", "Acme"))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	before := store.Jobs()

	err := store.Delete(ctx, "no-such-id")
	var nf *api.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}

	after := store.Jobs()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Fatalf("collection changed after failed delete")
	}
}

func TestLoadFailure_LeavesPreviousCollection(t *testing.T) {
	srv := apitest.New()
	srv.AddUser("alice", "s3cret", "alice@example.com")
	seeded := srv.SeedJob("alice", draft("Engineer", "Acme"))

	client, err := api.NewClient(
		config.APIConfig{BaseURL: srv.URL(), Timeout: 500 * time.Millisecond},
		&staticCreds{token: srv.TokenFor("alice")},
		nil,
	)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	store := jobs.NewStore(client, nil)
	ctx := context.Background()
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// kill the server; the next load must fail and keep the old view
	srv.Close()
	if err := store.Load(ctx); err == nil {
		t.Fatalf("expected load failure against dead server")
	}
	if _, ok := store.Get(seeded.ID); !ok {
		t.Fatalf("previous collection lost after failed load")
	}
}

func TestSearch_UsesCanonicalCollection(t *testing.T) {
	store, srv := setupStore(t)
	ctx := context.Background()

	srv.SeedJob("alice", draft("Backend Engineer", "Acme"))
	srv.SeedJob("alice", draft("Designer", "Pixels"))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := store.Search("engineer")
	if len(got) != 1 || got[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected search result: %+v", got)
	}
}
