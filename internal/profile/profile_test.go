package profile_test

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/autotrack/autotrack/internal/apitest"
	"github.com/autotrack/autotrack/internal/config"
	"github.com/autotrack/autotrack/internal/profile"
	"github.com/autotrack/autotrack/pkg/api"
)

type staticCreds struct{ token string }

func (s *staticCreds) Token(ctx context.Context) (string, bool, error) {
	return s.token, s.token != "", nil
}
func (s *staticCreds) SetToken(ctx context.Context, token string) error { s.token = token; return nil }

func setupManager(t *testing.T) (*profile.Manager, *apitest.Server) {
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

	return profile.NewManager(client, nil), srv
}

func TestNormalizeSkills(t *testing.T) {
	in := []string{" Go ", "", "Rust", "go", "  ", "SQL", "Rust"}
	want := []string{"Go", "Rust", "SQL"}
	if got := profile.NormalizeSkills(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSkills(%v) = %v, want %v", in, got, want)
	}
}

func TestSaveSkills_FullReplace(t *testing.T) {
	m, srv := setupManager(t)
	ctx := context.Background()

	if _, err := m.SaveSkills(ctx, []string{"Python", "Django"}); err != nil {
		t.Fatalf("first SaveSkills failed: %v", err)
	}

	saved, err := m.SaveSkills(ctx, []string{"Go", "Rust"})
	if err != nil {
		t.Fatalf("SaveSkills failed: %v", err)
	}
	if !reflect.DeepEqual(saved, []string{"Go", "Rust"}) {
		t.Fatalf("unexpected saved skills: %v", saved)
	}

	// server holds the replacement, not a merge
	p, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(p.Skills, []string{"Go", "Rust"}) {
		t.Fatalf("expected full replace on server, got %v", p.Skills)
	}

	_, skills, _ := srv.User("alice")
	if !reflect.DeepEqual(skills, []string{"Go", "Rust"}) {
		t.Fatalf("server-side skills mismatch: %v", skills)
	}
}

func TestSaveSkills_BlankAndDuplicateAreNoOps(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	saved, err := m.SaveSkills(ctx, []string{"Go", "", "go", " Go "})
	if err != nil {
		t.Fatalf("SaveSkills failed: %v", err)
	}
	if !reflect.DeepEqual(saved, []string{"Go"}) {
		t.Fatalf("expected deduplicated list, got %v", saved)
	}
}

func TestChatIDLifecycle(t *testing.T) {
	m, srv := setupManager(t)
	ctx := context.Background()

	p, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Linked() {
		t.Fatalf("expected unlinked profile initially")
	}

	if err := m.SetChatID(ctx, "123456"); err != nil {
		t.Fatalf("SetChatID failed: %v", err)
	}
	if chatID, _, _ := srv.User("alice"); chatID != "123456" {
		t.Fatalf("server chat id not set: %q", chatID)
	}

	// link state is observed by re-reading the profile
	p, err = m.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !p.Linked() || p.TelegramChatID != "123456" {
		t.Fatalf("expected linked profile, got %+v", p)
	}

	if err := m.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	p, err = m.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Linked() {
		t.Fatalf("expected unlinked profile after disconnect")
	}
}

func TestRequestLink(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	link, err := m.RequestLink(ctx)
	if err != nil {
		t.Fatalf("RequestLink failed: %v", err)
	}
	if link.Token == "" || link.BotUsername == "" {
		t.Fatalf("expected token and bot username, got %+v", link)
	}
	if !strings.Contains(link.Link, link.Token) {
		t.Fatalf("deep link should embed the token: %+v", link)
	}

	// idempotent server call: a fresh link supersedes, nothing breaks
	again, err := m.RequestLink(ctx)
	if err != nil {
		t.Fatalf("second RequestLink failed: %v", err)
	}
	if again.Token == link.Token {
		t.Fatalf("expected a fresh one-time token")
	}
}
