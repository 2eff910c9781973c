package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/autotrack/autotrack/internal/session"
	"github.com/autotrack/autotrack/pkg/api"
	"github.com/autotrack/autotrack/pkg/models"
)

// fakeCreds is an in-memory credential store.
type fakeCreds struct {
	token    string
	clearErr error
}

func (f *fakeCreds) Token(ctx context.Context) (string, bool, error) {
	return f.token, f.token != "", nil
}

func (f *fakeCreds) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token = ""
	return nil
}

// fakeAuth mimics the client's login/signup behavior including the token
// store side effect on success.
type fakeAuth struct {
	creds     *fakeCreds
	password  string
	loginErr  error
	signupErr error
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	if f.loginErr != nil {
		return models.LoginResponse{}, f.loginErr
	}
	if password != f.password {
		return models.LoginResponse{}, &api.AuthenticationError{Message: "Invalid credentials", Status: 401}
	}
	f.creds.token = "token-for-" + username
	return models.LoginResponse{AccessToken: f.creds.token, TokenType: "bearer"}, nil
}

func (f *fakeAuth) Signup(ctx context.Context, username, email, password, chatID string) (models.MessageResponse, error) {
	if f.signupErr != nil {
		return models.MessageResponse{}, f.signupErr
	}
	return models.MessageResponse{Message: "User created successfully"}, nil
}

func newSession(creds *fakeCreds, auth *fakeAuth) *session.Session {
	return session.New(context.Background(), auth, creds, nil)
}

func TestInitialState(t *testing.T) {
	creds := &fakeCreds{}
	s := newSession(creds, &fakeAuth{creds: creds, password: "pw"})
	if s.State() != session.StateUnauthenticated {
		t.Fatalf("expected unauthenticated start, got %v", s.State())
	}

	creds = &fakeCreds{token: "persisted"}
	s = newSession(creds, &fakeAuth{creds: creds, password: "pw"})
	if s.State() != session.StateAuthenticated {
		t.Fatalf("expected authenticated start with stored token, got %v", s.State())
	}
}

func TestLoginLogoutInvariant(t *testing.T) {
	creds := &fakeCreds{}
	s := newSession(creds, &fakeAuth{creds: creds, password: "pw"})
	ctx := context.Background()

	// arbitrary sequence; after every successful login the store holds a
	// token and the flag is up, after every logout both are down
	for i := 0; i < 3; i++ {
		if err := s.Login(ctx, "alice", "pw"); err != nil {
			t.Fatalf("login %d failed: %v", i, err)
		}
		if !s.Authenticated() {
			t.Fatalf("expected authenticated after login")
		}
		if _, ok, _ := creds.Token(ctx); !ok {
			t.Fatalf("expected credential present after login")
		}

		s.Logout(ctx)
		if s.Authenticated() {
			t.Fatalf("expected unauthenticated after logout")
		}
		if _, ok, _ := creds.Token(ctx); ok {
			t.Fatalf("expected credential cleared after logout")
		}
	}
}

func TestLoginFailure_StateUnchanged(t *testing.T) {
	creds := &fakeCreds{}
	s := newSession(creds, &fakeAuth{creds: creds, password: "right"})
	ctx := context.Background()

	err := s.Login(ctx, "alice", "wrongpass")
	if err == nil {
		t.Fatalf("expected login failure")
	}
	var authErr *api.AuthenticationError
	if !errors.As(err, &authErr) || authErr.Message != "Invalid credentials" {
		t.Fatalf("expected AuthenticationError with server detail, got %v", err)
	}
	if s.State() != session.StateUnauthenticated {
		t.Fatalf("failed login must not change state")
	}
	if _, ok, _ := creds.Token(ctx); ok {
		t.Fatalf("credential store must stay empty")
	}
}

func TestLogout_NeverFails(t *testing.T) {
	creds := &fakeCreds{token: "tok", clearErr: errors.New("disk gone")}
	s := newSession(creds, &fakeAuth{creds: creds, password: "pw"})

	s.Logout(context.Background())
	if s.State() != session.StateUnauthenticated {
		t.Fatalf("logout must flip state even when storage errors")
	}
}

func TestSignup_DoesNotTouchState(t *testing.T) {
	creds := &fakeCreds{}
	s := newSession(creds, &fakeAuth{creds: creds, password: "pw"})
	ctx := context.Background()

	if _, err := s.Signup(ctx, "bob", "bob@example.com", "pw", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if s.State() != session.StateUnauthenticated {
		t.Fatalf("signup must not authenticate")
	}
}

func TestSubscribe(t *testing.T) {
	creds := &fakeCreds{}
	s := newSession(creds, &fakeAuth{creds: creds, password: "pw"})
	ctx := context.Background()

	var seen []session.State
	cancel := s.Subscribe(func(st session.State) { seen = append(seen, st) })

	if err := s.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	s.Logout(ctx)

	if len(seen) != 2 || seen[0] != session.StateAuthenticated || seen[1] != session.StateUnauthenticated {
		t.Fatalf("unexpected transitions: %v", seen)
	}

	cancel()
	if err := s.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("canceled subscriber still notified")
	}

	// logging out twice produces one transition only
	s.Logout(ctx)
	before := s.State()
	s.Logout(ctx)
	if s.State() != before {
		t.Fatalf("repeated logout changed state")
	}
}

func TestUsername_FromToken(t *testing.T) {
	creds := &fakeCreds{}
	auth := &fakeAuth{creds: creds, password: "pw"}
	s := newSession(creds, auth)
	ctx := context.Background()

	if _, ok := s.Username(ctx); ok {
		t.Fatalf("expected no username without a token")
	}

	// opaque non-JWT token: best effort means no identity, no error
	creds.token = "not-a-jwt"
	if _, ok := s.Username(ctx); ok {
		t.Fatalf("expected no username for undecodable token")
	}
}
