package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/autotrack/autotrack/pkg/models"
)

// State is the session's authentication state.
type State int

const (
	// StateInitializing exists only before the first credential check.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the slice of the resource client the session needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Signup(ctx context.Context, username, email, password, chatID string) (models.MessageResponse, error)
}

// CredentialStore is the slice of the credential store the session owns.
// The session is the only writer of the credential lifecycle.
type CredentialStore interface {
	Token(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// Session derives "am I logged in" from credential presence and is the only
// component that drives credential lifecycle transitions. Views subscribe to
// transitions instead of polling.
//
// Two concurrent logins are a documented race: the last to complete wins the
// stored credential. There is exactly one logical user, so this is accepted
// rather than serialized here.
type Session struct {
	auth   Authenticator
	creds  CredentialStore
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// New resolves the initial state from credential presence, exactly once and
// without any network call. A storage read failure is logged and treated as
// unauthenticated.
func New(ctx context.Context, auth Authenticator, creds CredentialStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		auth:   auth,
		creds:  creds,
		logger: logger,
		state:  StateInitializing,
		subs:   make(map[int]func(State)),
	}

	_, present, err := creds.Token(ctx)
	if err != nil {
		logger.Error("session: credential read failed, assuming unauthenticated", slog.Any("err", err))
		present = false
	}
	if present {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}

	return s
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Authenticated reports whether the session currently holds a credential.
func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// Subscribe registers fn to run on every state transition and returns a
// cancel function. fn runs synchronously on the transitioning call.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	if s.state == to {
		s.mu.Unlock()
		return
	}
	s.state = to
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(to)
	}
}

// Login authenticates and, on success, moves to Authenticated. The token is
// stored by the client's login call; a failure leaves state and storage
// untouched and surfaces the error verbatim. Never retried here.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if _, err := s.auth.Login(ctx, username, password); err != nil {
		return err
	}

	s.transition(StateAuthenticated)
	return nil
}

// Logout clears the credential and moves to Unauthenticated. It never fails:
// a storage error is logged and the state still flips, since a client that
// wants out must not stay logged in over a disk hiccup.
func (s *Session) Logout(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Error("session: failed to clear credential", slog.Any("err", err))
	}

	s.transition(StateUnauthenticated)
}

// Signup registers a new account. It does not touch the state machine; a
// successful signup is followed by an explicit Login.
func (s *Session) Signup(ctx context.Context, username, email, password, chatID string) (models.MessageResponse, error) {
	return s.auth.Signup(ctx, username, email, password, chatID)
}

// Username returns the identity baked into the stored token, decoded without
// verification. Display only; the server remains the authority on whether
// the token is still good.
func (s *Session) Username(ctx context.Context) (string, bool) {
	token, ok, err := s.creds.Token(ctx)
	if err != nil || !ok {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}

	return sub, true
}
