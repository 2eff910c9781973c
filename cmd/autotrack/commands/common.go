package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	migrations "github.com/autotrack/autotrack/db"
	"github.com/autotrack/autotrack/internal/config"
	"github.com/autotrack/autotrack/internal/credstore"
	dbpkg "github.com/autotrack/autotrack/internal/db"
	"github.com/autotrack/autotrack/internal/jobs"
	"github.com/autotrack/autotrack/internal/profile"
	"github.com/autotrack/autotrack/internal/session"
	"github.com/autotrack/autotrack/pkg/api"
)

// AppContext wires the client stack for one command invocation: config,
// local credential storage, resource client, session, and the stores.
type AppContext struct {
	Config  *config.Config
	DB      *dbpkg.DB
	Client  *api.Client
	Session *session.Session
	Jobs    *jobs.Store
	Profile *profile.Manager
}

// NewAppContext loads configuration, opens the local database and builds
// the client stack.
func NewAppContext(ctx context.Context, configPath string) (*AppContext, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d, err := dbpkg.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate local db: %w", err)
	}

	creds := credstore.New(d, nil)

	client, err := api.NewDefaultClient(cfg.API, creds)
	if err != nil {
		d.Close()
		return nil, err
	}

	sess := session.New(ctx, client, creds, nil)

	return &AppContext{
		Config:  cfg,
		DB:      d,
		Client:  client,
		Session: sess,
		Jobs:    jobs.NewStore(client, nil),
		Profile: profile.NewManager(client, nil),
	}, nil
}

// Close releases the resources held by the context.
func (ac *AppContext) Close() {
	if ac.Client != nil {
		_ = ac.Client.Close()
	}
	if ac.DB != nil {
		_ = ac.DB.Close()
	}
}

// RequireAuth fails fast when no session is active, before any network call.
func (ac *AppContext) RequireAuth() error {
	if !ac.Session.Authenticated() {
		return fmt.Errorf("not logged in; run `autotrack login` first")
	}

	return nil
}

// Confirm asks a destructive-action question on stdin. skip short-circuits
// for --yes flags.
func Confirm(prompt string, skip bool) bool {
	if skip {
		return true
	}

	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes"
}
