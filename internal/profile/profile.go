package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/autotrack/autotrack/pkg/models"
)

// API is the slice of the resource client the manager needs.
type API interface {
	GetProfile(ctx context.Context) (models.Profile, error)
	UpdateSkills(ctx context.Context, skills []string) (models.SkillsResponse, error)
	UpdateTelegramChatID(ctx context.Context, chatID string) (models.TelegramResponse, error)
	TelegramLink(ctx context.Context) (models.TelegramLink, error)
}

// Manager holds the last-fetched profile and drives the skills and
// messaging-bot link workflows. All server calls are independent and
// idempotent; whether a deep-link actually activated is observed by
// re-reading the profile, never by polling.
type Manager struct {
	api    API
	logger *slog.Logger

	mu      sync.RWMutex
	profile models.Profile
	loaded  bool
}

func NewManager(api API, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{api: api, logger: logger}
}

// Profile returns the last-fetched profile and whether one was loaded.
func (m *Manager) Profile() (models.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.profile, m.loaded
}

// Load refreshes the profile from the server. Failure leaves the previous
// copy untouched.
func (m *Manager) Load(ctx context.Context) (models.Profile, error) {
	p, err := m.api.GetProfile(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	m.mu.Lock()
	m.profile = p
	m.loaded = true
	m.mu.Unlock()

	return p, nil
}

// NormalizeSkills trims entries, drops blanks and deduplicates while keeping
// first-occurrence order. Adding a duplicate or blank skill is a no-op, not
// an error.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SaveSkills replaces the skill set wholesale with the normalized list and
// refreshes the local copy from the server's response.
func (m *Manager) SaveSkills(ctx context.Context, skills []string) ([]string, error) {
	normalized := NormalizeSkills(skills)

	resp, err := m.api.UpdateSkills(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("save skills: %w", err)
	}

	m.mu.Lock()
	m.profile.Skills = resp.Skills
	m.mu.Unlock()

	m.logger.Info("profile: skills saved", slog.Int("count", len(resp.Skills)))
	return resp.Skills, nil
}

// SetChatID sets the messaging-bot chat id directly. This manual path is
// kept for recoverability when the deep-link flow fails.
func (m *Manager) SetChatID(ctx context.Context, chatID string) error {
	resp, err := m.api.UpdateTelegramChatID(ctx, chatID)
	if err != nil {
		return fmt.Errorf("set chat id: %w", err)
	}

	m.mu.Lock()
	m.profile.TelegramChatID = resp.TelegramChatID
	m.mu.Unlock()

	return nil
}

// Disconnect clears the linked chat id. The destructive confirmation is the
// boundary layer's job; callers arrive here already confirmed.
func (m *Manager) Disconnect(ctx context.Context) error {
	if err := m.SetChatID(ctx, ""); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}

	m.logger.Info("profile: messaging bot disconnected")
	return nil
}

// RequestLink asks the server for a one-time deep link. Both the link and
// the token are display-only; the token is consumed out-of-band by the bot.
func (m *Manager) RequestLink(ctx context.Context) (models.TelegramLink, error) {
	link, err := m.api.TelegramLink(ctx)
	if err != nil {
		return models.TelegramLink{}, fmt.Errorf("request link: %w", err)
	}

	return link, nil
}
