package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/autotrack/autotrack/pkg/models"
)

// Typed resource operations. Each one is the sole owner of its verb/path
// pair; callers never see raw HTTP.

// Health pings the server root and returns its status message.
func (c *Client) Health(ctx context.Context) (models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return models.MessageResponse{}, fmt.Errorf("health check failed: %w", err)
	}

	return out, nil
}

// Login submits form-encoded credentials and, on success, stores the
// returned token through the credential source before returning it. Every
// rejection surfaces as an AuthenticationError; nothing is retried.
func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out models.LoginResponse
	if err := c.doForm(ctx, "/auth/login", form, &out); err != nil {
		return models.LoginResponse{}, asLoginError(err)
	}

	if c.creds != nil {
		if err := c.creds.SetToken(ctx, out.AccessToken); err != nil {
			return models.LoginResponse{}, fmt.Errorf("store credential: %w", err)
		}
	}

	return out, nil
}

// asLoginError folds any server-side login rejection into an
// AuthenticationError, keeping the server's message when it sent one.
// Transport failures pass through untouched.
func asLoginError(err error) error {
	switch e := err.(type) {
	case *TransportError:
		return err
	case *AuthenticationError:
		return err
	case *ValidationError:
		return &AuthenticationError{Message: loginMessage(e.Message, e.Status), Status: e.Status}
	case *NotFoundError:
		return &AuthenticationError{Message: loginMessage(e.Message, http.StatusNotFound), Status: http.StatusNotFound}
	case *APIError:
		return &AuthenticationError{Message: loginMessage(e.Message, e.Status), Status: e.Status}
	default:
		return err
	}
}

func loginMessage(msg string, status int) string {
	if msg == "" || msg == fmt.Sprintf("request failed (status %d)", status) {
		return "invalid credentials"
	}

	return msg
}

// Signup registers a new account. It does not authenticate the caller; a
// successful signup is expected to be followed by an explicit Login.
func (c *Client) Signup(ctx context.Context, username, email, password, chatID string) (models.MessageResponse, error) {
	body := map[string]any{
		"username":         username,
		"email":            email,
		"password":         password,
		"telegram_chat_id": chatID,
		"skills":           []string{},
	}

	var out models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return models.MessageResponse{}, asSignupError(err)
	}

	return out, nil
}

func asSignupError(err error) error {
	switch e := err.(type) {
	case *TransportError, *ValidationError:
		return err
	case *AuthenticationError:
		return &ValidationError{Message: e.Message, Status: e.Status}
	case *NotFoundError:
		return &ValidationError{Message: e.Message, Status: http.StatusNotFound}
	case *APIError:
		return &ValidationError{Message: e.Message, Status: e.Status}
	default:
		return err
	}
}

// ListJobs returns the current user's full job collection.
func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetJob returns a single job by id.
func (c *Client) GetJob(ctx context.Context, id string) (models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Job{}, err
	}

	return out, nil
}

// CreateJob submits a draft; the server assigns id and date_added.
func (c *Client) CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodPost, "/jobs/", draft, &out); err != nil {
		return models.Job{}, err
	}

	return out, nil
}

// UpdateJob applies a partial update; only the patch's non-nil fields reach
// the wire.
func (c *Client) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	var out models.Job
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), patch, &out); err != nil {
		return models.Job{}, err
	}

	return out, nil
}

// DeleteJob removes a job by id.
func (c *Client) DeleteJob(ctx context.Context, id string) (models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return models.MessageResponse{}, err
	}

	return out, nil
}

// GetProfile returns the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return models.Profile{}, err
	}

	return out, nil
}

// UpdateSkills replaces the user's skill set wholesale.
func (c *Client) UpdateSkills(ctx context.Context, skills []string) (models.SkillsResponse, error) {
	if skills == nil {
		skills = []string{}
	}

	var out models.SkillsResponse
	if err := c.do(ctx, http.MethodPut, "/auth/skills", map[string][]string{"skills": skills}, &out); err != nil {
		return models.SkillsResponse{}, err
	}

	return out, nil
}

// UpdateTelegramChatID sets or, with an empty id, clears the linked chat.
func (c *Client) UpdateTelegramChatID(ctx context.Context, chatID string) (models.TelegramResponse, error) {
	var out models.TelegramResponse
	if err := c.do(ctx, http.MethodPut, "/auth/telegram", map[string]string{"telegram_chat_id": chatID}, &out); err != nil {
		return models.TelegramResponse{}, err
	}

	return out, nil
}

// TelegramLink requests a one-time deep link for connecting the bot. The
// returned token is consumed out-of-band and never persisted here.
func (c *Client) TelegramLink(ctx context.Context) (models.TelegramLink, error) {
	var out models.TelegramLink
	if err := c.do(ctx, http.MethodGet, "/auth/telegram/link", nil, &out); err != nil {
		return models.TelegramLink{}, err
	}

	return out, nil
}
