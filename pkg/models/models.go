package models

import "time"

// Wire types shared between the client packages. Field names and shapes
// follow the AutoTracker HTTP contract.

// Job is a tracked job posting as the server returns it. ID and DateAdded
// are server-assigned and never sent back on writes.
type Job struct {
	ID            string     `json:"_id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location,omitempty"`
	Description   string     `json:"description"`
	Link          string     `json:"link"`
	Applied       bool       `json:"applied"`
	DateAdded     time.Time  `json:"date_added"`
	Source        string     `json:"source,omitempty"`
	ExternalID    string     `json:"external_id,omitempty"`
	SkillsMatched []string   `json:"skills_matched,omitempty"`
	LastChecked   *time.Time `json:"last_checked,omitempty"`
}

// JobDraft is the transient edit buffer for create and edit flows. It never
// carries an identity; the server assigns one on create.
type JobDraft struct {
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location,omitempty"`
	Description   string   `json:"description"`
	Link          string   `json:"link"`
	Applied       bool     `json:"applied"`
	Source        string   `json:"source,omitempty"`
	SkillsMatched []string `json:"skills_matched,omitempty"`
}

// DraftFromJob pre-populates a draft from an existing job for editing.
func DraftFromJob(j Job) JobDraft {
	return JobDraft{
		Title:         j.Title,
		Company:       j.Company,
		Location:      j.Location,
		Description:   j.Description,
		Link:          j.Link,
		Applied:       j.Applied,
		Source:        j.Source,
		SkillsMatched: append([]string(nil), j.SkillsMatched...),
	}
}

// JobPatch carries only changed-intent fields for a partial update. Nil
// fields are omitted from the wire payload so the server keeps prior values.
type JobPatch struct {
	Title       *string `json:"title,omitempty"`
	Company     *string `json:"company,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
	Applied     *bool   `json:"applied,omitempty"`
	Source      *string `json:"source,omitempty"`
}

// IsZero reports whether the patch carries no changes at all.
func (p JobPatch) IsZero() bool {
	return p.Title == nil && p.Company == nil && p.Location == nil &&
		p.Description == nil && p.Link == nil && p.Applied == nil && p.Source == nil
}

// Profile is the per-user settings record from GET /auth/me.
type Profile struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	TelegramChatID string   `json:"telegram_chat_id,omitempty"`
	Skills         []string `json:"skills"`
}

// Linked reports whether a messaging-bot chat is currently connected.
func (p Profile) Linked() bool {
	return p.TelegramChatID != ""
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is the generic {message} acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SkillsResponse is the body of PUT /auth/skills.
type SkillsResponse struct {
	Message string   `json:"message"`
	Skills  []string `json:"skills"`
}

// TelegramResponse is the body of PUT /auth/telegram.
type TelegramResponse struct {
	Message        string `json:"message"`
	TelegramChatID string `json:"telegram_chat_id"`
}

// TelegramLink is the one-time deep-link bundle from GET /auth/telegram/link.
// The token is single-use and consumed out-of-band by the bot; nothing here
// is persisted client-side.
type TelegramLink struct {
	Link        string `json:"link"`
	Token       string `json:"token"`
	BotUsername string `json:"bot_username"`
}
