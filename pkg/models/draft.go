package models

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// draftSchema is compiled once and applied to the serialized draft before it
// is sent to the server, catching obviously broken payloads locally.
const draftSchema = `{
	"type": "object",
	"required": ["title", "company", "description", "link"],
	"properties": {
		"title":       {"type": "string", "minLength": 1},
		"company":     {"type": "string", "minLength": 1},
		"description": {"type": "string", "minLength": 1},
		"link":        {"type": "string", "minLength": 1},
		"location":    {"type": "string"},
		"source":      {"type": "string"},
		"applied":     {"type": "boolean"},
		"skills_matched": {"type": "array", "items": {"type": "string"}}
	}
}`

var compileDraftSchema = sync.OnceValues(func() (*schemaValidator, error) {
	return newSchemaValidator(draftSchema)
})

// Validate checks the draft against the payload schema and verifies the link
// is a well-formed absolute URL. The server remains authoritative; this only
// rejects payloads that could never be accepted.
func (d JobDraft) Validate(ctx context.Context) error {
	v, err := compileDraftSchema()
	if err != nil {
		return fmt.Errorf("compile draft schema: %w", err)
	}

	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := v.validate(ctx, b); err != nil {
		return err
	}

	// minLength accepts whitespace-only strings, so trim-check the
	// required fields explicitly.
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Company) == "" {
		return fmt.Errorf("company is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("description is required")
	}

	u, err := url.ParseRequestURI(d.Link)
	if err != nil || u.Host == "" {
		return fmt.Errorf("link must be a well-formed URL")
	}

	return nil
}
