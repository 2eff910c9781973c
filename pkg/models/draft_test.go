package models_test

import (
	"context"
	"testing"

	"github.com/autotrack/autotrack/pkg/models"
)

func validDraft() models.JobDraft {
	return models.JobDraft{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Build the backend",
		Link:        "https://example.com/jobs/1",
	}
}

func TestDraftValidate_OK(t *testing.T) {
	if err := validDraft().Validate(context.Background()); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestDraftValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.JobDraft)
	}{
		{"EmptyTitle", func(d *models.JobDraft) { d.Title = "" }},
		{"BlankTitle", func(d *models.JobDraft) { d.Title = "   " }},
		{"EmptyCompany", func(d *models.JobDraft) { d.Company = "" }},
		{"EmptyDescription", func(d *models.JobDraft) { d.Description = "" }},
		{"EmptyLink", func(d *models.JobDraft) { d.Link = "" }},
		{"RelativeLink", func(d *models.JobDraft) { d.Link = "/jobs/1" }},
		{"GarbageLink", func(d *models.JobDraft) { d.Link = "not a url" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			if err := d.Validate(context.Background()); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}

func TestDraftFromJob(t *testing.T) {
	j := models.Job{
		ID:            "abc",
		Title:         "Engineer",
		Company:       "Acme",
		Location:      "Berlin",
		Description:   "desc",
		Link:          "https://example.com/1",
		Applied:       true,
		Source:        "manual",
		SkillsMatched: []string{"Go"},
	}

	d := models.DraftFromJob(j)
	if d.Title != j.Title || d.Company != j.Company || d.Location != j.Location ||
		d.Description != j.Description || d.Link != j.Link || !d.Applied || d.Source != j.Source {
		t.Fatalf("draft fields differ from job: %+v", d)
	}

	// the draft is identity-less and detached from the job's slice
	d.SkillsMatched[0] = "changed"
	if j.SkillsMatched[0] != "Go" {
		t.Fatalf("draft shares backing array with job")
	}
}

func TestJobPatch_IsZero(t *testing.T) {
	if !(models.JobPatch{}).IsZero() {
		t.Fatalf("empty patch should be zero")
	}
	applied := true
	if (models.JobPatch{Applied: &applied}).IsZero() {
		t.Fatalf("non-empty patch should not be zero")
	}
}
