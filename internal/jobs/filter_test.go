package jobs_test

import (
	"testing"

	"github.com/autotrack/autotrack/internal/jobs"
	"github.com/autotrack/autotrack/pkg/models"
)

func sample() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Backend Engineer", Company: "Acme", Location: "Berlin"},
		{ID: "2", Title: "Data Analyst", Company: "Engineering Corp", Location: ""},
		{ID: "3", Title: "Designer", Company: "Pixels", Location: "Remote"},
		{ID: "4", Title: "SRE", Company: "Acme", Location: "engadin"},
	}
}

func ids(list []models.Job) []string {
	out := make([]string, len(list))
	for i, j := range list {
		out[i] = j.ID
	}
	return out
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	list := sample()
	got := jobs.Filter(list, "")
	if len(got) != len(list) {
		t.Fatalf("empty query must return full list, got %d of %d", len(got), len(list))
	}
	for i := range list {
		if got[i].ID != list[i].ID {
			t.Fatalf("order changed at %d: %v", i, ids(got))
		}
	}
}

func TestFilter_CaseInsensitiveAcrossFields(t *testing.T) {
	got := jobs.Filter(sample(), "eng")
	// matches title "Backend Engineer", company "Engineering Corp" and
	// location "engadin", in canonical order
	want := []string{"1", "2", "4"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("expected %v, got %v", want, ids(got))
		}
	}
}

func TestFilter_NoMatch(t *testing.T) {
	if got := jobs.Filter(sample(), "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestFilter_Recomputable(t *testing.T) {
	list := sample()
	first := jobs.Filter(list, "acme")
	second := jobs.Filter(list, "acme")
	if len(first) != len(second) {
		t.Fatalf("same inputs produced different sizes")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("same inputs produced different order")
		}
	}
}
