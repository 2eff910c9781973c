package jobs

import (
	"strings"

	"github.com/autotrack/autotrack/pkg/models"
)

// Filter returns the ordered subsequence of jobs whose title, company or
// location contains the query as a case-insensitive substring. An empty
// query means no filtering. Pure: safe to discard and recompute at any time
// with identical results.
func Filter(list []models.Job, query string) []models.Job {
	if query == "" {
		return list
	}

	q := strings.ToLower(query)
	out := make([]models.Job, 0, len(list))
	for _, j := range list {
		if strings.Contains(strings.ToLower(j.Title), q) ||
			strings.Contains(strings.ToLower(j.Company), q) ||
			strings.Contains(strings.ToLower(j.Location), q) {
			out = append(out, j)
		}
	}

	return out
}
