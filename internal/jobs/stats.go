package jobs

import (
	"sort"

	"github.com/autotrack/autotrack/pkg/models"
)

// Summary aggregates the canonical collection for dashboard-style display.
// Derived data only; recomputed from scratch on every call.
type Summary struct {
	Total       int
	Applied     int
	Pending     int
	AppliedRate float64
	// TopSkills lists matched skills by frequency, most common first.
	TopSkills []SkillCount
}

type SkillCount struct {
	Skill string
	Count int
}

// Summarize computes aggregate stats over the given collection.
func Summarize(list []models.Job) Summary {
	s := Summary{Total: len(list)}

	counts := make(map[string]int)
	for _, j := range list {
		if j.Applied {
			s.Applied++
		}
		for _, skill := range j.SkillsMatched {
			counts[skill]++
		}
	}
	s.Pending = s.Total - s.Applied
	if s.Total > 0 {
		s.AppliedRate = float64(s.Applied) / float64(s.Total)
	}

	s.TopSkills = make([]SkillCount, 0, len(counts))
	for skill, n := range counts {
		s.TopSkills = append(s.TopSkills, SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(s.TopSkills, func(i, k int) bool {
		if s.TopSkills[i].Count != s.TopSkills[k].Count {
			return s.TopSkills[i].Count > s.TopSkills[k].Count
		}
		return s.TopSkills[i].Skill < s.TopSkills[k].Skill
	})

	return s
}

// Summary returns aggregate stats for the store's current collection.
func (s *Store) Summary() Summary {
	return Summarize(s.Jobs())
}
