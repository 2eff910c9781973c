package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/autotrack/autotrack/pkg/models"
)

// API is the slice of the resource client the store needs.
type API interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	CreateJob(ctx context.Context, draft models.JobDraft) (models.Job, error)
	UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)
	DeleteJob(ctx context.Context, id string) (models.MessageResponse, error)
}

// Store owns the canonical in-memory job collection for the current user.
// Every successful mutation re-synchronizes the whole collection from the
// server rather than patching locally: date_added, skills_matched and any
// validation-adjusted fields are server-derived and must not be guessed.
// The cost is one extra round trip per mutation, accepted for correctness
// in a low-volume personal tracker.
//
// Mutations are user-gated and expected one at a time; if two are in flight
// for the same job, the last response to resolve determines the visible
// state. That race is documented, not fixed here.
type Store struct {
	api    API
	logger *slog.Logger

	mu   sync.RWMutex
	list []models.Job
}

func NewStore(api API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: api, logger: logger}
}

// Jobs returns a copy of the canonical collection in server order.
func (s *Store) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Job(nil), s.list...)
}

// Len returns the size of the canonical collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.list)
}

// Get returns the job with the given id from the canonical collection.
func (s *Store) Get(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.list {
		if j.ID == id {
			return j, true
		}
	}

	return models.Job{}, false
}

// Load replaces the entire collection with the server's current list. On
// failure the previous collection stays untouched.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.api.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()

	s.logger.Info("jobs: collection loaded", slog.Int("count", len(list)))
	return nil
}

// Create validates and submits the draft, then refreshes the collection.
// The new job becomes visible only once the refresh completes; there is no
// client-side id guessing.
func (s *Store) Create(ctx context.Context, draft models.JobDraft) error {
	if err := draft.Validate(ctx); err != nil {
		return err
	}

	if _, err := s.api.CreateJob(ctx, draft); err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	return s.Load(ctx)
}

// Update submits only the patch's changed-intent fields, then refreshes the
// collection. An empty patch is rejected before it reaches the wire.
func (s *Store) Update(ctx context.Context, id string, patch models.JobPatch) error {
	if patch.IsZero() {
		return fmt.Errorf("nothing to update")
	}

	if _, err := s.api.UpdateJob(ctx, id, patch); err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}

	return s.Load(ctx)
}

// Delete removes the job, then refreshes the collection. The destructive
// confirmation happens at the boundary layer; callers arrive here already
// confirmed.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.api.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}

	return s.Load(ctx)
}

// Search is the projection over the canonical collection for the query.
func (s *Store) Search(query string) []models.Job {
	return Filter(s.Jobs(), query)
}
