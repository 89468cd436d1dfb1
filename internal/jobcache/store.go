// Package jobcache keeps a local, user-scoped replica of a remote job list
// (saved bookmarks or liked/accepted jobs) with optimistic mutation and
// authoritative refresh.
//
// The interaction loop is rapid-fire, so mutations apply locally first and
// a reconciling Refresh is scheduled shortly after the remote call; the
// refresh replaces the list wholesale, never merges, which keeps local and
// remote state convergent regardless of dispatch ordering.
package jobcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"jobswipe/seeker-client/internal/model"
)

// reconcileDelay gives the backend a moment to settle before the
// post-mutation refresh fires.
const reconcileDelay = 500 * time.Millisecond

// dispatchTimeout bounds the fire-and-forget remote calls, which run to
// completion or failure independent of UI state.
const dispatchTimeout = 10 * time.Second

// API is the slice of the backend client both stores depend on.
type API interface {
	SavedJobs(ctx context.Context, userKey string) ([]model.Job, error)
	RemoveSaved(ctx context.Context, userKey, jobID string) error
	LikedJobs(ctx context.Context, userKey string) ([]model.Job, error)
	RemoveLiked(ctx context.Context, userKey, jobID string) error
	Swipe(ctx context.Context, intent model.SwipeIntent) error
}

// Store is a de-duplicated local job list converging on remote truth.
// Invariant: at most one entry per job id.
type Store struct {
	name    string
	userKey string

	list         func(ctx context.Context) ([]model.Job, error)
	removeRemote func(ctx context.Context, jobID string) error
	dispatchAdd  func(ctx context.Context, job model.Job) error // nil: add is dispatched elsewhere

	schedule func(d time.Duration, f func())

	mu   sync.Mutex
	jobs []model.Job
}

// NewSaved builds the bookmark store. Add dispatches a "save" swipe to the
// backend before the reconciling refresh.
func NewSaved(api API, userKey string) *Store {
	return &Store{
		name:    "saved",
		userKey: userKey,
		list: func(ctx context.Context) ([]model.Job, error) {
			return api.SavedJobs(ctx, userKey)
		},
		removeRemote: func(ctx context.Context, jobID string) error {
			return api.RemoveSaved(ctx, userKey, jobID)
		},
		dispatchAdd: func(ctx context.Context, job model.Job) error {
			return api.Swipe(ctx, model.SwipeIntent{
				UserKey: userKey,
				JobID:   job.ID,
				Action:  model.ActionSave,
				At:      time.Now(),
				Job:     &job,
			})
		},
		schedule: defaultSchedule,
	}
}

// NewAccepted builds the liked store. Add does not dispatch: the swipe
// engine has already sent the like before the optimistic insert.
func NewAccepted(api API, userKey string) *Store {
	return &Store{
		name:    "accepted",
		userKey: userKey,
		list: func(ctx context.Context) ([]model.Job, error) {
			return api.LikedJobs(ctx, userKey)
		},
		removeRemote: func(ctx context.Context, jobID string) error {
			return api.RemoveLiked(ctx, userKey, jobID)
		},
		schedule: defaultSchedule,
	}
}

func defaultSchedule(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Refresh replaces the local list with backend truth. On failure the prior
// list is left untouched and the error returned for the caller to log.
func (s *Store) Refresh(ctx context.Context) error {
	jobs, err := s.list(ctx)
	if err != nil {
		return fmt.Errorf("%s refresh: %w", s.name, err)
	}
	s.mu.Lock()
	s.jobs = dedupe(jobs)
	s.mu.Unlock()
	return nil
}

// Add optimistically inserts job (dedup by id), fires the remote add when
// this store owns the dispatch, and schedules a reconciling refresh.
func (s *Store) Add(job model.Job) {
	s.mu.Lock()
	if !containsLocked(s.jobs, job.ID) {
		s.jobs = append(s.jobs, job)
	}
	s.mu.Unlock()

	if s.dispatchAdd != nil {
		go func() {
			dctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			defer cancel()
			if err := s.dispatchAdd(dctx, job); err != nil {
				slog.Warn("job cache add dispatch failed", "store", s.name, "jobId", job.ID, "err", err)
			}
		}()
	}
	s.scheduleRefresh()
}

// Remove optimistically filters jobID out, fires the remote removal, and
// schedules a reconciling refresh. Removing an absent id is a local no-op;
// the remote call still fires and the refresh converges both cases to the
// same state.
func (s *Store) Remove(jobID string) {
	s.mu.Lock()
	kept := s.jobs[:0]
	for _, j := range s.jobs {
		if j.ID != jobID {
			kept = append(kept, j)
		}
	}
	s.jobs = kept
	s.mu.Unlock()

	go func() {
		dctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := s.removeRemote(dctx, jobID); err != nil {
			slog.Warn("job cache remove dispatch failed", "store", s.name, "jobId", jobID, "err", err)
		}
	}()
	s.scheduleRefresh()
}

// Contains reports whether jobID is currently in the local list. Pure
// local lookup, used for UI toggle state.
func (s *Store) Contains(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsLocked(s.jobs, jobID)
}

// Jobs returns a copy of the current list.
func (s *Store) Jobs() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Store) scheduleRefresh() {
	s.schedule(reconcileDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			slog.Warn("job cache reconcile failed", "store", s.name, "err", err)
		}
	})
}

func containsLocked(jobs []model.Job, jobID string) bool {
	for _, j := range jobs {
		if j.ID == jobID {
			return true
		}
	}
	return false
}

func dedupe(jobs []model.Job) []model.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := seen[j.ID]; ok {
			continue
		}
		seen[j.ID] = struct{}{}
		out = append(out, j)
	}
	return out
}
