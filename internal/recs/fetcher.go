// Package recs fetches ranked job recommendations through a short-lived
// response cache that absorbs overlapping UI triggers (mount and debounce
// firing close together, periodic refresh racing a manual retry).
package recs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobswipe/seeker-client/internal/model"
)

// cacheTTL bounds how long a response is reused before hitting the network
// again. The cache is process-lifetime only, never persisted.
const cacheTTL = 5 * time.Minute

// Source is the raw recommendation endpoint (implemented by
// backend.Client).
type Source interface {
	Recommendations(ctx context.Context, userKey string, limit int, location string) ([]model.Job, error)
}

type entry struct {
	jobs    []model.Job
	expires time.Time
}

// Fetcher caches Source responses keyed by the exact request tuple.
type Fetcher struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	cache map[string]entry
}

// New returns a Fetcher with the default TTL.
func New(src Source) *Fetcher {
	return &Fetcher{src: src, ttl: cacheTTL, now: time.Now, cache: make(map[string]entry)}
}

// GetRecommendations returns the cached batch for (userKey, limit,
// location) while fresh, otherwise fetches and caches. Errors are never
// cached.
func (f *Fetcher) GetRecommendations(ctx context.Context, userKey string, limit int, location string) ([]model.Job, error) {
	key := fmt.Sprintf("%s|%d|%s", userKey, limit, location)

	f.mu.Lock()
	if e, ok := f.cache[key]; ok && f.now().Before(e.expires) {
		jobs := copyJobs(e.jobs)
		f.mu.Unlock()
		return jobs, nil
	}
	f.mu.Unlock()

	jobs, err := f.src.Recommendations(ctx, userKey, limit, location)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[key] = entry{jobs: copyJobs(jobs), expires: f.now().Add(f.ttl)}
	f.mu.Unlock()
	return jobs, nil
}

// copyJobs clones the slice-valued fields too, so a caller mutating a
// returned Job cannot reach the cached entry.
func copyJobs(in []model.Job) []model.Job {
	out := make([]model.Job, len(in))
	copy(out, in)
	for i := range out {
		out[i].Requirements = copyStrings(out[i].Requirements)
		out[i].Benefits = copyStrings(out[i].Benefits)
		out[i].Tags = copyStrings(out[i].Tags)
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
