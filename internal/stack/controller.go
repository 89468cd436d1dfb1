// Package stack owns the current job batch and keeps it filled: fetch on
// start, debounced refetch on location change, periodic background
// refresh, manual retry. It implements the swipe engine's Deck.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobswipe/seeker-client/internal/model"
)

const (
	// debounceDelay coalesces rapid location changes into one fetch.
	debounceDelay = 500 * time.Millisecond

	// refreshSpec is how often the background refresh fires so new
	// backend results appear without user action.
	refreshSpec = "@every 5m"

	fetchTimeout = 20 * time.Second

	defaultBatchLimit = 20
)

// DefaultLocation requests recommendations without narrowing by place.
const DefaultLocation = "All Locations"

// ErrFetchInFlight is returned when a fetch is dropped because another is
// already outstanding. Triggers are dropped, never queued.
var ErrFetchInFlight = errors.New("fetch already in flight")

// Fetcher supplies ranked batches (implemented by recs.Fetcher).
type Fetcher interface {
	GetRecommendations(ctx context.Context, userKey string, limit int, location string) ([]model.Job, error)
}

// Controller orchestrates fetch → present → consume → refill for one
// signed-in user. The front of the batch is the currently displayed card.
type Controller struct {
	fetcher Fetcher
	userKey string
	limit   int
	cron    *cron.Cron

	mu       sync.Mutex
	location string
	batch    []model.Job
	fetching bool
	lastErr  error
	debounce *time.Timer
}

// New returns a Controller with an empty batch.
func New(fetcher Fetcher, userKey string, limit int) *Controller {
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	return &Controller{
		fetcher:  fetcher,
		userKey:  userKey,
		limit:    limit,
		location: DefaultLocation,
		cron:     cron.New(),
	}
}

// Start runs the initial fetch and begins the periodic background refresh.
// An initial fetch failure is returned but the refresh keeps running; the
// caller surfaces the error and offers Refetch as the retry affordance.
func (c *Controller) Start(ctx context.Context) error {
	if _, err := c.cron.AddFunc(refreshSpec, func() { c.Tick(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	c.cron.Start()
	log.Printf("[stack] background refresh scheduled — spec: %s", refreshSpec)

	return c.Refetch(ctx)
}

// Stop cancels the periodic refresh and any pending debounced fetch.
func (c *Controller) Stop() {
	c.cron.Stop()
	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.mu.Unlock()
	log.Println("[stack] stopped")
}

// Tick runs one background-refresh cycle; the cron schedule calls it. A
// tick is skipped while a fetch is in flight or the batch is empty, so
// the timer never races the swipe engine or a manual retry.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	skip := c.fetching || len(c.batch) == 0
	location := c.location
	c.mu.Unlock()
	if skip {
		return
	}

	log.Printf("[stack] periodic refresh — location %q", location)
	if err := c.Refetch(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
		log.Printf("[stack] periodic refresh failed: %v", err)
	}
}

// SetLocation changes the location filter and schedules a debounced
// refetch. A new change cancels the previous pending one.
func (c *Controller) SetLocation(ctx context.Context, location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = location
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(debounceDelay, func() {
		if err := c.Refetch(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
			log.Printf("[stack] refetch after location change failed: %v", err)
		}
	})
}

// Location returns the current filter.
func (c *Controller) Location() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// Refetch fetches a fresh batch, replacing the current one wholesale. It
// is also the manual retry affordance — there is no automatic retry or
// backoff. On failure the batch is cleared and the error retained for Err.
func (c *Controller) Refetch(ctx context.Context) error {
	c.mu.Lock()
	if c.fetching {
		c.mu.Unlock()
		return ErrFetchInFlight
	}
	c.fetching = true
	location := c.location
	c.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	jobs, err := c.fetcher.GetRecommendations(fctx, c.userKey, c.limit, location)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false
	if err != nil {
		c.batch = nil
		c.lastErr = err
		return fmt.Errorf("fetch batch: %w", err)
	}
	c.batch = jobs
	c.lastErr = nil
	log.Printf("[stack] batch replaced — %d job(s), location %q", len(jobs), location)
	return nil
}

// Err returns the error from the last failed fetch, nil after a success.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Peek returns the currently displayed job (front of the batch).
func (c *Controller) Peek() (model.Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.batch) == 0 {
		return model.Job{}, false
	}
	return c.batch[0], true
}

// Pop consumes the front card.
func (c *Controller) Pop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.batch) > 0 {
		c.batch = c.batch[1:]
	}
}

// Len returns how many cards remain in the batch.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batch)
}
