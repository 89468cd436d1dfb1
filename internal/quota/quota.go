// Package quota tracks the per-user daily swipe allowance on device
// storage.
//
// The limit is a client-side UX throttle, not a security boundary: storage
// failures are swallowed and treated as "no record", so a broken store
// yields a fresh quota rather than a blocked user.
package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobswipe/seeker-client/internal/storage"
)

// DefaultDailyLimit matches the limit the mobile client shipped with.
const DefaultDailyLimit = 20

// rotationPeriod is how long a record lives before the count resets.
const rotationPeriod = 24 * time.Hour

const keyPrefix = "swipeLimitData_"

// record is the JSON shape persisted per user key.
type record struct {
	Count     int       `json:"count"`
	ResetTime time.Time `json:"resetTime"`
}

// Store reads and mutates quota records. Safe for concurrent use as long
// as the underlying KV is.
type Store struct {
	kv    storage.KV
	limit int
	now   func() time.Time
}

// New returns a Store with the given daily limit, or DefaultDailyLimit
// when limit is not positive.
func New(kv storage.KV, limit int) *Store {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Store{kv: kv, limit: limit, now: time.Now}
}

// Limit returns the configured daily limit.
func (s *Store) Limit() int { return s.limit }

// Remaining returns how many swipes the user has left today. A record
// whose reset time has passed is rotated first.
func (s *Store) Remaining(ctx context.Context, userKey string) int {
	rec := s.load(ctx, userKey)
	left := s.limit - rec.Count
	if left < 0 {
		left = 0
	}
	return left
}

// Increment consumes one swipe, rotating a stale record first. The ceiling
// is the swipe engine's responsibility, not the store's — the count is
// persisted as-is.
func (s *Store) Increment(ctx context.Context, userKey string) {
	rec := s.load(ctx, userKey)
	rec.Count++
	s.persist(ctx, userKey, rec)
}

// TimeUntilReset returns the non-negative time left until the quota
// rotates; zero once the stored reset time has elapsed.
func (s *Store) TimeUntilReset(ctx context.Context, userKey string) time.Duration {
	rec := s.load(ctx, userKey)
	d := rec.ResetTime.Sub(s.now())
	if d < 0 {
		d = 0
	}
	return d
}

// FormatReset renders a duration as "2h 15m", or "ready" once elapsed.
func FormatReset(d time.Duration) string {
	if d <= 0 {
		return "ready"
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// load reads the user's record, lazily rotating it. A missing, unreadable
// or stale record yields a fresh one that is persisted immediately.
func (s *Store) load(ctx context.Context, userKey string) record {
	now := s.now()

	raw, err := s.kv.Get(ctx, keyPrefix+userKey)
	if err == nil {
		var rec record
		if jsonErr := json.Unmarshal(raw, &rec); jsonErr == nil && now.Before(rec.ResetTime) {
			return rec
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("quota read failed, assuming fresh record", "userKey", userKey, "err", err)
	}

	rec := record{Count: 0, ResetTime: now.Add(rotationPeriod)}
	s.persist(ctx, userKey, rec)
	return rec
}

func (s *Store) persist(ctx context.Context, userKey string, rec record) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, keyPrefix+userKey, raw); err != nil {
		slog.Warn("quota write failed", "userKey", userKey, "err", err)
	}
}
