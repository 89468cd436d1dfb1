package swipe

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"jobswipe/seeker-client/internal/jobcache"
	"jobswipe/seeker-client/internal/model"
	"jobswipe/seeker-client/internal/quota"
)

// dispatchTimeout bounds the fire-and-forget swipe dispatch.
const dispatchTimeout = 10 * time.Second

// Sentinel errors for the user-visible terminal outcomes of the swipe
// loop. Quota exhaustion is a first-class state, distinct from network
// errors.
var (
	// ErrQuotaExhausted blocks further like/dislike resolutions until the
	// daily quota rotates. The card stays on the deck and nothing is
	// dispatched.
	ErrQuotaExhausted = errors.New("daily swipe limit reached")

	// ErrNoCard means the batch is exhausted. Refetching is the stack
	// controller's job, never the engine's.
	ErrNoCard = errors.New("no card to swipe")

	// ErrBusy means a resolution is already in flight; the input is
	// dropped, not queued.
	ErrBusy = errors.New("resolution in flight")
)

// Deck is the card source, owned by the stack controller. Peek returns the
// currently displayed job; Pop consumes it.
type Deck interface {
	Peek() (model.Job, bool)
	Pop()
}

// Dispatcher sends resolved swipe intents to the backend.
type Dispatcher interface {
	Swipe(ctx context.Context, intent model.SwipeIntent) error
}

// Outcome describes one consumed card.
type Outcome struct {
	Job       model.Job
	Direction Direction
	Action    model.SwipeAction
	Remaining int
}

// Config carries the engine's collaborators.
type Config struct {
	UserKey    string
	Threshold  float64 // DefaultThreshold when zero
	Deck       Deck
	Quota      *quota.Store
	Accepted   *jobcache.Store
	Saved      *jobcache.Store
	Dispatcher Dispatcher

	// OnResolve is the exit-animation effect, invoked on entering
	// RESOLVING, before the card is consumed. Optional.
	OnResolve func(job model.Job, dir Direction)
}

// Engine is the state machine over the current-card slot. All methods are
// safe for concurrent use; the RESOLVING guard totally orders resolutions.
type Engine struct {
	userKey    string
	threshold  float64
	deck       Deck
	quota      *quota.Store
	accepted   *jobcache.Store
	saved      *jobcache.Store
	dispatcher Dispatcher
	onResolve  func(job model.Job, dir Direction)

	mu     sync.Mutex
	state  State
	offset float64
}

// New returns an Engine in the IDLE state.
func New(cfg Config) *Engine {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		userKey:    cfg.UserKey,
		threshold:  threshold,
		deck:       cfg.Deck,
		quota:      cfg.Quota,
		accepted:   cfg.Accepted,
		saved:      cfg.Saved,
		dispatcher: cfg.Dispatcher,
		onResolve:  cfg.OnResolve,
		state:      StateIdle,
	}
}

// State returns the current machine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns the card on top of the deck, if any.
func (e *Engine) Current() (model.Job, bool) { return e.deck.Peek() }

// advance moves the machine to next when the transition graph allows it.
// Callers hold e.mu.
func (e *Engine) advance(next State) bool {
	if !IsTransitionAllowed(e.state, next) {
		return false
	}
	e.state = next
	return true
}

// settle parks the machine back in IDLE after a rejected resolution.
// Callers hold e.mu.
func (e *Engine) settle() {
	if e.state != StateIdle {
		e.advance(StateIdle)
	}
}

// BeginDrag enters DRAGGING. A second BeginDrag mid-gesture restarts it;
// input during a resolution is dropped.
func (e *Engine) BeginDrag() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateDragging {
		e.offset = 0
		return nil
	}
	if !e.advance(StateDragging) {
		return ErrBusy
	}
	e.offset = 0
	return nil
}

// Drag updates the tracked offset and returns the live directional hint.
// Movement never changes state.
func (e *Engine) Drag(offset float64) (Direction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDragging {
		return "", false
	}
	e.offset = offset
	return DragHint(offset, e.threshold)
}

// Release resolves the drag. Below the threshold the card springs back to
// centre and the engine returns to IDLE with a nil Outcome; above it the
// swipe commits in the drag direction.
func (e *Engine) Release(ctx context.Context) (*Outcome, error) {
	e.mu.Lock()
	if e.state == StateResolving {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	offset := e.offset
	e.offset = 0
	if e.state == StateDragging {
		e.advance(StateIdle)
	}
	e.mu.Unlock()

	dir, ok := ReleaseDirection(offset, e.threshold)
	if !ok {
		return nil, nil
	}
	return e.resolve(ctx, dir)
}

// Like short-circuits the drag machine: same resolution path as a
// committed right swipe.
func (e *Engine) Like(ctx context.Context) (*Outcome, error) {
	return e.resolve(ctx, DirectionRight)
}

// Reject short-circuits as a committed left swipe.
func (e *Engine) Reject(ctx context.Context) (*Outcome, error) {
	return e.resolve(ctx, DirectionLeft)
}

// ToggleBookmark saves or unsaves the current card. It consumes neither
// the card nor the quota. Returns the new saved state.
func (e *Engine) ToggleBookmark() (bool, error) {
	e.mu.Lock()
	if e.state == StateResolving {
		e.mu.Unlock()
		return false, ErrBusy
	}
	job, ok := e.deck.Peek()
	e.mu.Unlock()
	if !ok {
		return false, ErrNoCard
	}

	if e.saved.Contains(job.ID) {
		e.saved.Remove(job.ID)
		return false, nil
	}
	e.saved.Add(job)
	return true, nil
}

// resolve consumes the current card in the given direction: increment the
// quota, dispatch the intent fire-and-forget, optimistically record a
// right-swipe in the accepted store, pop, return to IDLE.
func (e *Engine) resolve(ctx context.Context, dir Direction) (*Outcome, error) {
	e.mu.Lock()
	if !IsTransitionAllowed(e.state, StateResolving) {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	job, ok := e.deck.Peek()
	if !ok {
		e.settle()
		e.mu.Unlock()
		return nil, ErrNoCard
	}
	if e.quota.Remaining(ctx, e.userKey) <= 0 {
		e.settle()
		e.mu.Unlock()
		return nil, ErrQuotaExhausted
	}
	e.advance(StateResolving)
	e.mu.Unlock()

	if e.onResolve != nil {
		e.onResolve(job, dir)
	}

	e.quota.Increment(ctx, e.userKey)

	action := model.ActionDislike
	if dir == DirectionRight {
		action = model.ActionLike
	}
	intent := model.SwipeIntent{
		UserKey: e.userKey,
		JobID:   job.ID,
		Action:  action,
		At:      time.Now(),
		Job:     &job,
	}
	go func() {
		dctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := e.dispatcher.Swipe(dctx, intent); err != nil {
			slog.Warn("swipe dispatch failed", "jobId", job.ID, "action", action, "err", err)
		}
	}()

	if dir == DirectionRight {
		e.accepted.Add(job)
	}

	e.deck.Pop()

	e.mu.Lock()
	e.advance(StateIdle)
	e.mu.Unlock()

	return &Outcome{
		Job:       job,
		Direction: dir,
		Action:    action,
		Remaining: e.quota.Remaining(ctx, e.userKey),
	}, nil
}
