// Package swipe implements the gesture-driven card resolution engine.
//
// Card slot state graph:
//
//	IDLE ──► DRAGGING ──► RESOLVING ──► IDLE (card consumed)
//	  │          │
//	  │          └───────► IDLE (spring back / quota exhausted)
//	  └──────────────────► RESOLVING (button tap short-circuit)
//
// At most one resolution is ever in flight; input arriving while RESOLVING
// is dropped, not queued.
package swipe

import (
	"math"
)

// State of the single current-card slot.
type State string

const (
	StateIdle      State = "IDLE"
	StateDragging  State = "DRAGGING"
	StateResolving State = "RESOLVING"
)

// Direction of a swipe. Right accepts, left rejects.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// DefaultThreshold is the horizontal drag distance, in points, that
// commits a swipe on release.
const DefaultThreshold = 100

// hintRatio is the fraction of the threshold at which the directional
// overlay hint appears during a drag.
const hintRatio = 0.6

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateIdle:      {StateDragging, StateResolving},
	StateDragging:  {StateIdle, StateResolving},
	StateResolving: {StateIdle},
}

// IsTransitionAllowed reports whether moving from → to is permitted by the
// state machine. The engine consults it for every state change.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// DragHint classifies a live drag offset for overlay hinting. The hint
// appears only once |offset| exceeds hintRatio of the threshold.
func DragHint(offset, threshold float64) (Direction, bool) {
	if math.Abs(offset) <= hintRatio*threshold {
		return "", false
	}
	if offset > 0 {
		return DirectionRight, true
	}
	return DirectionLeft, true
}

// ReleaseDirection decides whether releasing at offset commits a swipe.
// Exactly at the threshold the card springs back.
func ReleaseDirection(offset, threshold float64) (Direction, bool) {
	switch {
	case offset > threshold:
		return DirectionRight, true
	case offset < -threshold:
		return DirectionLeft, true
	default:
		return "", false
	}
}
