// Package model defines shared data structures for the seeker client.
package model

import (
	"fmt"
	"time"
)

// Job is a single posting as surfaced to the seeker. The backend returns
// jobs in several heterogeneous shapes; backend.MapJob coalesces them into
// this canonical form. A Job is read-only once presented — cache stores
// copy it, never mutate it.
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Salary          string   `json:"salary"`
	MatchPercentage int      `json:"matchPercentage"`
	Type            string   `json:"type"`
	Experience      string   `json:"experience"`
	CompanySize     string   `json:"companySize"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Benefits        []string `json:"benefits"`
	Tags            []string `json:"tags"`
	PostedTime      string   `json:"postedTime"`
}

// SwipeAction values mirror the actions accepted by POST /recommend/swipe.
// The swipe engine itself only emits like, dislike and save.
type SwipeAction string

const (
	ActionLike      SwipeAction = "like"
	ActionDislike   SwipeAction = "dislike"
	ActionSave      SwipeAction = "save"
	ActionApply     SwipeAction = "apply"
	ActionSuperLike SwipeAction = "super_like"
)

// ParseAction converts a raw string to a SwipeAction, returning an error
// for unknown values.
func ParseAction(s string) (SwipeAction, error) {
	a := SwipeAction(s)
	switch a {
	case ActionLike, ActionDislike, ActionSave, ActionApply, ActionSuperLike:
		return a, nil
	}
	return "", fmt.Errorf("unknown swipe action %q", s)
}

// SwipeIntent is a resolved user decision on a displayed card. It is
// consumed once by network dispatch and never persisted locally.
type SwipeIntent struct {
	UserKey string
	JobID   string
	Action  SwipeAction
	At      time.Time
	Job     *Job // optional payload forwarded to the backend
}
