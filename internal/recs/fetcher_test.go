package recs

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobswipe/seeker-client/internal/model"
)

type stubSource struct {
	calls int
	jobs  []model.Job
	err   error
}

func (s *stubSource) Recommendations(ctx context.Context, userKey string, limit int, location string) ([]model.Job, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs, nil
}

func TestGetRecommendations_CachesWhileFresh(t *testing.T) {
	src := &stubSource{jobs: []model.Job{{ID: "j1"}, {ID: "j2"}}}
	f := New(src)

	for i := 0; i < 3; i++ {
		jobs, err := f.GetRecommendations(context.Background(), "u1", 20, "Berlin")
		if err != nil {
			t.Fatalf("GetRecommendations: %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("got %d jobs, want 2", len(jobs))
		}
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
}

func TestGetRecommendations_RefetchesAfterTTL(t *testing.T) {
	src := &stubSource{jobs: []model.Job{{ID: "j1"}}}
	f := New(src)

	clock := time.Now()
	f.now = func() time.Time { return clock }

	if _, err := f.GetRecommendations(context.Background(), "u1", 20, ""); err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	clock = clock.Add(cacheTTL + time.Second)
	if _, err := f.GetRecommendations(context.Background(), "u1", 20, ""); err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("source called %d times, want 2", src.calls)
	}
}

func TestGetRecommendations_ErrorsAreNotCached(t *testing.T) {
	src := &stubSource{err: errors.New("backend down")}
	f := New(src)

	if _, err := f.GetRecommendations(context.Background(), "u1", 20, ""); err == nil {
		t.Fatal("want error from failing source")
	}

	src.err = nil
	src.jobs = []model.Job{{ID: "j1"}}
	jobs, err := f.GetRecommendations(context.Background(), "u1", 20, "")
	if err != nil {
		t.Fatalf("GetRecommendations after recovery: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	if src.calls != 2 {
		t.Errorf("source called %d times, want 2", src.calls)
	}
}

func TestGetRecommendations_KeyIsolation(t *testing.T) {
	src := &stubSource{jobs: []model.Job{{ID: "j1"}}}
	f := New(src)

	tuples := []struct {
		user     string
		limit    int
		location string
	}{
		{"u1", 20, "Berlin"},
		{"u1", 20, "Austin"},
		{"u1", 10, "Berlin"},
		{"u2", 20, "Berlin"},
	}
	for _, tp := range tuples {
		if _, err := f.GetRecommendations(context.Background(), tp.user, tp.limit, tp.location); err != nil {
			t.Fatalf("GetRecommendations(%v): %v", tp, err)
		}
	}
	if src.calls != len(tuples) {
		t.Errorf("source called %d times, want %d", src.calls, len(tuples))
	}
}

func TestGetRecommendations_ReturnsCopies(t *testing.T) {
	src := &stubSource{jobs: []model.Job{{ID: "j1", Title: "Go Developer"}}}
	f := New(src)

	first, err := f.GetRecommendations(context.Background(), "u1", 20, "")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	first[0].Title = "mutated"

	second, err := f.GetRecommendations(context.Background(), "u1", 20, "")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if second[0].Title != "Go Developer" {
		t.Errorf("cached entry mutated through caller slice: %q", second[0].Title)
	}
}

func TestGetRecommendations_CopiesSliceFields(t *testing.T) {
	src := &stubSource{jobs: []model.Job{{ID: "j1", Tags: []string{"go", "remote"}}}}
	f := New(src)

	first, err := f.GetRecommendations(context.Background(), "u1", 20, "")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	first[0].Tags[0] = "mutated"

	second, err := f.GetRecommendations(context.Background(), "u1", 20, "")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if second[0].Tags[0] != "go" {
		t.Errorf("cached entry mutated through caller's tag slice: %q", second[0].Tags[0])
	}
}
