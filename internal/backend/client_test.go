package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobswipe/seeker-client/internal/backend"
	"jobswipe/seeker-client/internal/model"
)

func TestRecommendations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend/u1" {
			t.Errorf("path = %q, want /recommend/u1", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "20" {
			t.Errorf("limit = %q, want 20", q.Get("limit"))
		}
		if q.Get("location") != "Berlin" {
			t.Errorf("location = %q, want Berlin", q.Get("location"))
		}
		_, _ = w.Write([]byte(`[
			{"job":{"id":"j1","title":"Go Developer","company":"Acme"},"match_score":0.87},
			{"id":"j2","title":"Backend Engineer","company_name":"Beta","match_score":92}
		]`))
	}))
	defer server.Close()

	c := backend.New(server.URL)
	jobs, err := c.Recommendations(context.Background(), "u1", 20, "Berlin")
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != "j1" || jobs[0].MatchPercentage != 87 {
		t.Errorf("jobs[0] = %s/%d, want j1/87", jobs[0].ID, jobs[0].MatchPercentage)
	}
	if jobs[1].Company != "Beta" || jobs[1].MatchPercentage != 92 {
		t.Errorf("jobs[1] = %s/%d, want Beta/92", jobs[1].Company, jobs[1].MatchPercentage)
	}
}

func TestRecommendations_OmitsEmptyLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("location") {
			t.Errorf("location param sent for empty filter: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := backend.New(server.URL)
	if _, err := c.Recommendations(context.Background(), "u1", 20, ""); err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
}

func TestSwipe_PostsIntentBody(t *testing.T) {
	var got struct {
		UserID     string          `json:"user_id"`
		JobID      string          `json:"job_id"`
		Action     string          `json:"action"`
		JobPayload json.RawMessage `json:"job_payload"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recommend/swipe" {
			t.Errorf("%s %s, want POST /recommend/swipe", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	job := model.Job{ID: "j1", Title: "Go Developer"}
	c := backend.New(server.URL)
	err := c.Swipe(context.Background(), model.SwipeIntent{
		UserKey: "u1", JobID: "j1", Action: model.ActionLike, Job: &job,
	})
	if err != nil {
		t.Fatalf("Swipe: %v", err)
	}
	if got.UserID != "u1" || got.JobID != "j1" || got.Action != "like" {
		t.Errorf("body = %+v", got)
	}
	if len(got.JobPayload) == 0 {
		t.Error("job_payload missing from swipe body")
	}
}

func TestSwipe_WithoutPayloadOmitsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if _, ok := body["job_payload"]; ok {
			t.Error("job_payload sent for a payload-less intent")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := backend.New(server.URL)
	err := c.Swipe(context.Background(), model.SwipeIntent{UserKey: "u1", JobID: "j1", Action: model.ActionDislike})
	if err != nil {
		t.Fatalf("Swipe: %v", err)
	}
}

func TestRemoveSaved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend/saved/remove" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["user_id"] != "u1" || body["job_id"] != "j1" {
			t.Errorf("body = %v", body)
		}
	}))
	defer server.Close()

	c := backend.New(server.URL)
	if err := c.RemoveSaved(context.Background(), "u1", "j1"); err != nil {
		t.Fatalf("RemoveSaved: %v", err)
	}
}

func TestCreateUser_FillsDefaults(t *testing.T) {
	var got backend.CreateUserRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommend/create-user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer server.Close()

	c := backend.New(server.URL)
	err := c.CreateUser(context.Background(), backend.CreateUserRequest{
		ClerkID: "u1", Email: "u1@example.com", FirstName: "Sam", LastName: "Lee",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got.Role != "job_seeker" {
		t.Errorf("role = %q, want job_seeker", got.Role)
	}
	if got.Skills == nil {
		t.Error("skills not defaulted to an empty list")
	}
}

func TestJobList_NonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "user not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := backend.New(server.URL)
	if _, err := c.SavedJobs(context.Background(), "u1"); err == nil {
		t.Fatal("want error for a 404 response")
	}
}
