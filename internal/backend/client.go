// Package backend is the REST client for the recommendation service. All
// durable job state lives on the backend; this client never caches (the
// short-lived response cache is recs.Fetcher's).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobswipe/seeker-client/internal/model"
)

const httpTimeout = 15 * time.Second

// Client talks to the recommendation backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a Client with a shared HTTP client. A trailing slash on
// baseURL is dropped.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Recommendations fetches a ranked page of candidates for the user,
// normalising each heterogeneous payload into a model.Job.
//
// GET /recommend/{userId}?limit=&location=
func (c *Client) Recommendations(ctx context.Context, userKey string, limit int, location string) ([]model.Job, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if location != "" {
		params.Set("location", location)
	}
	endpoint := fmt.Sprintf("%s/recommend/%s?%s", c.baseURL, url.PathEscape(userKey), params.Encode())
	return c.jobList(ctx, endpoint)
}

// swipeRequest mirrors the POST /recommend/swipe body.
type swipeRequest struct {
	UserID     string     `json:"user_id"`
	JobID      string     `json:"job_id"`
	Action     string     `json:"action"`
	JobPayload *model.Job `json:"job_payload,omitempty"`
}

// Swipe dispatches a resolved intent. Callers treat it as fire-and-forget;
// a failure is logged, never retried.
func (c *Client) Swipe(ctx context.Context, intent model.SwipeIntent) error {
	return c.post(ctx, c.baseURL+"/recommend/swipe", swipeRequest{
		UserID:     intent.UserKey,
		JobID:      intent.JobID,
		Action:     string(intent.Action),
		JobPayload: intent.Job,
	})
}

// removeRequest mirrors the saved/liked removal bodies.
type removeRequest struct {
	UserID string `json:"user_id"`
	JobID  string `json:"job_id"`
}

// SavedJobs returns the authoritative bookmark list for the user.
func (c *Client) SavedJobs(ctx context.Context, userKey string) ([]model.Job, error) {
	return c.jobList(ctx, fmt.Sprintf("%s/recommend/saved/%s", c.baseURL, url.PathEscape(userKey)))
}

// RemoveSaved removes one job from the user's bookmarks.
func (c *Client) RemoveSaved(ctx context.Context, userKey, jobID string) error {
	return c.post(ctx, c.baseURL+"/recommend/saved/remove", removeRequest{UserID: userKey, JobID: jobID})
}

// LikedJobs returns the authoritative liked (accepted) list for the user.
func (c *Client) LikedJobs(ctx context.Context, userKey string) ([]model.Job, error) {
	return c.jobList(ctx, fmt.Sprintf("%s/recommend/liked/%s", c.baseURL, url.PathEscape(userKey)))
}

// RemoveLiked removes one job from the user's liked list.
func (c *Client) RemoveLiked(ctx context.Context, userKey, jobID string) error {
	return c.post(ctx, c.baseURL+"/recommend/liked/remove", removeRequest{UserID: userKey, JobID: jobID})
}

// CreateUserRequest mirrors POST /recommend/create-user. Session bootstrap
// owns the identity; the client only needs the resulting user key.
type CreateUserRequest struct {
	ClerkID     string   `json:"clerk_id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        string   `json:"role"`
	Skills      []string `json:"skills"`
	Location    string   `json:"location,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
}

// CreateUser registers the user with the backend. The backend treats an
// existing user as success, so this is safe to call on every start.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) error {
	if req.Role == "" {
		req.Role = "job_seeker"
	}
	if req.Skills == nil {
		req.Skills = []string{}
	}
	return c.post(ctx, c.baseURL+"/recommend/create-user", req)
}

// jobList fetches an endpoint returning an array of job payloads, in
// whichever of the known shapes the backend picked.
func (c *Client) jobList(ctx context.Context, endpoint string) ([]model.Job, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	jobs := make([]model.Job, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, MapJob(item))
	}
	return jobs, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
