package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"jobswipe/seeker-client/internal/model"
)

// Placeholder display values used when a payload field is missing or
// malformed. A record is never rejected whole; each field degrades alone.
const (
	placeholderTitle       = "Job Title Not Available"
	placeholderCompany     = "Unknown Company"
	placeholderType        = "Full-time"
	placeholderExperience  = "Experience not specified"
	placeholderCompanySize = "Company size not specified"
	placeholderLocation    = "Location not specified"
	placeholderSalary      = "Salary not specified"
	placeholderPostedTime  = "Recently posted"
)

// rawJob mirrors every alias the backend has been seen to use for a job
// field. Objects that can also arrive as plain strings (location, salary)
// and numbers that can arrive as strings (scores) stay raw and are decoded
// by the helpers below.
type rawJob struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`

	Title string `json:"title"`

	Company     string `json:"company"`
	CompanyName string `json:"company_name"`
	EmployerID  string `json:"employer_id"`

	Type           string `json:"type"`
	EmploymentType string `json:"employment_type"`

	Experience         string `json:"experience"`
	ExperienceRequired string `json:"experience_required"`
	ExperienceText     string `json:"experience_text"`

	CompanySize      string `json:"companySize"`
	CompanySizeSnake string `json:"company_size"`
	CompanySizeText  string `json:"company_size_text"`

	Location json.RawMessage `json:"location"`
	Salary   json.RawMessage `json:"salary"`

	MatchScore      json.RawMessage `json:"match_score"`
	MatchPercentage json.RawMessage `json:"matchPercentage"`

	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	Tags             []string `json:"tags"`
	SkillsRequired   []string `json:"skills_required"`

	PostedAt   string `json:"posted_at"`
	PostedTime string `json:"postedTime"`
}

// envelope mirrors one element of the recommendation response,
// {job, match_score}. Job-list endpoints return bare job objects instead.
type envelope struct {
	Job        json.RawMessage `json:"job"`
	MatchScore json.RawMessage `json:"match_score"`
}

// MapJob normalises one element of a recommendation or job-list response
// into the canonical Job. Alias precedence is fixed per field, first hit
// wins:
//
//	id:       id → _id
//	title:    title → placeholder
//	company:  company → company_name → employer_id → placeholder
//	type:     type → employment_type → "Full-time"
//	match:    envelope match_score → job match_score → matchPercentage → 0
//	tags:     tags → skills_required
//
// Requirements and responsibilities are merged, in that order. Match
// scores in (0,1] are fractions and scale ×100; values in (1,100] are
// already percentages and pass through untouched.
func MapJob(raw json.RawMessage) model.Job {
	jobRaw := raw
	var envScore json.RawMessage
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Job) > 0 && string(env.Job) != "null" {
		jobRaw = env.Job
		envScore = env.MatchScore
	}

	var rj rawJob
	// Missing or partially malformed jobs degrade to placeholders below.
	_ = json.Unmarshal(jobRaw, &rj)

	job := model.Job{
		ID:          firstNonEmpty(rj.ID, rj.MongoID),
		Title:       firstNonEmpty(rj.Title, placeholderTitle),
		Company:     firstNonEmpty(rj.Company, rj.CompanyName, rj.EmployerID, placeholderCompany),
		Type:        firstNonEmpty(rj.Type, rj.EmploymentType, placeholderType),
		Experience:  firstNonEmpty(rj.Experience, rj.ExperienceRequired, rj.ExperienceText, placeholderExperience),
		CompanySize: firstNonEmpty(rj.CompanySize, rj.CompanySizeSnake, rj.CompanySizeText, placeholderCompanySize),
		Location:    displayLocation(rj.Location),
		Salary:      displaySalary(rj.Salary),
		Description: rj.Description,
		PostedTime:  displayPostedTime(rj.PostedAt, rj.PostedTime, time.Now()),
	}

	job.MatchPercentage = normalizeScore(firstScore(envScore, rj.MatchScore, rj.MatchPercentage))

	job.Requirements = make([]string, 0, len(rj.Requirements)+len(rj.Responsibilities))
	job.Requirements = append(job.Requirements, rj.Requirements...)
	job.Requirements = append(job.Requirements, rj.Responsibilities...)

	job.Benefits = rj.Benefits
	if job.Benefits == nil {
		job.Benefits = []string{}
	}

	job.Tags = rj.Tags
	if len(job.Tags) == 0 {
		job.Tags = rj.SkillsRequired
	}
	if job.Tags == nil {
		job.Tags = []string{}
	}

	return job
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseNumber decodes a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// firstScore returns the first candidate that parses to a non-zero value,
// matching the source-of-truth order of the recommendation payload.
func firstScore(candidates ...json.RawMessage) float64 {
	for _, c := range candidates {
		if v, ok := parseNumber(c); ok && v != 0 {
			return v
		}
	}
	return 0
}

// normalizeScore maps a backend score to an integer percentage without
// double-scaling: fractions in (0,1] scale ×100, values in (1,100] pass
// through, everything else is 0.
func normalizeScore(v float64) int {
	switch {
	case v > 1 && v <= 100:
		return int(math.Round(v))
	case v > 0 && v <= 1:
		return int(math.Round(v * 100))
	default:
		return 0
	}
}

// rawLocation mirrors the structured location shape.
type rawLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Remote  bool   `json:"remote"`
}

// displayLocation renders a location that arrives either as a plain string
// or as {city, state, country, remote}.
func displayLocation(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return placeholderLocation
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return placeholderLocation
		}
		return s
	}

	var loc rawLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return placeholderLocation
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{loc.City, loc.State, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if loc.Remote {
		parts = append(parts, "Remote")
	}
	if len(parts) == 0 {
		return placeholderLocation
	}
	return strings.Join(parts, " / ")
}

// rawSalary mirrors the structured salary shape. Min and max can arrive as
// numbers or numeric strings.
type rawSalary struct {
	Min      json.RawMessage `json:"min"`
	Max      json.RawMessage `json:"max"`
	Currency string          `json:"currency"`
}

// displaySalary renders a salary that arrives either as a display string
// or as {min, max, currency}.
func displaySalary(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return placeholderSalary
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return placeholderSalary
		}
		return s
	}

	var sal rawSalary
	if err := json.Unmarshal(raw, &sal); err != nil {
		return placeholderSalary
	}
	min, minOK := parseNumber(sal.Min)
	max, maxOK := parseNumber(sal.Max)
	cur := sal.Currency
	switch {
	case minOK && maxOK && cur != "":
		return fmt.Sprintf("%s%s - %s%s", cur, formatAmount(min), cur, formatAmount(max))
	case minOK && cur != "":
		return cur + formatAmount(min)
	case cur != "":
		return cur
	default:
		return placeholderSalary
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// postedAtLayouts covers the timestamp shapes the backend emits: RFC 3339,
// Python isoformat without a zone, and a bare date.
var postedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// displayPostedTime renders posted_at as a relative descriptor, falling
// back to a preformatted postedTime, then to the placeholder.
func displayPostedTime(postedAt, postedTime string, now time.Time) string {
	if postedAt != "" {
		for _, layout := range postedAtLayouts {
			t, err := time.Parse(layout, postedAt)
			if err != nil {
				continue
			}
			days := int(now.Sub(t).Hours() / 24)
			switch {
			case days <= 0:
				return "Today"
			case days == 1:
				return "1 day ago"
			default:
				return fmt.Sprintf("%d days ago", days)
			}
		}
	}
	if postedTime != "" {
		return postedTime
	}
	return placeholderPostedTime
}
