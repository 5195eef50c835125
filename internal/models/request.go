// Package models - API request types and input validation.
//
// Validation Philosophy:
// - Fail fast with clear, field-naming error messages for invalid input
// - Normalize input data for consistent processing (trimmed strings, lowercased email)
// - Sanitization happens before anything reaches an email body or the datastore
// - Validation errors map to HTTP 400 with the offending field identified
package models

import (
	"strings"

	"portfolio/internal/sanitize"
)

// Contact field length bounds. Message gets a generous cap; the short
// free-text fields share the name cap.
const (
	maxNameLength    = 100
	maxMessageLength = 5000
)

// ContactRequest represents a contact-form submission to relay by email.
// Name, Email, and Message are required; the rest are optional context the
// form collects for project inquiries.
type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Website  string `json:"website,omitempty"`
	Timeline string `json:"timeline,omitempty"`
	Budget   string `json:"budget,omitempty"`
}

// Sanitize validates and normalizes the request in place. It returns a map of
// field name to problem description; an empty map means the request is clean.
// Optional fields that fail sanitization are rejected too (a malformed website
// URL is more likely abuse than a typo worth forwarding).
func (r *ContactRequest) Sanitize() map[string]string {
	problems := make(map[string]string)

	if name, ok := sanitize.String(r.Name, maxNameLength); ok {
		r.Name = name
	} else {
		problems["name"] = "must be 1-100 characters"
	}

	if email, ok := sanitize.Email(r.Email); ok {
		r.Email = email
	} else {
		problems["email"] = "must be a valid email address"
	}

	if msg, ok := sanitize.String(r.Message, maxMessageLength); ok {
		r.Message = msg
	} else {
		problems["message"] = "must be 1-5000 characters"
	}

	if r.Website != "" {
		if u, ok := sanitize.URL(r.Website); ok {
			r.Website = u
		} else {
			problems["website"] = "must be a valid http or https URL"
		}
	}

	if r.Timeline != "" {
		if tl, ok := sanitize.String(r.Timeline, maxNameLength); ok {
			r.Timeline = tl
		} else {
			problems["timeline"] = "must be 1-100 characters"
		}
	}

	if r.Budget != "" {
		if b, ok := sanitize.String(r.Budget, maxNameLength); ok {
			r.Budget = b
		} else {
			problems["budget"] = "must be 1-100 characters"
		}
	}

	return problems
}

// ScoreSubmission represents a leaderboard score submission.
type ScoreSubmission struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Sanitize validates and normalizes the submission in place, returning
// field-keyed problems as ContactRequest.Sanitize does.
func (s *ScoreSubmission) Sanitize() map[string]string {
	problems := make(map[string]string)

	if username, ok := sanitize.String(s.Username, MaxUsernameLength); ok {
		s.Username = username
	} else {
		problems["username"] = "must be 1-20 characters"
	}

	if s.Score < MinScore || s.Score > MaxScore {
		problems["score"] = "must be between 0 and 100000"
	}

	return problems
}

// ValidSlug reports whether a likes slug is acceptable: 1-100 characters of
// lowercase letters, digits, and interior hyphens. Slugs come straight from
// the URL path, so anything outside this set is rejected.
func ValidSlug(slug string) bool {
	if slug == "" || len(slug) > 100 {
		return false
	}
	for _, c := range slug {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return !strings.HasPrefix(slug, "-") && !strings.HasSuffix(slug, "-")
}
