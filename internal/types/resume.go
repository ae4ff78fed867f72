// Package types provides type definitions for structured data used throughout the resume generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// Resume is the structured resume record returned by the content-generation API.
// Contact fields are empty until the renderer injects synthetic contact info.
type Resume struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`

	Summary        string       `json:"summary"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Certifications []string     `json:"certifications"`
}

// Experience represents one job entry on a generated resume
type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Bullets   []string `json:"bullets"`
}

// Education represents a degree entry
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

// UnmarshalJSON accepts year and gpa as strings or numbers; models emit both.
func (e *Education) UnmarshalJSON(data []byte) error {
	var raw struct {
		Degree      string          `json:"degree"`
		Institution string          `json:"institution"`
		Year        json.RawMessage `json:"year"`
		GPA         json.RawMessage `json:"gpa"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	year, err := scalarString(raw.Year)
	if err != nil {
		return fmt.Errorf("education year: %w", err)
	}
	gpa, err := scalarString(raw.GPA)
	if err != nil {
		return fmt.Errorf("education gpa: %w", err)
	}

	*e = Education{Degree: raw.Degree, Institution: raw.Institution, Year: year, GPA: gpa}
	return nil
}

// scalarString renders a JSON string, number or null as plain text.
func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

// Contact holds synthetic contact details injected before rendering
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// ApplyContact copies contact details onto the resume.
func (r *Resume) ApplyContact(c Contact) {
	r.Name = c.Name
	r.Email = c.Email
	r.Phone = c.Phone
	r.Location = c.Location
}

// TopSkills returns at most n skills in their original order.
func (r *Resume) TopSkills(n int) []string {
	if n < 0 || len(r.Skills) <= n {
		return r.Skills
	}
	return r.Skills[:n]
}
