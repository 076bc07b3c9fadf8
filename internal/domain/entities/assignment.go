package entities

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AssignmentID accepts both string and numeric ids from the backend.
type AssignmentID string

func (id *AssignmentID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = AssignmentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = AssignmentID(n.String())
	return nil
}

type Assignment struct {
	ID               AssignmentID `json:"id"`
	CourseName       string       `json:"course_name"`
	AssignmentName   string       `json:"assignment_name"`
	AssignmentPDFURL string       `json:"assignment_pdf_url"`
	SolutionPDFURL   string       `json:"solution_pdf_url,omitempty"`
	Score            *int         `json:"score,omitempty"`
}

// UnmarshalJSON also understands the older assignment_pdf / solution_pdf keys.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	type plain Assignment
	var wire struct {
		plain
		LegacyAssignmentPDF string `json:"assignment_pdf"`
		LegacySolutionPDF   string `json:"solution_pdf"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = Assignment(wire.plain)
	if a.AssignmentPDFURL == "" {
		a.AssignmentPDFURL = wire.LegacyAssignmentPDF
	}
	if a.SolutionPDFURL == "" {
		a.SolutionPDFURL = wire.LegacySolutionPDF
	}
	return nil
}

// IsSubmitted reports whether a solution link is present.
func (a Assignment) IsSubmitted() bool {
	return strings.TrimSpace(a.SolutionPDFURL) != ""
}

func (a Assignment) HasScore() bool {
	return a.Score != nil
}

type AssignmentStats struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Pending   int `json:"pending"`
}

func CountAssignments(assignments []Assignment) AssignmentStats {
	stats := AssignmentStats{Total: len(assignments)}
	for _, assignment := range assignments {
		if assignment.IsSubmitted() {
			stats.Submitted++
		} else {
			stats.Pending++
		}
	}
	return stats
}
