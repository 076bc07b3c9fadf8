package entities

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentDecoding(t *testing.T) {
	raw := `[
		{"id": 7, "course_name": "Math", "assignment_name": "HW1", "assignment_pdf_url": "a.pdf", "solution_pdf_url": "s.pdf", "score": 0},
		{"id": "x-2", "course_name": "Bio", "assignment_name": "Lab", "assignment_pdf": "legacy.pdf", "solution_pdf": "  "},
		{"id": null, "course_name": "Art", "assignment_name": "Sketch", "assignment_pdf_url": "c.pdf", "score": null}
	]`

	var assignments []Assignment
	require.NoError(t, json.Unmarshal([]byte(raw), &assignments))
	require.Len(t, assignments, 3)

	assert.Equal(t, AssignmentID("7"), assignments[0].ID)
	assert.True(t, assignments[0].IsSubmitted())
	require.True(t, assignments[0].HasScore())
	assert.Equal(t, 0, *assignments[0].Score)

	assert.Equal(t, AssignmentID("x-2"), assignments[1].ID)
	assert.Equal(t, "legacy.pdf", assignments[1].AssignmentPDFURL)
	assert.False(t, assignments[1].IsSubmitted(), "whitespace-only solution link is not a submission")
	assert.False(t, assignments[1].HasScore())

	assert.Equal(t, AssignmentID(""), assignments[2].ID)
	assert.False(t, assignments[2].HasScore())
}

func TestCountAssignments(t *testing.T) {
	assert.Equal(t, AssignmentStats{}, CountAssignments(nil))

	stats := CountAssignments([]Assignment{
		{SolutionPDFURL: "x"},
		{SolutionPDFURL: ""},
		{SolutionPDFURL: " \t"},
		{SolutionPDFURL: "y"},
	})
	assert.Equal(t, AssignmentStats{Total: 4, Submitted: 2, Pending: 2}, stats)
	assert.Equal(t, stats.Total, stats.Submitted+stats.Pending)
}

func TestNewSessionIDFormat(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewSessionID(now)
	assert.Regexp(t, regexp.MustCompile(`^session_[0-9a-f]{9}_1700000000123$`), id)
	assert.NotEqual(t, id, NewSessionID(now))
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage(" HI ")
	require.NoError(t, err)
	assert.Equal(t, LanguageHindi, lang)

	_, err = ParseLanguage("de")
	assert.Error(t, err)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("Report.Final.PDF"))
	assert.Equal(t, "readme", FileExtension("README"))
	assert.Equal(t, "", FileExtension("trailing."))
}
