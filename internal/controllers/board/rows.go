package board

import (
	"fmt"

	"lms-connector/internal/domain/entities"
	"lms-connector/internal/render"
)

const (
	StatusSubmitted = "Submitted"
	StatusPending   = "Pending"
	NoScore         = "--"
)

// BuildRows renders assignments in backend order.
func BuildRows(assignments []entities.Assignment) []Row {
	rows := make([]Row, 0, len(assignments))
	for _, assignment := range assignments {
		row := Row{
			ID:             assignment.ID,
			CourseName:     assignment.CourseName,
			AssignmentName: assignment.AssignmentName,
			AssignmentURL:  render.DriveViewerURL(assignment.AssignmentPDFURL),
			Status:         StatusPending,
			Score:          NoScore,
			Action:         Action{Kind: ActionSubmitSolution, Label: "📤 Submit Solution"},
		}
		if assignment.HasScore() {
			row.Score = fmt.Sprintf("%d/100", *assignment.Score)
		}
		if assignment.IsSubmitted() {
			row.Submitted = true
			row.Status = StatusSubmitted
			row.Action = Action{
				Kind:  ActionViewSolution,
				Label: "👁️ View Solution",
				URL:   render.DriveViewerURL(assignment.SolutionPDFURL),
			}
		}
		rows = append(rows, row)
	}
	return rows
}
