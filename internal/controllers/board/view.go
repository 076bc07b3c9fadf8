package board

import (
	"html/template"

	"lms-connector/internal/domain/entities"
)

// FirstFocusable names the control that receives focus when the upload modal opens.
const FirstFocusable = "solution-file"

type ActionKind string

const (
	ActionViewSolution   ActionKind = "view_solution"
	ActionSubmitSolution ActionKind = "submit_solution"
)

type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	URL   string     `json:"url,omitempty"`
}

// Row is one rendered line of the assignment table.
type Row struct {
	ID             entities.AssignmentID `json:"id"`
	CourseName     string                `json:"course_name"`
	AssignmentName string                `json:"assignment_name"`
	AssignmentURL  string                `json:"assignment_url"`
	Submitted      bool                  `json:"submitted"`
	Status         string                `json:"status"`
	Score          string                `json:"score"`
	Action         Action                `json:"action"`
}

type UploadModal struct {
	AssignmentID entities.AssignmentID `json:"assignment_id"`
	Title        string                `json:"title"`
	Focus        string                `json:"focus"`
}

type Success struct {
	Score    string        `json:"score"`
	Feedback template.HTML `json:"feedback"`
}

// View is the assignment page as seen by the controller. Implementations must be safe for
// concurrent use.
type View interface {
	ShowLoading()
	ShowEmpty()
	ShowError(message string)
	ShowTable(rows []Row)
	SetStats(stats entities.AssignmentStats)

	// OpenUploadModal shows the modal and locks page scroll.
	OpenUploadModal(modal UploadModal)
	// CloseUploadModal hides the modal, resets its form and hides the progress indicator.
	CloseUploadModal()
	OpenSuccessModal(success Success)
	CloseSuccessModal()

	// ShowFileError sets the inline file error below the file input; "" clears it.
	ShowFileError(message string)
	SetSubmitting(busy bool)
	Alert(message string)
}
