package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lms-connector/internal/domain/entities"
	Iservices "lms-connector/internal/domain/interfaces/services"
	"lms-connector/internal/inflight"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/services"
	"lms-connector/internal/render"

	"github.com/sirupsen/logrus"
)

const (
	loadErrorFormat    = "Failed to load assignments. Please check if the backend server is running at: %s"
	modalTitlePrefix   = "Submit Solution for: "
	noFileSelected     = "Please select a PDF file to upload."
	invalidFileType    = "Please select a valid PDF file."
	fileTooLargeFormat = "File size must be less than %dMB."
	submitErrorPrefix  = "Error submitting solution: "
)

var ErrNoOpenModal = errors.New("no assignment selected for submission")

// SubmissionLimits apply to solution uploads only; the chat uploader has its own settings.
type SubmissionLimits struct {
	MaxBytes int64
	MIME     string
}

func DefaultSubmissionLimits() SubmissionLimits {
	return SubmissionLimits{MaxBytes: 16 * 1024 * 1024, MIME: "application/pdf"}
}

type Dependencies struct {
	APIURL    string
	Limits    SubmissionLimits
	Assistant Iservices.IAssistantService
	Tracker   *inflight.Tracker
	Logger    *logger.Logger
}

// Controller owns one client's assignment board.
type Controller struct {
	mu        sync.Mutex
	apiURL    string
	limits    SubmissionLimits
	assistant Iservices.IAssistantService
	tracker   *inflight.Tracker
	logger    *logger.Logger
	view      View

	assignments []entities.Assignment
	modal       *UploadModal
}

func NewController(deps Dependencies, view View, clientID string) *Controller {
	tracker := deps.Tracker
	if tracker == nil {
		tracker = inflight.NewTracker()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	limits := deps.Limits
	if limits.MaxBytes <= 0 || limits.MIME == "" {
		limits = DefaultSubmissionLimits()
	}

	return &Controller{
		apiURL:    deps.APIURL,
		limits:    limits,
		assistant: deps.Assistant,
		tracker:   tracker,
		logger:    log.With(logrus.Fields{"client_id": clientID, "controller": "board"}),
		view:      view,
	}
}

// LoadAssignments refetches the whole list. It also serves as the retry action of the error view.
func (c *Controller) LoadAssignments(ctx context.Context) error {
	c.view.ShowLoading()

	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotAssignments)
	assignments, err := c.assistant.ListAssignments(callCtx)
	if c.tracker.Finish(ticket) {
		c.logger.Debug("Assignment list arrived after a newer request", logrus.Fields{"request_id": ticket.ID})
	}

	if err != nil {
		c.logger.Error(fmt.Sprintf("Error loading assignments: %v", err))
		c.view.ShowError(fmt.Sprintf(loadErrorFormat, c.apiURL))
		return err
	}

	c.mu.Lock()
	c.assignments = assignments
	c.mu.Unlock()

	stats := entities.CountAssignments(assignments)
	if stats.Total == 0 {
		c.view.ShowEmpty()
	} else {
		c.view.ShowTable(BuildRows(assignments))
	}
	c.view.SetStats(stats)

	c.logger.Info("Assignments loaded", logrus.Fields{"total": stats.Total, "submitted": stats.Submitted, "pending": stats.Pending})
	return nil
}

func (c *Controller) Assignments() []entities.Assignment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entities.Assignment(nil), c.assignments...)
}

// OpenModal returns the upload modal currently shown, or nil.
func (c *Controller) OpenModal() *UploadModal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == nil {
		return nil
	}
	modal := *c.modal
	return &modal
}

func (c *Controller) Limits() SubmissionLimits {
	return c.limits
}

// OpenUploadModal targets the modal at one of the loaded assignments.
func (c *Controller) OpenUploadModal(id entities.AssignmentID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, assignment := range c.assignments {
		if assignment.ID != id {
			continue
		}
		modal := UploadModal{
			AssignmentID: assignment.ID,
			Title:        modalTitlePrefix + assignment.AssignmentName,
			Focus:        FirstFocusable,
		}
		c.modal = &modal
		c.view.ShowFileError("")
		c.view.OpenUploadModal(modal)
		return nil
	}
	return fmt.Errorf("assignment %q is not on the board", id)
}

// CancelUpload is the modal's cancel button: only the upload modal closes.
func (c *Controller) CancelUpload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeUploadModal()
}

// DismissModals handles the close glyph and backdrop clicks, which close both modals.
func (c *Controller) DismissModals() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeUploadModal()
	c.view.CloseSuccessModal()
}

func (c *Controller) closeUploadModal() {
	c.modal = nil
	c.view.ShowFileError("")
	c.view.CloseUploadModal()
}

// ValidateSolutionFile checks type then size, showing the inline error (or clearing it).
func (c *Controller) ValidateSolutionFile(file entities.UploadFile) error {
	var message string
	switch {
	case file.ContentType != c.limits.MIME:
		message = invalidFileType
	case file.Size > c.limits.MaxBytes:
		message = fmt.Sprintf(fileTooLargeFormat, c.limits.MaxBytes/(1024*1024))
	}

	c.view.ShowFileError(message)
	if message != "" {
		return &services.ValidationError{Message: message}
	}
	return nil
}

// SubmitSolution uploads the file for the assignment of the open modal. file is nil when
// nothing was selected. Validation failures send nothing and keep the modal open.
func (c *Controller) SubmitSolution(ctx context.Context, file *entities.UploadFile) error {
	c.mu.Lock()
	modal := c.modal
	c.mu.Unlock()
	if modal == nil {
		c.view.SetSubmitting(false)
		return ErrNoOpenModal
	}

	if file == nil {
		c.view.Alert(noFileSelected)
		return &services.ValidationError{Message: noFileSelected}
	}
	if err := c.ValidateSolutionFile(*file); err != nil {
		c.logger.Info(fmt.Sprintf("Rejected solution %q for assignment '%s': %s", file.Name, modal.AssignmentID, err.Error()))
		return err
	}

	c.view.SetSubmitting(true)
	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotSubmit)
	result, err := c.assistant.SubmitSolution(callCtx, modal.AssignmentID, *file)
	c.view.SetSubmitting(false)
	if c.tracker.Finish(ticket) {
		c.logger.Warn("Submission finished after a newer submission started", logrus.Fields{"request_id": ticket.ID})
	}

	if err != nil {
		c.logger.Error(fmt.Sprintf("Error submitting solution for assignment '%s': %v", modal.AssignmentID, err))
		c.view.Alert(submitErrorPrefix + submitErrorText(err))
		return err
	}

	c.mu.Lock()
	c.closeUploadModal()
	c.view.OpenSuccessModal(Success{
		Score:    render.ScoreText(result.Score),
		Feedback: render.FormatFeedback(result.Feedback),
	})
	c.mu.Unlock()

	c.logger.Info(fmt.Sprintf("Solution submitted for assignment '%s'", modal.AssignmentID))

	if err := c.LoadAssignments(ctx); err != nil {
		c.logger.Warn(fmt.Sprintf("Refresh after submission failed: %v", err))
	}
	return nil
}

func submitErrorText(err error) string {
	var statusErr *services.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.WithBody()
	}
	return err.Error()
}
