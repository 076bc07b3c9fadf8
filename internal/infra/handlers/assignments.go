package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"lms-connector/internal/controllers/board"
	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/infra/logger"

	"github.com/gorilla/mux"
)

type AssignmentHandlers struct {
	Logger  *logger.Logger
	Clients *ClientRegistry
}

func NewAssignmentHandlers(logger *logger.Logger, clients *ClientRegistry) *AssignmentHandlers {
	return &AssignmentHandlers{Logger: logger, Clients: clients}
}

func (th *AssignmentHandlers) State(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	writeJSON(w, http.StatusOK, client.BoardView.TakeSnapshot())
}

// Reload refetches the assignment list in the background. The page's retry button uses it too.
func (th *AssignmentHandlers) Reload(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	th.reload(r.Context(), client)
	writeJSON(w, http.StatusAccepted, client.BoardView.Snapshot())
}

func (th *AssignmentHandlers) reload(ctx context.Context, client *Client) {
	client.BoardView.ShowLoading()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				th.Logger.Error(fmt.Sprintf("Recovered from panic while loading assignments: %v", rec))
			}
		}()
		client.Board.LoadAssignments(context.WithoutCancel(ctx))
	}()
}

// OpenModal opens the upload modal for the assignment named in the path.
//
// HTTP Status Codes:
// - 200 OK: the modal is open; the snapshot carries its title.
// - 404 Not Found: the id is not on the caller's board.
func (th *AssignmentHandlers) OpenModal(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	id := entities.AssignmentID(mux.Vars(r)["id"])

	if err := client.Board.OpenUploadModal(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, client.BoardView.Snapshot())
}

// DismissModal closes modals. source=cancel closes only the upload modal; the close glyph and
// backdrop (any other source) close both.
func (th *AssignmentHandlers) DismissModal(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	if r.URL.Query().Get("source") == "cancel" {
		client.Board.CancelUpload()
	} else {
		client.Board.DismissModals()
	}
	writeJSON(w, http.StatusOK, client.BoardView.Snapshot())
}

// ValidateFile runs the solution checks on a file as soon as it is selected, before any upload.
func (th *AssignmentHandlers) ValidateFile(w http.ResponseWriter, r *http.Request) {
	var selected dto.SelectedFile
	if err := json.NewDecoder(r.Body).Decode(&selected); err != nil {
		writeError(w, http.StatusBadRequest, "Error to process JSON")
		return
	}
	defer r.Body.Close()

	client := th.Clients.Resolve(w, r)
	status := http.StatusOK
	if err := client.Board.ValidateSolutionFile(entities.UploadFile{
		Name:        selected.Name,
		ContentType: selected.ContentType,
		Size:        selected.Size,
	}); err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, client.BoardView.Snapshot())
}

// Submit takes a multipart form with a "solution_file" part for the assignment of the open modal.
//
// HTTP Status Codes:
// - 202 Accepted: the file passed validation and is being graded; poll the state for the result.
// - 409 Conflict: no upload modal is open.
// - 422 Unprocessable Entity: no file, or the file failed the type/size checks. Nothing was sent.
func (th *AssignmentHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	limits := client.Board.Limits()

	if client.Board.OpenModal() == nil {
		writeError(w, http.StatusConflict, board.ErrNoOpenModal.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxBytes+multipartOverhead)
	var upload *entities.UploadFile
	file, header, err := r.FormFile("solution_file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case isTooLarge(err):
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	case err != nil:
		th.Logger.Warn(fmt.Sprintf("Invalid solution upload: %v", err))
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file")
		return
	default:
		defer file.Close()
		solution, err := readUpload(file, header, limits.MaxBytes)
		if err != nil {
			th.Logger.Error(fmt.Sprintf("Failed to read solution file: %v", err))
			writeError(w, http.StatusBadRequest, "Could not read the uploaded file")
			return
		}
		upload = &solution
	}

	if upload == nil || client.Board.ValidateSolutionFile(*upload) != nil {
		// Raises the alert or inline error without contacting the backend.
		client.Board.SubmitSolution(r.Context(), upload)
		writeJSON(w, http.StatusUnprocessableEntity, client.BoardView.TakeSnapshot())
		return
	}

	client.BoardView.SetSubmitting(true)
	ctx := context.WithoutCancel(r.Context())
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				th.Logger.Error(fmt.Sprintf("Recovered from panic while submitting: %v", rec))
			}
		}()
		client.Board.SubmitSolution(ctx, upload)
	}()
	writeJSON(w, http.StatusAccepted, client.BoardView.Snapshot())
}
