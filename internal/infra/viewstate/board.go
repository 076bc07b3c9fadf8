package viewstate

import (
	"sync"

	"lms-connector/internal/controllers/board"
	"lms-connector/internal/domain/entities"
)

type BoardMode string

const (
	BoardLoading BoardMode = "loading"
	BoardEmpty   BoardMode = "empty"
	BoardError   BoardMode = "error"
	BoardTable   BoardMode = "table"
)

type BoardSnapshot struct {
	Version      uint64                   `json:"version"`
	Mode         BoardMode                `json:"mode"`
	ErrorMessage string                   `json:"error_message,omitempty"`
	Rows         []board.Row              `json:"rows"`
	Stats        entities.AssignmentStats `json:"stats"`
	UploadModal  *board.UploadModal       `json:"upload_modal,omitempty"`
	SuccessModal *board.Success           `json:"success_modal,omitempty"`
	FileError    string                   `json:"file_error,omitempty"`
	Submitting   bool                     `json:"submitting"`
	ScrollLocked bool                     `json:"scroll_locked"`
	Alerts       []string                 `json:"alerts,omitempty"`
}

// BoardState implements board.View.
type BoardState struct {
	mu       sync.Mutex
	snapshot BoardSnapshot
}

func NewBoardState() *BoardState {
	return &BoardState{snapshot: BoardSnapshot{Mode: BoardLoading, Rows: []board.Row{}}}
}

func (s *BoardState) ShowLoading() {
	s.update(func(b *BoardSnapshot) { b.Mode, b.ErrorMessage = BoardLoading, "" })
}

func (s *BoardState) ShowEmpty() {
	s.update(func(b *BoardSnapshot) { b.Mode, b.Rows = BoardEmpty, []board.Row{} })
}

func (s *BoardState) ShowError(message string) {
	s.update(func(b *BoardSnapshot) { b.Mode, b.ErrorMessage = BoardError, message })
}

func (s *BoardState) ShowTable(rows []board.Row) {
	s.update(func(b *BoardSnapshot) { b.Mode, b.Rows = BoardTable, rows })
}

func (s *BoardState) SetStats(stats entities.AssignmentStats) {
	s.update(func(b *BoardSnapshot) { b.Stats = stats })
}

func (s *BoardState) OpenUploadModal(modal board.UploadModal) {
	s.update(func(b *BoardSnapshot) { b.UploadModal = &modal })
}

// CloseUploadModal also resets the form state and the progress indicator.
func (s *BoardState) CloseUploadModal() {
	s.update(func(b *BoardSnapshot) {
		b.UploadModal = nil
		b.FileError = ""
		b.Submitting = false
	})
}

func (s *BoardState) OpenSuccessModal(success board.Success) {
	s.update(func(b *BoardSnapshot) { b.SuccessModal = &success })
}

func (s *BoardState) CloseSuccessModal() {
	s.update(func(b *BoardSnapshot) { b.SuccessModal = nil })
}

func (s *BoardState) ShowFileError(message string) {
	s.update(func(b *BoardSnapshot) { b.FileError = message })
}

func (s *BoardState) SetSubmitting(busy bool) {
	s.update(func(b *BoardSnapshot) { b.Submitting = busy })
}

func (s *BoardState) Alert(message string) {
	s.update(func(b *BoardSnapshot) { b.Alerts = append(b.Alerts, message) })
}

func (s *BoardState) Snapshot() BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySnapshot()
}

// TakeSnapshot returns the snapshot and hands pending alerts over to the caller.
func (s *BoardState) TakeSnapshot() BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.copySnapshot()
	s.snapshot.Alerts = nil
	return snapshot
}

func (s *BoardState) copySnapshot() BoardSnapshot {
	snapshot := s.snapshot
	snapshot.Rows = append([]board.Row{}, s.snapshot.Rows...)
	snapshot.Alerts = append([]string(nil), s.snapshot.Alerts...)
	if s.snapshot.UploadModal != nil {
		modal := *s.snapshot.UploadModal
		snapshot.UploadModal = &modal
	}
	if s.snapshot.SuccessModal != nil {
		success := *s.snapshot.SuccessModal
		snapshot.SuccessModal = &success
	}
	return snapshot
}

func (s *BoardState) update(change func(b *BoardSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change(&s.snapshot)
	s.snapshot.ScrollLocked = s.snapshot.UploadModal != nil || s.snapshot.SuccessModal != nil
	s.snapshot.Version++
}
