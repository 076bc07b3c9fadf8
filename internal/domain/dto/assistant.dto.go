package dto

import "lms-connector/internal/domain/entities"

type ChatRequest struct {
	Message   string            `json:"message"`
	SessionID string            `json:"session_id"`
	Language  entities.Language `json:"language"`
}

// ChatResponse carries either an answer or an application-level error.
type ChatResponse struct {
	Answer    string            `json:"answer"`
	SessionID string            `json:"session_id,omitempty"`
	Language  entities.Language `json:"language,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type SetLanguageRequest struct {
	SessionID string            `json:"session_id"`
	Language  entities.Language `json:"language"`
}

type AssignmentsResponse struct {
	Assignments []entities.Assignment `json:"assignments"`
}

type SubmissionResult struct {
	Score    *float64 `json:"score,omitempty"`
	Feedback string   `json:"feedback,omitempty"`
}
