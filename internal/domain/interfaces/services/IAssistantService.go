package Iservices

import (
	"context"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
)

// IAssistantService is the HTTP contract with the external assistant/grading backend.
type IAssistantService interface {
	BaseURL() string
	Chat(ctx context.Context, request dto.ChatRequest) (dto.ChatResponse, error)
	ChatWithFile(ctx context.Context, file entities.UploadFile, sessionID string, language entities.Language) (dto.ChatResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
	SetLanguage(ctx context.Context, sessionID string, language entities.Language) error
	ListAssignments(ctx context.Context) ([]entities.Assignment, error)
	SubmitSolution(ctx context.Context, assignmentID entities.AssignmentID, file entities.UploadFile) (dto.SubmissionResult, error)
}
