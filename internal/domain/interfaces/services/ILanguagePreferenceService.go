package Iservices

import (
	"context"

	"lms-connector/internal/domain/entities"
)

// ILanguagePreferenceService persists the chat language of a client between page loads.
type ILanguagePreferenceService interface {
	Load(ctx context.Context, clientID string) (entities.Language, error)
	Save(ctx context.Context, clientID string, language entities.Language) error
}
