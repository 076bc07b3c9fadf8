package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms-connector/internal/domain/entities"
	"lms-connector/internal/domain/interfaces/repository"
	repocontants "lms-connector/internal/domain/interfaces/repository/contants"
	"lms-connector/internal/infra/logger"
)

// LanguagePreferenceService remembers the chat language per client, like browser local storage did.
type LanguagePreferenceService struct {
	Repository repository.Repository[entities.LanguagePreference]
	Logger     *logger.Logger
	now        func() time.Time
}

func NewLanguagePreferenceService(repo repository.Repository[entities.LanguagePreference], logger *logger.Logger) *LanguagePreferenceService {
	return &LanguagePreferenceService{
		Repository: repo,
		Logger:     logger,
		now:        time.Now,
	}
}

// Load returns the stored language, or the default when nothing (or nothing valid) is stored.
func (lps *LanguagePreferenceService) Load(ctx context.Context, clientID string) (entities.Language, error) {
	pref, err := lps.Repository.FindByKey(ctx, repocontants.LANGUAGE_PREFERENCE_COLLECTION, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return entities.DefaultLanguage, nil
	}
	if err != nil {
		lps.Logger.Error(fmt.Sprintf("Failed to load language preference for client '%s': %v", clientID, err))
		return entities.DefaultLanguage, err
	}
	if !pref.Language.IsSupported() {
		lps.Logger.Warn(fmt.Sprintf("Ignoring stored language %q for client '%s'", pref.Language, clientID))
		return entities.DefaultLanguage, nil
	}
	return pref.Language, nil
}

func (lps *LanguagePreferenceService) Save(ctx context.Context, clientID string, language entities.Language) error {
	pref := entities.LanguagePreference{
		ClientID:  clientID,
		Language:  language,
		UpdatedAt: lps.now(),
	}
	if _, err := lps.Repository.Upsert(ctx, repocontants.LANGUAGE_PREFERENCE_COLLECTION, clientID, pref); err != nil {
		lps.Logger.Error(fmt.Sprintf("Failed to save language preference for client '%s': %v", clientID, err))
		return err
	}
	return nil
}
