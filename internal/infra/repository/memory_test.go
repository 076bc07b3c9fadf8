package repository

import (
	"context"
	"testing"

	"lms-connector/internal/domain/entities"
	"lms-connector/internal/domain/interfaces/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[entities.LanguagePreference]()

	_, err := repo.FindByKey(ctx, "prefs", "client-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Upsert(ctx, "prefs", "client-1", entities.LanguagePreference{ClientID: "client-1", Language: entities.LanguageFrench})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "prefs", "client-1", entities.LanguagePreference{ClientID: "client-1", Language: entities.LanguageSpanish})
	require.NoError(t, err)

	pref, err := repo.FindByKey(ctx, "prefs", "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageSpanish, pref.Language)

	require.NoError(t, repo.Delete(ctx, "prefs", "client-1"))
	_, err = repo.FindByKey(ctx, "prefs", "client-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "LanguagePreferences:abc", redisKey("LanguagePreferences", "abc"))
}
