package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"

	DefaultLanguage = LanguageEnglish
)

var SupportedLanguages = []Language{LanguageEnglish, LanguageHindi, LanguageSpanish, LanguageFrench}

func (l Language) IsSupported() bool {
	for _, supported := range SupportedLanguages {
		if l == supported {
			return true
		}
	}
	return false
}

// ParseLanguage normalizes a language code, rejecting anything outside SupportedLanguages.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(raw)))
	if !lang.IsSupported() {
		return "", fmt.Errorf("unsupported language %q", raw)
	}
	return lang, nil
}

// Session is the backend-correlated conversation identity of one chat page.
type Session struct {
	ID       string   `json:"session_id"`
	Language Language `json:"language"`
}

// NewSessionID returns "session_<9 random chars>_<unix millis>". Collisions are not checked.
func NewSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%s_%d", random, now.UnixMilli())
}
