package chat

import (
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/i18n"
)

// View is everything the chat page exposes to the controller. Implementations must be safe for
// concurrent use; the controller calls them from request goroutines.
type View interface {
	AppendMessage(message entities.Message)
	ClearTranscript()
	ClearInput()
	SetTyping(visible bool)
	SetCopy(copy i18n.Strings)
	SetLanguageSelector(language entities.Language)
	Alert(message string)
}
