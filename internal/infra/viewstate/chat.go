// Package viewstate implements the controller views as snapshots the pages poll.
package viewstate

import (
	"html/template"
	"sync"

	"lms-connector/internal/domain/entities"
	"lms-connector/internal/i18n"
	"lms-connector/internal/render"
)

type ChatMessage struct {
	Sender       entities.Sender `json:"sender"`
	Avatar       string          `json:"avatar"`
	Text         string          `json:"text"`
	HTML         template.HTML   `json:"html"`
	IsFileNotice bool            `json:"is_file_notice"`
}

type ChatSnapshot struct {
	Version      uint64            `json:"version"`
	Messages     []ChatMessage     `json:"messages"`
	Typing       bool              `json:"typing"`
	InputVersion uint64            `json:"input_version"`
	Language     entities.Language `json:"language"`
	Strings      map[string]string `json:"strings"`
	Alerts       []string          `json:"alerts,omitempty"`
}

// ChatState implements chat.View.
type ChatState struct {
	mu           sync.Mutex
	version      uint64
	messages     []ChatMessage
	typing       bool
	inputVersion uint64
	language     entities.Language
	copy         i18n.Strings
	alerts       []string
}

func NewChatState() *ChatState {
	return &ChatState{language: entities.DefaultLanguage}
}

func (s *ChatState) AppendMessage(message entities.Message) {
	s.update(func() {
		s.messages = append(s.messages, ChatMessage{
			Sender:       message.Sender,
			Avatar:       render.Avatar(message.Sender),
			Text:         message.Text,
			HTML:         render.FormatMessage(message),
			IsFileNotice: message.IsFileNotice,
		})
	})
}

func (s *ChatState) ClearTranscript() {
	s.update(func() { s.messages = nil })
}

// ClearInput bumps the input version; the page empties its textarea when it sees a new one.
func (s *ChatState) ClearInput() {
	s.update(func() { s.inputVersion++ })
}

func (s *ChatState) SetTyping(visible bool) {
	s.update(func() { s.typing = visible })
}

func (s *ChatState) SetCopy(text i18n.Strings) {
	s.update(func() { s.copy = text })
}

func (s *ChatState) SetLanguageSelector(language entities.Language) {
	s.update(func() { s.language = language })
}

func (s *ChatState) Alert(message string) {
	s.update(func() { s.alerts = append(s.alerts, message) })
}

func (s *ChatState) Snapshot() ChatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TakeSnapshot returns the snapshot and hands pending alerts over to the caller.
func (s *ChatState) TakeSnapshot() ChatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.snapshot()
	s.alerts = nil
	return snapshot
}

func (s *ChatState) snapshot() ChatSnapshot {
	messages := make([]ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return ChatSnapshot{
		Version:      s.version,
		Messages:     messages,
		Typing:       s.typing,
		InputVersion: s.inputVersion,
		Language:     s.language,
		Strings:      s.copy.Map(),
		Alerts:       append([]string(nil), s.alerts...),
	}
}

func (s *ChatState) update(change func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change()
	s.version++
}
