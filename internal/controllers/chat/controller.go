package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
	Iservices "lms-connector/internal/domain/interfaces/services"
	"lms-connector/internal/i18n"
	"lms-connector/internal/inflight"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/services"

	"github.com/sirupsen/logrus"
)

const (
	corsErrorFormat      = "Connection blocked by CORS policy. Please check if the backend server is running on the correct URL: %s"
	transportErrorFormat = "Cannot connect to the server. Please check if the backend is running at: %s"
	serverErrorPrefix    = "Server error: "
	appErrorPrefix       = "Error: "
	uploadNoticeFormat   = "Uploading file: %s"
	fileTooLargeFormat   = "File size exceeds maximum allowed size of %sMB"
	fileTypeFormat       = "File type not allowed. Allowed types: %s"
)

type Dependencies struct {
	Config      entities.UploadConfig
	Assistant   Iservices.IAssistantService
	Preferences Iservices.ILanguagePreferenceService
	Catalog     *i18n.Catalog
	Tracker     *inflight.Tracker
	Logger      *logger.Logger
}

// Controller owns one client's chat session and transcript.
type Controller struct {
	mu          sync.Mutex
	config      entities.UploadConfig
	assistant   Iservices.IAssistantService
	preferences Iservices.ILanguagePreferenceService
	catalog     *i18n.Catalog
	tracker     *inflight.Tracker
	logger      *logger.Logger
	view        View
	clientID    string
	now         func() time.Time

	session  entities.Session
	initOnce sync.Once
}

func NewController(deps Dependencies, view View, clientID string) *Controller {
	tracker := deps.Tracker
	if tracker == nil {
		tracker = inflight.NewTracker()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = i18n.MustLoad()
	}

	now := time.Now
	return &Controller{
		config:      deps.Config,
		assistant:   deps.Assistant,
		preferences: deps.Preferences,
		catalog:     catalog,
		tracker:     tracker,
		logger:      log.With(logrus.Fields{"client_id": clientID, "controller": "chat"}),
		view:        view,
		clientID:    clientID,
		now:         now,
		session: entities.Session{
			ID:       entities.NewSessionID(now()),
			Language: entities.DefaultLanguage,
		},
	}
}

// Initialize restores the stored language and greets the user. Concurrent callers wait for the
// first call to finish; later calls are no-ops.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() { c.initialize(ctx) })
}

func (c *Controller) initialize(ctx context.Context) {
	language := entities.DefaultLanguage
	if c.preferences != nil {
		stored, err := c.preferences.Load(ctx, c.clientID)
		switch {
		case err != nil:
			c.logger.Warn(fmt.Sprintf("Using default language, preference lookup failed: %v", err))
		case stored.IsSupported():
			language = stored
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Language = language
	c.view.SetLanguageSelector(language)
	c.view.SetCopy(c.catalog.For(language))
	c.view.AppendMessage(entities.BotMessage(c.catalog.For(language).Welcome))
}

func (c *Controller) Session() entities.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) Config() entities.UploadConfig {
	return c.config
}

// PendingMessage is a user message already in the transcript, waiting to be sent.
type PendingMessage struct {
	request dto.ChatRequest
}

// SendMessage posts a user message. Blank text is ignored.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	pending, ok := c.QueueMessage(text)
	if !ok {
		return
	}
	c.Deliver(ctx, pending)
}

// QueueMessage shows the user message and the typing indicator without calling the backend.
// It reports false for blank text.
func (c *Controller) QueueMessage(text string) (PendingMessage, bool) {
	message := strings.TrimSpace(text)
	if message == "" {
		return PendingMessage{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.AppendMessage(entities.UserMessage(message))
	c.view.ClearInput()
	c.view.SetTyping(true)
	return PendingMessage{
		request: dto.ChatRequest{Message: message, SessionID: c.session.ID, Language: c.session.Language},
	}, true
}

// Deliver sends a queued message and renders the reply.
func (c *Controller) Deliver(ctx context.Context, pending PendingMessage) {
	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotChat)
	response, err := c.assistant.Chat(callCtx, pending.request)
	c.finish(ticket)

	c.handleReply(ctx, response, err)
}

// UploadFile validates the file against the upload settings, then posts it to the chat endpoint.
// A rejected file is reported through View.Alert and returned as a *services.ValidationError.
func (c *Controller) UploadFile(ctx context.Context, file entities.UploadFile) error {
	if err := c.CheckUpload(file); err != nil {
		c.logger.Info(fmt.Sprintf("Rejected upload %q: %s", file.Name, err.Error()))
		c.view.Alert(err.Error())
		return err
	}

	c.mu.Lock()
	c.view.AppendMessage(entities.FileNotice(fmt.Sprintf(uploadNoticeFormat, file.Name)))
	c.view.SetTyping(true)
	sessionID, language := c.session.ID, c.session.Language
	c.mu.Unlock()

	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotChat)
	response, err := c.assistant.ChatWithFile(callCtx, file, sessionID, language)
	c.finish(ticket)

	c.handleReply(ctx, response, err)
	return nil
}

// CheckUpload applies the upload settings without side effects.
func (c *Controller) CheckUpload(file entities.UploadFile) error {
	if !c.config.EnableFileUpload {
		return &services.ValidationError{Message: "File upload is disabled"}
	}
	if file.Size > c.config.MaxFileSizeBytes {
		mb := fmt.Sprintf("%g", c.config.MaxFileSizeMB())
		return &services.ValidationError{Message: fmt.Sprintf(fileTooLargeFormat, mb)}
	}
	if !c.config.AllowsExtension(entities.FileExtension(file.Name)) {
		return &services.ValidationError{
			Message: fmt.Sprintf(fileTypeFormat, strings.Join(c.config.AllowedExtensions, ", ")),
		}
	}
	return nil
}

// ResetChat tells the backend to drop the session and always ends with a fresh session and
// a transcript holding only the welcome message, whatever the backend answered.
func (c *Controller) ResetChat(ctx context.Context) {
	c.mu.Lock()
	sessionID := c.session.ID
	c.mu.Unlock()

	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotReset)
	if err := c.assistant.ResetSession(callCtx, sessionID); err != nil {
		c.logger.Error(fmt.Sprintf("Error resetting chat session '%s': %v", sessionID, err))
	}
	c.finish(ticket)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.ID = entities.NewSessionID(c.now())
	c.view.ClearTranscript()
	c.view.AppendMessage(entities.BotMessage(c.catalog.For(c.session.Language).Welcome))
	c.logger.Info("Chat reset", logrus.Fields{"previous_session": sessionID, "session": c.session.ID})
}

// ChangeLanguage switches and persists the language before telling the backend; the UI copy
// follows regardless of the backend outcome. Unsupported codes are rejected.
func (c *Controller) ChangeLanguage(ctx context.Context, code string) error {
	language, err := entities.ParseLanguage(code)
	if err != nil {
		return &services.ValidationError{Message: err.Error()}
	}

	c.mu.Lock()
	if language == c.session.Language {
		c.mu.Unlock()
		return nil
	}
	c.session.Language = language
	sessionID := c.session.ID
	c.view.SetLanguageSelector(language)
	c.mu.Unlock()

	c.persistLanguage(ctx, language)

	ticket, callCtx := c.tracker.Begin(ctx, inflight.SlotLanguage)
	if err := c.assistant.SetLanguage(callCtx, sessionID, language); err != nil {
		c.logger.Error(fmt.Sprintf("Error changing language to '%s': %v", language, err))
	}
	c.finish(ticket)

	c.view.SetCopy(c.catalog.For(language))
	return nil
}

func (c *Controller) handleReply(ctx context.Context, response dto.ChatResponse, err error) {
	c.mu.Lock()
	c.view.SetTyping(false)

	if err != nil {
		c.view.AppendMessage(entities.BotMessage(c.errorText(err)))
		c.mu.Unlock()
		c.logger.Error(fmt.Sprintf("Chat request failed: %v", err))
		return
	}

	if response.Error != "" {
		c.view.AppendMessage(entities.BotMessage(appErrorPrefix + response.Error))
		c.mu.Unlock()
		return
	}

	c.view.AppendMessage(entities.BotMessage(response.Answer))
	if response.SessionID != "" {
		c.session.ID = response.SessionID
	}

	var adopted entities.Language
	if response.Language != "" && response.Language != c.session.Language {
		if response.Language.IsSupported() {
			c.session.Language = response.Language
			c.view.SetLanguageSelector(response.Language)
			adopted = response.Language
		} else {
			c.logger.Warn(fmt.Sprintf("Ignoring unsupported language %q from backend", response.Language))
		}
	}
	c.mu.Unlock()

	if adopted != "" {
		c.persistLanguage(ctx, adopted)
	}
}

// errorText picks the transcript text for a failed exchange. Must be called with c.mu held.
func (c *Controller) errorText(err error) string {
	var transportErr *services.TransportError
	var statusErr *services.StatusError

	switch {
	case errors.As(err, &transportErr) && transportErr.IsCORS():
		return fmt.Sprintf(corsErrorFormat, c.config.APIURL)
	case errors.As(err, &transportErr):
		return fmt.Sprintf(transportErrorFormat, c.config.APIURL)
	case errors.As(err, &statusErr):
		return serverErrorPrefix + statusErr.Error()
	default:
		return c.catalog.For(c.session.Language).GenericError
	}
}

func (c *Controller) persistLanguage(ctx context.Context, language entities.Language) {
	if c.preferences == nil {
		return
	}
	if err := c.preferences.Save(ctx, c.clientID, language); err != nil {
		c.logger.Error(fmt.Sprintf("Failed to persist language '%s': %v", language, err))
	}
}

func (c *Controller) finish(ticket inflight.Ticket) {
	if c.tracker.Finish(ticket) {
		c.logger.Debug("Response arrived after a newer request", logrus.Fields{"slot": ticket.Slot, "request_id": ticket.ID})
	}
}
