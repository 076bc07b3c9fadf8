package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/i18n"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/repository"
	"lms-connector/internal/infra/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIURL = "http://backend.test:5000"

type fakeView struct {
	mu           sync.Mutex
	messages     []entities.Message
	typing       bool
	copy         i18n.Strings
	selector     entities.Language
	alerts       []string
	inputCleared int
}

func (v *fakeView) AppendMessage(message entities.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, message)
}

func (v *fakeView) ClearTranscript() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = nil
}

func (v *fakeView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputCleared++
}

func (v *fakeView) SetTyping(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typing = visible
}

func (v *fakeView) SetCopy(copy i18n.Strings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.copy = copy
}

func (v *fakeView) SetLanguageSelector(language entities.Language) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selector = language
}

func (v *fakeView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

func (v *fakeView) Messages() []entities.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]entities.Message(nil), v.messages...)
}

func (v *fakeView) texts(sender entities.Sender) []string {
	var texts []string
	for _, m := range v.Messages() {
		if m.Sender == sender {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

type fakeAssistant struct {
	mu           sync.Mutex
	chat         func(ctx context.Context, request dto.ChatRequest) (dto.ChatResponse, error)
	chatWithFile func(ctx context.Context, file entities.UploadFile) (dto.ChatResponse, error)
	resetErr     error
	languageErr  error
	resets       []string
	languages    []dto.SetLanguageRequest
	chatCalls    int
}

func (f *fakeAssistant) BaseURL() string { return testAPIURL }

func (f *fakeAssistant) Chat(ctx context.Context, request dto.ChatRequest) (dto.ChatResponse, error) {
	f.mu.Lock()
	f.chatCalls++
	f.mu.Unlock()
	return f.chat(ctx, request)
}

func (f *fakeAssistant) ChatWithFile(ctx context.Context, file entities.UploadFile, _ string, _ entities.Language) (dto.ChatResponse, error) {
	f.mu.Lock()
	f.chatCalls++
	f.mu.Unlock()
	return f.chatWithFile(ctx, file)
}

func (f *fakeAssistant) ResetSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, sessionID)
	return f.resetErr
}

func (f *fakeAssistant) SetLanguage(_ context.Context, sessionID string, language entities.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languages = append(f.languages, dto.SetLanguageRequest{SessionID: sessionID, Language: language})
	return f.languageErr
}

func (f *fakeAssistant) ListAssignments(context.Context) ([]entities.Assignment, error) {
	return nil, errors.New("not used")
}

func (f *fakeAssistant) SubmitSolution(context.Context, entities.AssignmentID, entities.UploadFile) (dto.SubmissionResult, error) {
	return dto.SubmissionResult{}, errors.New("not used")
}

type fixture struct {
	controller  *Controller
	view        *fakeView
	assistant   *fakeAssistant
	preferences *services.LanguagePreferenceService
	catalog     *i18n.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := i18n.MustLoad()
	view := &fakeView{}
	assistant := &fakeAssistant{
		chat: func(context.Context, dto.ChatRequest) (dto.ChatResponse, error) {
			return dto.ChatResponse{Answer: "ok"}, nil
		},
	}
	preferences := services.NewLanguagePreferenceService(repository.NewMemoryRepository[entities.LanguagePreference](), logger.Discard())

	controller := NewController(Dependencies{
		Config: entities.UploadConfig{
			APIURL:            testAPIURL,
			EnableFileUpload:  true,
			MaxFileSizeBytes:  2 * 1024 * 1024,
			AllowedExtensions: []string{"pdf", "png"},
		},
		Assistant:   assistant,
		Preferences: preferences,
		Catalog:     catalog,
		Logger:      logger.Discard(),
	}, view, "client-1")

	return &fixture{controller: controller, view: view, assistant: assistant, preferences: preferences, catalog: catalog}
}

func TestInitializeRestoresStoredLanguage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.preferences.Save(context.Background(), "client-1", entities.LanguageSpanish))

	f.controller.Initialize(context.Background())
	f.controller.Initialize(context.Background())

	assert.Equal(t, entities.LanguageSpanish, f.controller.Session().Language)
	assert.Equal(t, entities.LanguageSpanish, f.view.selector)
	assert.Equal(t, f.catalog.For(entities.LanguageSpanish).TypeMessage, f.view.copy.TypeMessage)
	assert.Equal(t, []entities.Message{entities.BotMessage(f.catalog.For(entities.LanguageSpanish).Welcome)}, f.view.Messages())
}

type slowPreferences struct {
	release chan struct{}
	started chan struct{}
}

func (p *slowPreferences) Load(context.Context, string) (entities.Language, error) {
	close(p.started)
	<-p.release
	return entities.LanguageHindi, nil
}

func (p *slowPreferences) Save(context.Context, string, entities.Language) error {
	return nil
}

func TestConcurrentInitializeWaitsForWelcome(t *testing.T) {
	f := newFixture(t)
	preferences := &slowPreferences{release: make(chan struct{}), started: make(chan struct{})}
	f.controller.preferences = preferences
	f.assistant.chat = func(context.Context, dto.ChatRequest) (dto.ChatResponse, error) {
		return dto.ChatResponse{Answer: "hi back"}, nil
	}

	go f.controller.Initialize(context.Background())
	<-preferences.started

	second := make(chan struct{})
	go func() {
		f.controller.Initialize(context.Background())
		close(second)
	}()

	select {
	case <-second:
		t.Fatal("second Initialize returned before the first finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(preferences.release)
	<-second
	require.Len(t, f.view.Messages(), 1)

	f.controller.SendMessage(context.Background(), "hello")

	welcome := f.catalog.For(entities.LanguageHindi).Welcome
	assert.Equal(t, []entities.Message{
		entities.BotMessage(welcome),
		entities.UserMessage("hello"),
		entities.BotMessage("hi back"),
	}, f.view.Messages())
	assert.Equal(t, entities.LanguageHindi, f.controller.Session().Language)
}

func TestQueueMessageShowsUserMessageBeforeSending(t *testing.T) {
	f := newFixture(t)
	f.controller.Initialize(context.Background())

	_, ok := f.controller.QueueMessage("   ")
	assert.False(t, ok)

	pending, ok := f.controller.QueueMessage(" hello ")
	require.True(t, ok)
	assert.Equal(t, []string{"hello"}, f.view.texts(entities.SenderUser))
	assert.True(t, f.view.typing)
	assert.Equal(t, 0, f.assistant.chatCalls)

	f.controller.Deliver(context.Background(), pending)
	assert.Equal(t, 1, f.assistant.chatCalls)
	assert.Equal(t, "ok", f.view.texts(entities.SenderBot)[1])
	assert.False(t, f.view.typing)
}

func TestSendMessageIgnoresBlankText(t *testing.T) {
	f := newFixture(t)
	f.controller.SendMessage(context.Background(), "  \n\t ")

	assert.Empty(t, f.view.Messages())
	assert.Equal(t, 0, f.assistant.chatCalls)
}

func TestSendMessageAdoptsSessionAndLanguage(t *testing.T) {
	f := newFixture(t)
	f.controller.Initialize(context.Background())
	before := f.controller.Session().ID

	f.assistant.chat = func(_ context.Context, request dto.ChatRequest) (dto.ChatResponse, error) {
		assert.Equal(t, "What is 2+2?", request.Message)
		assert.Equal(t, before, request.SessionID)
		assert.Equal(t, entities.LanguageEnglish, request.Language)
		return dto.ChatResponse{Answer: "4", SessionID: "server-session", Language: entities.LanguageFrench}, nil
	}

	f.controller.SendMessage(context.Background(), "  What is 2+2?  ")

	assert.Equal(t, []string{"What is 2+2?"}, f.view.texts(entities.SenderUser))
	assert.Equal(t, "4", f.view.texts(entities.SenderBot)[1])
	assert.Equal(t, 1, f.view.inputCleared)
	assert.False(t, f.view.typing)
	assert.Equal(t, entities.Session{ID: "server-session", Language: entities.LanguageFrench}, f.controller.Session())
	assert.Equal(t, entities.LanguageFrench, f.view.selector)

	stored, err := f.preferences.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageFrench, stored)
}

func TestSendMessageErrorTexts(t *testing.T) {
	cases := map[string]struct {
		response dto.ChatResponse
		err      error
		want     string
	}{
		"application error": {
			response: dto.ChatResponse{Error: "model overloaded"},
			want:     "Error: model overloaded",
		},
		"transport": {
			err:  &services.TransportError{BaseURL: testAPIURL, Err: errors.New("connection refused")},
			want: "Cannot connect to the server. Please check if the backend is running at: " + testAPIURL,
		},
		"cors": {
			err:  &services.TransportError{BaseURL: testAPIURL, Err: errors.New("blocked by CORS policy")},
			want: "Connection blocked by CORS policy. Please check if the backend server is running on the correct URL: " + testAPIURL,
		},
		"http status": {
			err:  &services.StatusError{StatusCode: 500, StatusText: "Internal Server Error"},
			want: "Server error: HTTP error! status: 500 Internal Server Error",
		},
		"not json": {
			err:  services.ErrNotJSON,
			want: "Sorry, I encountered an error. Please try again.",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.assistant.chat = func(context.Context, dto.ChatRequest) (dto.ChatResponse, error) {
				return tc.response, tc.err
			}
			before := f.controller.Session()

			f.controller.SendMessage(context.Background(), "hello")

			bot := f.view.texts(entities.SenderBot)
			require.Len(t, bot, 1)
			assert.Equal(t, tc.want, bot[0])
			assert.False(t, f.view.typing)
			assert.Equal(t, before, f.controller.Session())
		})
	}
}

func TestGenericErrorIsLocalized(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.ChangeLanguage(context.Background(), "hi"))
	f.assistant.chat = func(context.Context, dto.ChatRequest) (dto.ChatResponse, error) {
		return dto.ChatResponse{}, services.ErrNotJSON
	}

	f.controller.SendMessage(context.Background(), "namaste")
	assert.Equal(t, []string{f.catalog.For(entities.LanguageHindi).GenericError}, f.view.texts(entities.SenderBot))
}

func TestConcurrentRepliesLandInArrivalOrder(t *testing.T) {
	f := newFixture(t)
	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	f.assistant.chat = func(_ context.Context, request dto.ChatRequest) (dto.ChatResponse, error) {
		<-release[request.Message]
		return dto.ChatResponse{Answer: "reply to " + request.Message}, nil
	}

	var wg sync.WaitGroup
	for _, text := range []string{"first", "second"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			f.controller.SendMessage(context.Background(), text)
		}(text)
		require.Eventually(t, func() bool {
			users := f.view.texts(entities.SenderUser)
			return len(users) > 0 && users[len(users)-1] == text
		}, time.Second, time.Millisecond)
	}

	close(release["second"])
	require.Eventually(t, func() bool { return len(f.view.texts(entities.SenderBot)) == 1 }, time.Second, time.Millisecond)
	close(release["first"])
	wg.Wait()

	assert.Equal(t, []string{"first", "second"}, f.view.texts(entities.SenderUser))
	assert.Equal(t, []string{"reply to second", "reply to first"}, f.view.texts(entities.SenderBot))
	assert.Equal(t, 0, f.controller.tracker.Pending("chat"))
}

func TestUploadFileValidation(t *testing.T) {
	f := newFixture(t)
	f.assistant.chatWithFile = func(context.Context, entities.UploadFile) (dto.ChatResponse, error) {
		t.Fatal("rejected files must not be sent")
		return dto.ChatResponse{}, nil
	}

	err := f.controller.UploadFile(context.Background(), entities.UploadFile{Name: "big.pdf", Size: 3 * 1024 * 1024})
	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = f.controller.UploadFile(context.Background(), entities.UploadFile{Name: "script.exe", Size: 10})
	require.ErrorAs(t, err, &validationErr)

	assert.Equal(t, []string{
		"File size exceeds maximum allowed size of 2MB",
		"File type not allowed. Allowed types: pdf, png",
	}, f.view.alerts)
	assert.Empty(t, f.view.Messages())
}

func TestUploadFileSendsAndRendersNotice(t *testing.T) {
	f := newFixture(t)
	f.assistant.chatWithFile = func(_ context.Context, file entities.UploadFile) (dto.ChatResponse, error) {
		assert.Equal(t, "Scan.PNG", file.Name)
		return dto.ChatResponse{Answer: "Looks like a diagram."}, nil
	}

	require.NoError(t, f.controller.UploadFile(context.Background(), entities.UploadFile{
		Name:    "Scan.PNG",
		Size:    100,
		Content: strings.NewReader("png"),
	}))

	assert.Equal(t, []entities.Message{
		entities.FileNotice("Uploading file: Scan.PNG"),
		entities.BotMessage("Looks like a diagram."),
	}, f.view.Messages())
}

func TestResetChatAlwaysLeavesWelcomeOnly(t *testing.T) {
	f := newFixture(t)
	f.controller.Initialize(context.Background())
	f.controller.SendMessage(context.Background(), "hello")
	before := f.controller.Session().ID
	f.assistant.resetErr = &services.TransportError{BaseURL: testAPIURL, Err: errors.New("connection refused")}

	f.controller.ResetChat(context.Background())

	assert.Equal(t, []entities.Message{entities.BotMessage(f.catalog.For(entities.LanguageEnglish).Welcome)}, f.view.Messages())
	assert.NotEqual(t, before, f.controller.Session().ID)
	assert.Equal(t, []string{before}, f.assistant.resets)
}

func TestChangeLanguagePersistsWhenBackendFails(t *testing.T) {
	f := newFixture(t)
	f.controller.Initialize(context.Background())
	f.assistant.languageErr = &services.StatusError{StatusCode: 502, StatusText: "Bad Gateway"}

	require.NoError(t, f.controller.ChangeLanguage(context.Background(), "hi"))

	stored, err := f.preferences.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageHindi, stored)
	assert.Equal(t, f.catalog.For(entities.LanguageHindi), f.view.copy)
	assert.Equal(t, entities.LanguageHindi, f.view.selector)
	assert.Equal(t, entities.LanguageHindi, f.controller.Session().Language)
	require.Len(t, f.assistant.languages, 1)
	assert.Equal(t, entities.LanguageHindi, f.assistant.languages[0].Language)
}

func TestChangeLanguageNoopAndUnsupported(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.controller.ChangeLanguage(context.Background(), "en"))
	assert.Empty(t, f.assistant.languages)

	err := f.controller.ChangeLanguage(context.Background(), "de")
	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, entities.LanguageEnglish, f.controller.Session().Language)
	assert.Empty(t, f.assistant.languages)
}
