package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lms-connector/internal/controllers/board"
	"lms-connector/internal/controllers/chat"
	"lms-connector/internal/domain/entities"
	Iservices "lms-connector/internal/domain/interfaces/services"
	"lms-connector/internal/i18n"
	"lms-connector/internal/inflight"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/metrics"
	"lms-connector/internal/infra/viewstate"

	"github.com/google/uuid"
)

const ClientCookie = "lms_client_id"

// Client is everything one browser owns: its two controllers and the views they draw into.
type Client struct {
	ID        string
	Chat      *chat.Controller
	ChatView  *viewstate.ChatState
	Board     *board.Controller
	BoardView *viewstate.BoardState
	Tracker   *inflight.Tracker

	mu       sync.Mutex
	lastSeen time.Time
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen)
}

type ClientDeps struct {
	Upload      entities.UploadConfig
	Limits      board.SubmissionLimits
	Assistant   Iservices.IAssistantService
	Preferences Iservices.ILanguagePreferenceService
	Catalog     *i18n.Catalog
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
}

type ClientRegistry struct {
	Deps ClientDeps

	mu      sync.Mutex
	clients map[string]*Client
	now     func() time.Time
}

func NewClientRegistry(deps ClientDeps) *ClientRegistry {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.MustLoad()
	}
	return &ClientRegistry{
		Deps:    deps,
		clients: make(map[string]*Client),
		now:     time.Now,
	}
}

// Resolve returns the caller's client, creating it (and setting the cookie) on first contact.
// A new client's chat is initialized before Resolve returns.
func (cr *ClientRegistry) Resolve(w http.ResponseWriter, r *http.Request) *Client {
	id := ""
	if cookie, err := r.Cookie(ClientCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			id = cookie.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	cr.mu.Lock()
	client, ok := cr.clients[id]
	if !ok {
		client = cr.newClient(id)
		cr.clients[id] = client
	}
	cr.mu.Unlock()

	client.touch(cr.now())
	if !ok {
		cr.Deps.Logger.Info(fmt.Sprintf("New client %s", id))
	}
	client.Chat.Initialize(context.WithoutCancel(r.Context()))
	return client
}

func (cr *ClientRegistry) newClient(id string) *Client {
	tracker := inflight.NewTracker()
	tracker.OnSupersede = func(slot inflight.Slot, _, _ uint64) {
		cr.Deps.Metrics.Superseded(string(slot))
	}

	chatView := viewstate.NewChatState()
	boardView := viewstate.NewBoardState()

	return &Client{
		ID: id,
		Chat: chat.NewController(chat.Dependencies{
			Config:      cr.Deps.Upload,
			Assistant:   cr.Deps.Assistant,
			Preferences: cr.Deps.Preferences,
			Catalog:     cr.Deps.Catalog,
			Tracker:     tracker,
			Logger:      cr.Deps.Logger,
		}, chatView, id),
		ChatView: chatView,
		Board: board.NewController(board.Dependencies{
			APIURL:    cr.Deps.Upload.APIURL,
			Limits:    cr.Deps.Limits,
			Assistant: cr.Deps.Assistant,
			Tracker:   tracker,
			Logger:    cr.Deps.Logger,
		}, boardView, id),
		BoardView: boardView,
		Tracker:   tracker,
	}
}

func (cr *ClientRegistry) Len() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.clients)
}

// Sweep drops clients idle for longer than maxIdle and cancels their outstanding backend calls.
func (cr *ClientRegistry) Sweep(maxIdle time.Duration) int {
	now := cr.now()
	var dropped []*Client

	cr.mu.Lock()
	for id, client := range cr.clients {
		if client.idleSince(now) > maxIdle {
			dropped = append(dropped, client)
			delete(cr.clients, id)
		}
	}
	cr.mu.Unlock()

	for _, client := range dropped {
		client.Tracker.CancelAll()
	}
	if len(dropped) > 0 {
		cr.Deps.Logger.Info(fmt.Sprintf("Dropped %d idle clients", len(dropped)))
	}
	return len(dropped)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (cr *ClientRegistry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cr.Sweep(maxIdle)
		}
	}
}
