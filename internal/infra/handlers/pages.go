package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/i18n"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/viewstate"
)

//go:embed templates/*.html
var templateFS embed.FS

type PageHandlers struct {
	Logger    *logger.Logger
	Clients   *ClientRegistry
	Templates *template.Template
	Boards    *AssignmentHandlers
}

type pageData struct {
	Title   string
	Config  dto.PageConfig
	Strings i18n.Strings
	Chat    viewstate.ChatSnapshot
	Board   viewstate.BoardSnapshot
}

func NewPageHandlers(logger *logger.Logger, clients *ClientRegistry, boards *AssignmentHandlers) (*PageHandlers, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &PageHandlers{Logger: logger, Clients: clients, Templates: templates, Boards: boards}, nil
}

func (th *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	th.render(w, "index.html", th.data(client, "LMS Assistant"))
}

func (th *PageHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	data := th.data(client, "")
	data.Title = data.Strings.ChatbotTitle
	th.render(w, "chat.html", data)
}

// Assignments renders the board in its loading state and starts the fetch.
func (th *PageHandlers) Assignments(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	th.Boards.reload(r.Context(), client)
	th.render(w, "assignments.html", th.data(client, "My Assignments"))
}

func (th *PageHandlers) data(client *Client, title string) pageData {
	chatSnapshot := client.ChatView.Snapshot()
	upload := client.Chat.Config()
	strings := th.Clients.Deps.Catalog.For(chatSnapshot.Language)

	return pageData{
		Title: title,
		Config: dto.PageConfig{
			APIURL:            upload.APIURL,
			EnableFileUpload:  upload.EnableFileUpload,
			MaxFileSizeBytes:  upload.MaxFileSizeBytes,
			AllowedExtensions: upload.AllowedExtensions,
			Strings:           strings.Map(),
		},
		Strings: strings,
		Chat:    chatSnapshot,
		Board:   client.BoardView.Snapshot(),
	}
}

func (th *PageHandlers) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := th.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to render %s: %v", name, err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
