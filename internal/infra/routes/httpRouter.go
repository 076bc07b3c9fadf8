package routes

import (
	"encoding/json"
	"net/http"

	"lms-connector/internal/infra/handlers"
	"lms-connector/internal/infra/metrics"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux                *mux.Router
	PageHandlers       *handlers.PageHandlers
	ChatHandlers       *handlers.ChatHandlers
	AssignmentHandlers *handlers.AssignmentHandlers
	Metrics            *metrics.Metrics
}

func NewRoutes(mux *mux.Router, pageHandlers *handlers.PageHandlers, chatHandlers *handlers.ChatHandlers, assignmentHandlers *handlers.AssignmentHandlers, metrics *metrics.Metrics) *Routes {
	return &Routes{mux, pageHandlers, chatHandlers, assignmentHandlers, metrics}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/", r.PageHandlers.Home).Methods(http.MethodGet)
	r.Mux.HandleFunc("/chat", r.PageHandlers.Chat).Methods(http.MethodGet)
	r.Mux.HandleFunc("/assignments", r.PageHandlers.Assignments).Methods(http.MethodGet)

	chat := r.Mux.PathPrefix("/api/chat").Subrouter()
	chat.HandleFunc("/state", r.ChatHandlers.State).Methods(http.MethodGet)
	chat.HandleFunc("/messages", r.ChatHandlers.SendMessage).Methods(http.MethodPost)
	chat.HandleFunc("/files", r.ChatHandlers.UploadFile).Methods(http.MethodPost)
	chat.HandleFunc("/reset", r.ChatHandlers.Reset).Methods(http.MethodPost)
	chat.HandleFunc("/language", r.ChatHandlers.ChangeLanguage).Methods(http.MethodPost)

	assignments := r.Mux.PathPrefix("/api/assignments").Subrouter()
	assignments.HandleFunc("/state", r.AssignmentHandlers.State).Methods(http.MethodGet)
	assignments.HandleFunc("/reload", r.AssignmentHandlers.Reload).Methods(http.MethodPost)
	assignments.HandleFunc("/validate", r.AssignmentHandlers.ValidateFile).Methods(http.MethodPost)
	assignments.HandleFunc("/submit", r.AssignmentHandlers.Submit).Methods(http.MethodPost)
	assignments.HandleFunc("/modal/dismiss", r.AssignmentHandlers.DismissModal).Methods(http.MethodPost)
	assignments.HandleFunc("/{id}/modal", r.AssignmentHandlers.OpenModal).Methods(http.MethodPost)

	r.Mux.Handle("/metrics", r.Metrics.Handler()).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
