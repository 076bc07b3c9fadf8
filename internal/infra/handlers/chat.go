package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/infra/logger"
)

// multipartOverhead is the slack allowed on top of the largest accepted file for form fields and headers.
const multipartOverhead = 1 << 20

type ChatHandlers struct {
	Logger  *logger.Logger
	Clients *ClientRegistry
}

func NewChatHandlers(logger *logger.Logger, clients *ClientRegistry) *ChatHandlers {
	return &ChatHandlers{Logger: logger, Clients: clients}
}

// State returns the caller's transcript, typing indicator and UI copy.
func (th *ChatHandlers) State(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	writeJSON(w, http.StatusOK, client.ChatView.TakeSnapshot())
}

// SendMessage accepts {"message": "..."} and answers 202 with a snapshot that already holds the
// user message. The bot reply shows up in later snapshots.
//
// HTTP Status Codes:
// - 202 Accepted: the message was handed to the chat controller (blank messages are accepted and ignored).
// - 400 Bad Request: the body is not valid JSON.
func (th *ChatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var request dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Error to process JSON")
		return
	}
	defer r.Body.Close()

	client := th.Clients.Resolve(w, r)
	if pending, ok := client.Chat.QueueMessage(request.Message); ok {
		th.dispatch(r, "send message", func(ctx context.Context) {
			client.Chat.Deliver(ctx, pending)
		})
	}
	writeJSON(w, http.StatusAccepted, client.ChatView.Snapshot())
}

// UploadFile accepts a multipart form with a "file" part. Size and extension checks run in the
// controller; rejections surface as alerts in the snapshot.
func (th *ChatHandlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	config := client.Chat.Config()
	if !config.EnableFileUpload {
		writeError(w, http.StatusForbidden, "File upload is disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxFileSizeBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if isTooLarge(err) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err != nil {
		th.Logger.Warn(fmt.Sprintf("Invalid chat upload: %v", err))
		writeError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	upload, err := readUpload(file, header, config.MaxFileSizeBytes)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to read uploaded file: %v", err))
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	if err := client.Chat.CheckUpload(upload); err != nil {
		// Rejected without a backend call; this only raises the alert.
		client.Chat.UploadFile(r.Context(), upload)
		writeJSON(w, http.StatusUnprocessableEntity, client.ChatView.TakeSnapshot())
		return
	}

	th.dispatch(r, "upload file", func(ctx context.Context) {
		client.Chat.UploadFile(ctx, upload)
	})
	writeJSON(w, http.StatusAccepted, client.ChatView.Snapshot())
}

func (th *ChatHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	client := th.Clients.Resolve(w, r)
	th.dispatch(r, "reset chat", func(ctx context.Context) {
		client.Chat.ResetChat(ctx)
	})
	writeJSON(w, http.StatusAccepted, client.ChatView.Snapshot())
}

// ChangeLanguage accepts {"language": "hi"}; unsupported codes are rejected with 400.
func (th *ChatHandlers) ChangeLanguage(w http.ResponseWriter, r *http.Request) {
	var request dto.ChangeLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Error to process JSON")
		return
	}
	defer r.Body.Close()

	language, err := entities.ParseLanguage(request.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := th.Clients.Resolve(w, r)
	th.dispatch(r, "change language", func(ctx context.Context) {
		client.Chat.ChangeLanguage(ctx, string(language))
	})
	writeJSON(w, http.StatusAccepted, client.ChatView.Snapshot())
}

// dispatch runs a controller action detached from the request, the way the page fires a fetch
// and keeps going.
func (th *ChatHandlers) dispatch(r *http.Request, action string, run func(ctx context.Context)) {
	ctx := context.WithoutCancel(r.Context())
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				th.Logger.Error(fmt.Sprintf("Recovered from panic in %s: %v", action, rec))
			}
		}()
		run(ctx)
	}()
}

// readUpload buffers the part so it outlives the request. Oversized files keep their reported
// size but no content; the controller rejects them before anything is sent.
func readUpload(file multipart.File, header *multipart.FileHeader, maxBytes int64) (entities.UploadFile, error) {
	upload := entities.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if header.Size > maxBytes {
		return upload, nil
	}

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return upload, err
	}
	upload.Content = bytes.NewReader(content)
	return upload, nil
}
