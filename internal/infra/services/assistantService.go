package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"lms-connector/internal/domain/dto"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

const (
	JSONContentType = "application/json"

	chatPath          = "/chat"
	resetPath         = "/reset_session"
	languagePath      = "/set_language"
	assignmentsPath   = "/assignments"
	submitPath        = "/submit_solution"
	chatFileField     = "file"
	solutionFileField = "solution_file"
)

type AssistantService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	Metrics    *metrics.Metrics
	baseURL    string
}

func NewAssistantService(logger *logger.Logger, httpClient *http.Client, baseURL string, metrics *metrics.Metrics) *AssistantService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AssistantService{
		Logger:     logger,
		HttpClient: httpClient,
		Metrics:    metrics,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (th *AssistantService) BaseURL() string {
	return th.baseURL
}

// Chat posts a text message for the given session.
func (th *AssistantService) Chat(ctx context.Context, request dto.ChatRequest) (dto.ChatResponse, error) {
	var response dto.ChatResponse
	if err := th.postJSON(ctx, chatPath, request, &response); err != nil {
		return dto.ChatResponse{}, err
	}
	return response, nil
}

// ChatWithFile posts a file to the chat endpoint as multipart form data.
func (th *AssistantService) ChatWithFile(ctx context.Context, file entities.UploadFile, sessionID string, language entities.Language) (dto.ChatResponse, error) {
	body, contentType, err := buildMultipart(
		[]formFile{{field: chatFileField, file: file}},
		[]formField{{"session_id", sessionID}, {"language", string(language)}},
		true,
	)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to build chat upload body: %s", err.Error()))
		return dto.ChatResponse{}, err
	}

	var response dto.ChatResponse
	if err := th.send(ctx, http.MethodPost, chatPath, body, contentType, &response); err != nil {
		return dto.ChatResponse{}, err
	}
	return response, nil
}

func (th *AssistantService) ResetSession(ctx context.Context, sessionID string) error {
	return th.postJSON(ctx, resetPath, dto.ResetSessionRequest{SessionID: sessionID}, nil)
}

func (th *AssistantService) SetLanguage(ctx context.Context, sessionID string, language entities.Language) error {
	return th.postJSON(ctx, languagePath, dto.SetLanguageRequest{SessionID: sessionID, Language: language}, nil)
}

// ListAssignments fetches the whole assignment list; a missing array decodes as empty.
func (th *AssistantService) ListAssignments(ctx context.Context) ([]entities.Assignment, error) {
	var response dto.AssignmentsResponse
	if err := th.send(ctx, http.MethodGet, assignmentsPath, nil, "", &response); err != nil {
		return nil, err
	}
	if response.Assignments == nil {
		return []entities.Assignment{}, nil
	}
	return response.Assignments, nil
}

func (th *AssistantService) SubmitSolution(ctx context.Context, assignmentID entities.AssignmentID, file entities.UploadFile) (dto.SubmissionResult, error) {
	body, contentType, err := buildMultipart(
		[]formFile{{field: solutionFileField, file: file}},
		[]formField{{"assignment_id", string(assignmentID)}},
		false,
	)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to build submission body: %s", err.Error()))
		return dto.SubmissionResult{}, err
	}

	var result dto.SubmissionResult
	if err := th.send(ctx, http.MethodPost, submitPath, body, contentType, &result); err != nil {
		return dto.SubmissionResult{}, err
	}
	return result, nil
}

func (th *AssistantService) postJSON(ctx context.Context, path string, payload any, out any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to marshal payload: %s", err.Error()))
		return err
	}
	return th.send(ctx, http.MethodPost, path, bytes.NewReader(payloadBytes), JSONContentType, out)
}

// send performs one request. Success needs a 2xx status and a JSON content type; out may be nil.
func (th *AssistantService) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	started := time.Now()
	outcome := "ok"
	defer func() {
		th.Metrics.ObserveBackend(path, outcome, time.Since(started))
	}()

	req, err := http.NewRequestWithContext(ctx, method, th.baseURL+path, body)
	if err != nil {
		outcome = "request_error"
		th.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %s", err.Error()))
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", JSONContentType)

	res, err := th.HttpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		th.Logger.Error("Backend request failed", logrus.Fields{"method": method, "path": path, "error": err.Error()})
		return &TransportError{BaseURL: th.baseURL, Err: err}
	}
	defer res.Body.Close()

	th.Logger.Debug("Backend responded", logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   res.StatusCode,
		"duration": time.Since(started).String(),
	})

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		outcome = "status_error"
		text, _ := io.ReadAll(res.Body)
		th.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s response_body %s", res.Status, string(text)))
		return &StatusError{
			StatusCode: res.StatusCode,
			StatusText: strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode))),
			Body:       string(text),
		}
	}

	if !strings.Contains(res.Header.Get("Content-Type"), JSONContentType) {
		outcome = "not_json"
		th.Logger.Error(fmt.Sprintf("Backend %s %s answered with content type %q", method, path, res.Header.Get("Content-Type")))
		return ErrNotJSON
	}

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		outcome = "read_error"
		th.Logger.Error(fmt.Sprintf("Failed to read response body: %s", err.Error()))
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		outcome = "decode_error"
		th.Logger.Error(fmt.Sprintf("Failed to unmarshal response body: %s", err.Error()))
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}
	return nil
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field string
	file  entities.UploadFile
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildMultipart writes files before or after the plain fields, matching each endpoint's field order.
func buildMultipart(files []formFile, fields []formField, filesFirst bool) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	writeFiles := func() error {
		for _, f := range files {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(f.field), quoteEscaper.Replace(f.file.Name)))
			contentType := f.file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			header.Set("Content-Type", contentType)

			part, err := writer.CreatePart(header)
			if err != nil {
				return err
			}
			if f.file.Content != nil {
				if _, err := io.Copy(part, f.file.Content); err != nil {
					return fmt.Errorf("failed to copy %s: %w", f.file.Name, err)
				}
			}
		}
		return nil
	}
	writeFields := func() error {
		for _, field := range fields {
			if err := writer.WriteField(field.name, field.value); err != nil {
				return err
			}
		}
		return nil
	}

	steps := []func() error{writeFields, writeFiles}
	if filesFirst {
		steps = []func() error{writeFiles, writeFields}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
