// Command chatcli runs the chat assistant in a terminal against the configured backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lms-connector/internal/config"
	"lms-connector/internal/controllers/chat"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/i18n"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/repository"
	"lms-connector/internal/infra/services"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const helpText = "Commands: /reset, /lang <en|hi|es|fr>, /upload <path>, /quit"

// session is the controller surface the command loop drives.
type session interface {
	SendMessage(ctx context.Context, text string)
	UploadFile(ctx context.Context, file entities.UploadFile) error
	ResetChat(ctx context.Context)
	ChangeLanguage(ctx context.Context, code string) error
}

func main() {
	config.LoadEnv()
	settings := config.Load()

	var log *logger.Logger
	if settings.LogLevel == "debug" {
		log = logger.NewLoggerWithOutput(context.Background(), os.Stderr, false, "debug")
	} else {
		log = logger.Discard()
	}

	view := newTerminalView(color.Output)
	assistant := services.NewAssistantService(log, &http.Client{Timeout: settings.BackendTimeout}, settings.APIURL, nil)
	preferences := services.NewLanguagePreferenceService(repository.NewMemoryRepository[entities.LanguagePreference](), log)

	controller := chat.NewController(chat.Dependencies{
		Config: entities.UploadConfig{
			APIURL:            settings.APIURL,
			EnableFileUpload:  settings.EnableFileUpload,
			MaxFileSizeBytes:  settings.MaxFileSizeBytes(),
			AllowedExtensions: settings.AllowedExtensions,
		},
		Assistant:   assistant,
		Preferences: preferences,
		Catalog:     i18n.MustLoad(),
		Logger:      log,
	}, view, uuid.NewString())

	ctx := context.Background()
	color.New(color.FgCyan, color.Bold).Printf("Connected to %s\n", settings.APIURL)
	color.New(color.Faint).Println(helpText)
	controller.Initialize(ctx)

	run(ctx, os.Stdin, view, controller)
}

// run reads one command or message per line until EOF or /quit.
func run(ctx context.Context, in io.Reader, view *terminalView, s session) {
	reader := bufio.NewReader(in)
	for {
		color.New(color.FgGreen).Fprint(view.out, view.prompt())
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)

		if line != "" && !handleLine(ctx, line, view, s) {
			return
		}
		if err != nil {
			return
		}
	}
}

// handleLine returns false when the user asked to quit.
func handleLine(ctx context.Context, line string, view *terminalView, s session) bool {
	command, argument, _ := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)

	switch command {
	case "/quit", "/exit":
		return false
	case "/help":
		view.status.Fprintln(view.out, helpText)
	case "/reset":
		s.ResetChat(ctx)
	case "/lang":
		if err := s.ChangeLanguage(ctx, argument); err != nil {
			view.Alert(err.Error())
		}
	case "/upload":
		file, err := openUpload(argument)
		if err != nil {
			view.Alert(err.Error())
			return true
		}
		defer file.Content.(io.Closer).Close()
		s.UploadFile(ctx, file)
	default:
		s.SendMessage(ctx, line)
	}
	return true
}

func openUpload(path string) (entities.UploadFile, error) {
	if path == "" {
		return entities.UploadFile{}, fmt.Errorf("usage: /upload <path>")
	}
	f, err := os.Open(path)
	if err != nil {
		return entities.UploadFile{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return entities.UploadFile{}, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	return entities.UploadFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Content:     f,
	}, nil
}
