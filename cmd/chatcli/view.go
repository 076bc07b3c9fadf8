package main

import (
	"fmt"
	"io"
	"sync"

	"lms-connector/internal/domain/entities"
	"lms-connector/internal/i18n"

	"github.com/fatih/color"
)

// terminalView prints the transcript as it grows. It implements chat.View.
type terminalView struct {
	mu   sync.Mutex
	out  io.Writer
	copy i18n.Strings

	user   *color.Color
	bot    *color.Color
	notice *color.Color
	status *color.Color
	alert  *color.Color
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{
		out:    out,
		user:   color.New(color.FgGreen),
		bot:    color.New(color.FgCyan),
		notice: color.New(color.FgYellow),
		status: color.New(color.Faint),
		alert:  color.New(color.FgRed, color.Bold),
	}
}

func (v *terminalView) AppendMessage(message entities.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case message.IsFileNotice:
		v.notice.Fprintf(v.out, "📎 %s\n", message.Text)
	case message.Sender == entities.SenderUser:
		v.user.Fprintf(v.out, "👤 %s\n", message.Text)
	default:
		v.bot.Fprintf(v.out, "🤖 %s\n", message.Text)
	}
}

func (v *terminalView) ClearTranscript() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status.Fprintln(v.out, "----------------------------------------")
}

// ClearInput is a no-op: the terminal line is consumed once read.
func (v *terminalView) ClearInput() {}

func (v *terminalView) SetTyping(visible bool) {
	if !visible {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status.Fprintln(v.out, v.copy.Connecting)
}

func (v *terminalView) SetCopy(text i18n.Strings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.copy = text
}

func (v *terminalView) SetLanguageSelector(language entities.Language) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status.Fprintf(v.out, "[%s]\n", language)
}

func (v *terminalView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alert.Fprintln(v.out, message)
}

func (v *terminalView) prompt() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fmt.Sprintf("%s > ", v.copy.TypeMessage)
}
