package render

import (
	"html"
	"html/template"

	"lms-connector/internal/domain/entities"
)

var MessageRules = Pipeline{
	escapeRule,
	newlineRule,
	boldRule,
	italicRule,
}

// FormatMessage renders one transcript entry's content as HTML.
func FormatMessage(message entities.Message) template.HTML {
	if message.IsFileNotice {
		return template.HTML(`<div class="file-info">📎 ` + html.EscapeString(message.Text) + `</div>`)
	}
	return template.HTML(MessageRules.Apply(message.Text))
}

func Avatar(sender entities.Sender) string {
	if sender == entities.SenderUser {
		return "👤"
	}
	return "🤖"
}
