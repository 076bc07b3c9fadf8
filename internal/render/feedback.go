package render

import (
	"html/template"
	"strconv"
)

const NoFeedback = "No feedback available."

// FeedbackRules is a fixed contract: later rules see the markup produced by earlier ones,
// so feedback authors must avoid patterns that collide across rules.
var FeedbackRules = Pipeline{
	escapeRule,
	newlineRule,
	RegexpRule("score_label", `(?i)SCORE\s*:`, "<strong>SCORE:</strong>"),
	RegexpRule("feedback_label", `(?i)FEEDBACK\s*:`, "<strong>FEEDBACK:</strong>"),
	boldRule,
	italicRule,
	RegexpRule("score_highlight", `(\d+)/100`, "<span class='score-highlight'>${1}/100</span>"),
}

func FormatFeedback(feedback string) template.HTML {
	if feedback == "" {
		return template.HTML(NoFeedback)
	}
	return template.HTML(FeedbackRules.Apply(feedback))
}

// ScoreText renders an optional score, "--" when absent.
func ScoreText(score *float64) string {
	if score == nil {
		return "--"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
