package render

import (
	"html"
	"regexp"
	"strings"
)

// Rule is one substitution step. Pipelines apply rules in order, each on the previous output.
type Rule struct {
	Name  string
	apply func(string) string
}

func (r Rule) Apply(s string) string {
	return r.apply(s)
}

func LiteralRule(name, old, replacement string) Rule {
	return Rule{Name: name, apply: func(s string) string {
		return strings.ReplaceAll(s, old, replacement)
	}}
}

func RegexpRule(name, pattern, replacement string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{Name: name, apply: func(s string) string {
		return re.ReplaceAllString(s, replacement)
	}}
}

type Pipeline []Rule

func (p Pipeline) Apply(s string) string {
	for _, rule := range p {
		s = rule.Apply(s)
	}
	return s
}

// Rule returns the named step, for tests that exercise one substitution alone.
func (p Pipeline) Rule(name string) (Rule, bool) {
	for _, rule := range p {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

var (
	escapeRule  = Rule{Name: "escape", apply: html.EscapeString}
	newlineRule = LiteralRule("newline", "\n", "<br>")
	boldRule    = RegexpRule("bold", `\*\*(.*?)\*\*`, "<strong>${1}</strong>")
	italicRule  = RegexpRule("italic", `\*(.*?)\*`, "<em>${1}</em>")
)
