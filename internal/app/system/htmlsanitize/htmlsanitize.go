// Package htmlsanitize cleans HTML that originates outside the app: assistant
// replies rendered from markdown, and free text typed into forms.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// replyPolicy is the UGC policy plus the table and code markup that
// goldmark emits for GitHub-flavored markdown.
func replyPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "table", "th", "td")
		p.AllowAttrs("align").Matching(bluemonday.CellAlign).OnElements("th", "td")
		p.AllowElements("del")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, unsafe URLs and anything else
// outside the reply policy.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return replyPolicy().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s has no tag-like markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and turns newlines into <br> inside one paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// StripAll removes every tag, leaving text. Used for names and labels
// typed into forms.
func StripAll(s string) string {
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(s))
}
