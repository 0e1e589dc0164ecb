package assistant

import (
	"bytes"

	"github.com/dalemusser/incubahub/internal/app/system/htmlsanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderReply converts a markdown reply to sanitized HTML. Raw HTML in the
// reply is dropped by goldmark's default (unsafe rendering is off) and the
// result still passes through the sanitizer.
func RenderReply(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return htmlsanitize.Sanitize(buf.String()), nil
}
