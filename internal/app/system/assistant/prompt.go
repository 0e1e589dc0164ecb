package assistant

import (
	"fmt"
	"strings"

	"github.com/dalemusser/incubahub/internal/app/system/analytics"
)

// SystemPrompt frames the model as the organization's assistant and gives
// it the current analytics figures, formatted the way the dashboard shows
// them.
func SystemPrompt(orgName string, meta analytics.Metadata, m analytics.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tu es l'assistant de %s, une structure d'accompagnement d'entrepreneurs. ", orgName)
	b.WriteString("Réponds en français, de façon concise, en markdown. ")
	b.WriteString("Appuie-toi sur les indicateurs ci-dessous quand la question les concerne ; n'invente pas de chiffres.\n\n")
	fmt.Fprintf(&b, "Indicateurs (%s) :\n", meta.TimeRangeLabel)
	for _, sec := range analytics.Report(meta, m) {
		if sec.Key == "main" {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", sec.Title)
		for _, r := range sec.Rows {
			fmt.Fprintf(&b, "- %s : %s\n", r.Label, r.Value)
		}
	}
	return b.String()
}

// BuildMessages prepends the system prompt to the stored history. History
// is trimmed to the most recent maxTurns entries (0 keeps everything).
func BuildMessages(system string, history []ChatMessage, maxTurns int) []ChatMessage {
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}
	out := make([]ChatMessage, 0, len(history)+1)
	out = append(out, ChatMessage{Role: RoleSystem, Content: system})
	return append(out, history...)
}
