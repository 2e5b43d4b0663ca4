package services

import (
	"strings"

	"portfolio-backend/internal/models"
)

// NormalizeMessages flattens both historical client message shapes into
// the canonical form. Messages with a parts array have their text parts
// concatenated; flat content is used as-is. The result is trimmed and
// empty messages are dropped. System-role turns are remapped to user:
// the synthesized prompt is the only system input the provider ever sees.
func NormalizeMessages(in []models.IncomingMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(in))

	for _, m := range in {
		var text string
		if len(m.Parts) > 0 {
			var b strings.Builder
			for _, p := range m.Parts {
				if p.Type == "text" {
					b.WriteString(p.Text)
				}
			}
			text = strings.TrimSpace(b.String())
		} else {
			text = strings.TrimSpace(m.Content)
		}

		if text == "" {
			continue
		}

		role := m.Role
		if role == models.RoleSystem {
			role = models.RoleUser
		}

		out = append(out, models.ChatMessage{Role: role, Content: text})
	}

	return out
}
