// Package sanitize cleans caller-supplied text and conversation history
// before anything reaches the model.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/porcitech/kouakou/internal/gemini"
)

// MaxTextRunes is the default cap on sanitized text length in code points.
const MaxTextRunes = 4000

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// Text strips control characters and angle-bracket markup, trims surrounding
// space, and caps length at MaxTextRunes. Idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	return TextLimit(s, MaxTextRunes)
}

// TextLimit is Text with a caller-chosen rune cap. A non-positive cap falls
// back to MaxTextRunes.
func TextLimit(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = MaxTextRunes
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			continue
		}
		sb.WriteRune(r)
	}

	cleaned := markupPattern.ReplaceAllString(sb.String(), "")
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > maxRunes {
		cleaned = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return cleaned
}

// History filters supplied turns into well-formed ones: recognized roles
// only, text parts re-sanitized, call/response parts kept only when named.
// Turns left without any valid part are dropped entirely.
func History(turns []gemini.Content) []gemini.Content {
	out := make([]gemini.Content, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case gemini.RoleUser, gemini.RoleModel, gemini.RoleFunction:
		default:
			continue
		}

		parts := make([]gemini.Part, 0, len(turn.Parts))
		for _, part := range turn.Parts {
			switch {
			case part.Text != "":
				if text := Text(part.Text); text != "" {
					parts = append(parts, gemini.Part{Text: text})
				}
			case part.FunctionCall != nil && part.FunctionCall.Name != "":
				parts = append(parts, gemini.Part{FunctionCall: part.FunctionCall})
			case part.FunctionResponse != nil && part.FunctionResponse.Name != "":
				parts = append(parts, gemini.Part{FunctionResponse: part.FunctionResponse})
			}
		}

		if len(parts) == 0 {
			continue
		}
		out = append(out, gemini.Content{Role: turn.Role, Parts: parts})
	}
	return out
}
