package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/porcitech/kouakou/internal/gemini"
)

func TestTextStripsControlCharacters(t *testing.T) {
	assert.Equal(t, "bonjour le monde", Text("bonjour\x00 le\x1F monde\x7F"))
}

func TestTextStripsMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"script tag", "<script>alert(1)</script>salut", "alert(1)salut"},
		{"nested tags", "<b><i>gras</i></b>", "gras"},
		{"lone angle bracket survives", "5 < 10", "5 < 10"},
		{"self closing", "avant<br/>après", "avantaprès"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestTextTrimsAndCaps(t *testing.T) {
	assert.Equal(t, "salut", Text("   salut   "))

	long := strings.Repeat("é", MaxTextRunes+500)
	got := Text(long)
	assert.Len(t, []rune(got), MaxTextRunes)
}

func TestTextLimitCustomCap(t *testing.T) {
	assert.Equal(t, "abc", TextLimit("abcdef", 3))
	assert.Equal(t, "été", TextLimit("étendue", 3))

	// Non-positive caps fall back to the default.
	long := strings.Repeat("a", MaxTextRunes+10)
	assert.Len(t, []rune(TextLimit(long, 0)), MaxTextRunes)
	assert.Len(t, []rune(TextLimit(long, -5)), MaxTextRunes)
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"  <b>J'ai dépensé\x07 50000 FCFA</b>  ",
		strings.Repeat("a ", MaxTextRunes),
		"",
		"déjà propre",
	}
	for _, input := range inputs {
		once := Text(input)
		assert.Equal(t, once, Text(once))
	}
}

func TestTextEmptyResults(t *testing.T) {
	assert.Empty(t, Text("<div></div>"))
	assert.Empty(t, Text("\x00\x01\x02"))
	assert.Empty(t, Text("   "))
}

func TestHistoryDropsUnknownRoles(t *testing.T) {
	history := []gemini.Content{
		{Role: "system", Parts: []gemini.Part{{Text: "je triche"}}},
		{Role: gemini.RoleUser, Parts: []gemini.Part{{Text: "bonjour"}}},
		{Role: "assistant", Parts: []gemini.Part{{Text: "mauvais role"}}},
	}

	got := History(history)
	assert.Len(t, got, 1)
	assert.Equal(t, gemini.RoleUser, got[0].Role)
}

func TestHistorySanitizesTextParts(t *testing.T) {
	history := []gemini.Content{
		{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: "<b>réponse</b>"}}},
	}

	got := History(history)
	assert.Len(t, got, 1)
	assert.Equal(t, "réponse", got[0].Parts[0].Text)
}

func TestHistoryDropsEmptyTurns(t *testing.T) {
	history := []gemini.Content{
		{Role: gemini.RoleUser, Parts: []gemini.Part{{Text: "<div></div>"}}},
		{Role: gemini.RoleModel, Parts: nil},
		{Role: gemini.RoleFunction, Parts: []gemini.Part{{FunctionResponse: &gemini.FunctionResponse{}}}},
	}

	assert.Empty(t, History(history))
}

func TestHistoryKeepsNamedFunctionParts(t *testing.T) {
	history := []gemini.Content{
		{Role: gemini.RoleModel, Parts: []gemini.Part{
			{FunctionCall: &gemini.FunctionCall{Name: "create_expense"}},
			{FunctionCall: &gemini.FunctionCall{}},
		}},
		{Role: gemini.RoleFunction, Parts: []gemini.Part{
			{FunctionResponse: &gemini.FunctionResponse{Name: "create_expense", Response: map[string]interface{}{"success": true}}},
		}},
	}

	got := History(history)
	assert.Len(t, got, 2)
	assert.Len(t, got[0].Parts, 1)
	assert.Equal(t, "create_expense", got[0].Parts[0].FunctionCall.Name)
}
