package tool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"number", float64(50000), 50000},
		{"numeric string", "50000", 50000},
		{"currency words", "50 000 FCFA", 50000},
		{"decimal comma", "1250,50", 1250.50},
		{"rounds to two decimals", 10.999, 11},
		{"rounds down", 10.994, 10.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeAmountRejects(t *testing.T) {
	for name, input := range map[string]interface{}{
		"nil":        nil,
		"zero":       float64(0),
		"negative":   float64(-100),
		"neg string": "-100",
		"words only": "beaucoup",
		"empty":      "",
		"bool":       true,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := normalizeAmount(input)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso", "2026-03-15", "2026-03-15"},
		{"iso timestamp", "2026-03-15T10:30:00Z", "2026-03-15"},
		{"slash dmy", "15/03/2026", "2026-03-15"},
		{"single digits", "5/3/2026", "2026-03-05"},
		{"two digit year", "15/03/26", "2026-03-15"},
		{"dotted", "15.03.2026", "2026-03-15"},
		{"empty means today", "", today},
		{"gibberish means today", "hier soir", today},
		{"impossible date means today", "31/02/2026", today},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeDate(tt.input))
		})
	}
}

func TestInferExpenseCategory(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Sac de provende pour les porcs", "alimentation"},
		{"Vaccin peste porcine", "vaccins"},
		{"Déparasitant pour le lot", "medicaments"},
		{"visite du vétérinaire", "veterinaire"},
		{"désinfection de la porcherie", "entretien"},
		{"nouvelle mangeoire", "equipements"},
		{"ciment pour l'enclos", "amenagement_batiment"},
		{"réparation de la pompe", "entretien"},
		{"Achat de 3 porcelets", "achat_sujet"},
		{"frais divers", "autre"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferExpenseCategory(tt.text))
		})
	}
}

func TestInferRevenueCategory(t *testing.T) {
	assert.Equal(t, "vente_porc", inferRevenueCategory("Vente de 2 porcelets"))
	assert.Equal(t, "subvention", inferRevenueCategory("Subvention du programme agricole"))
	assert.Equal(t, "vente_autre", inferRevenueCategory("fumier livré au maraîcher"))
	assert.Equal(t, "autre", inferRevenueCategory("remboursement divers"))
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "veterinaire", foldAccents("Vétérinaire"))
	assert.Equal(t, "mais", foldAccents("MAÏS"))
}

func TestCoerceLimit(t *testing.T) {
	assert.Equal(t, 5, coerceLimit(map[string]interface{}{}, "limit"))
	assert.Equal(t, 3, coerceLimit(map[string]interface{}{"limit": float64(3)}, "limit"))
	assert.Equal(t, 10, coerceLimit(map[string]interface{}{"limit": float64(50)}, "limit"))
	assert.Equal(t, 5, coerceLimit(map[string]interface{}{"limit": float64(-1)}, "limit"))
	assert.Equal(t, 7, coerceLimit(map[string]interface{}{"limit": "7"}, "limit"))
}

func TestParsePeriodDays(t *testing.T) {
	assert.Equal(t, 7, parsePeriodDays("semaine"))
	assert.Equal(t, 30, parsePeriodDays("mois"))
	assert.Equal(t, 90, parsePeriodDays("trimestre"))
	assert.Equal(t, 30, parsePeriodDays(""))
}

func TestArgString(t *testing.T) {
	args := map[string]interface{}{
		"s": "  texte  ",
		"n": float64(42),
		"b": true,
	}
	assert.Equal(t, "texte", argString(args, "s"))
	assert.Equal(t, "42", argString(args, "n"))
	assert.Equal(t, "true", argString(args, "b"))
	assert.Equal(t, "", argString(args, "absent"))
}
