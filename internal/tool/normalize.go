package tool

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// Argument extraction. Model-supplied args arrive as loosely typed JSON;
// these helpers coerce them without ever panicking.

func argString(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func argInt(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

var amountJunk = regexp.MustCompile(`[^0-9.,\-]`)

// normalizeAmount coerces a model-supplied amount into a positive value
// rounded to two decimals. Voice-transcribed amounts arrive as strings with
// currency words and locale separators, so junk is stripped and a decimal
// comma becomes a dot.
func normalizeAmount(v interface{}) (float64, error) {
	var amount float64
	switch a := v.(type) {
	case float64:
		amount = a
	case string:
		cleaned := amountJunk.ReplaceAllString(a, "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		if cleaned == "" {
			return 0, kerrors.InvalidInput("montant manquant")
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, kerrors.InvalidInput(fmt.Sprintf("montant invalide: %q", a))
		}
		amount = parsed
	case nil:
		return 0, kerrors.InvalidInput("montant manquant")
	default:
		return 0, kerrors.InvalidInput(fmt.Sprintf("montant invalide: %v", v))
	}

	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, kerrors.InvalidInput("le montant doit être strictement positif")
	}
	return math.Round(amount*100) / 100, nil
}

// normalizeDate resolves a model-supplied date to YYYY-MM-DD. Accepts ISO
// dates, ISO timestamps, and d/m/y variants with one- or two-digit fields.
// Empty input means today.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().Format("2006-01-02")
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// d/m/y with / - or . separators, two- or four-digit year.
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(fields) == 3 {
		day, errD := strconv.Atoi(fields[0])
		month, errM := strconv.Atoi(fields[1])
		year, errY := strconv.Atoi(fields[2])
		if errD == nil && errM == nil && errY == nil {
			if year < 100 {
				year += 2000
			}
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if t.Day() == day && int(t.Month()) == month {
				return t.Format("2006-01-02")
			}
		}
	}

	return time.Now().Format("2006-01-02")
}

// foldAccents lowercases and strips diacritics so keyword matching works on
// "Alimentation", "alimentation" and "véto" alike.
func foldAccents(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var expenseCategories = []struct {
	category string
	keywords []string
}{
	{"alimentation", []string{"aliment", "mais", "soja", "son de ble", "tourteau", "provende", "nourriture", "farine"}},
	{"vaccins", []string{"vaccin"}},
	{"medicaments", []string{"medicament", "antibiotique", "deparasitant", "vitamine", "fer", "produit veterinaire"}},
	{"veterinaire", []string{"veterinaire", "veto", "consultation", "castration"}},
	{"entretien", []string{"entretien", "reparation", "nettoyage", "desinfection", "paille"}},
	{"equipements", []string{"equipement", "materiel", "abreuvoir", "mangeoire", "brouette", "seau"}},
	{"amenagement_batiment", []string{"batiment", "porcherie", "enclos", "construction", "amenagement", "toiture", "ciment"}},
	{"equipement_lourd", []string{"pompe", "groupe electrogene", "tricycle", "broyeur", "machine"}},
	{"achat_sujet", []string{"porcelet", "truie", "verrat", "achat de porc", "sujet"}},
}

var revenueCategories = []struct {
	category string
	keywords []string
}{
	{"vente_porc", []string{"vente", "vendu", "porc", "porcelet", "truie", "verrat", "carcasse"}},
	{"subvention", []string{"subvention", "aide", "don", "prime", "appui"}},
	{"vente_autre", []string{"fumier", "lisier", "location", "prestation", "saillie"}},
}

// inferExpenseCategory maps free text to a ledger category, defaulting to
// "autre" when nothing matches.
func inferExpenseCategory(text string) string {
	folded := foldAccents(text)
	for _, c := range expenseCategories {
		for _, kw := range c.keywords {
			if strings.Contains(folded, kw) {
				return c.category
			}
		}
	}
	return "autre"
}

func inferRevenueCategory(text string) string {
	folded := foldAccents(text)
	for _, c := range revenueCategories {
		for _, kw := range c.keywords {
			if strings.Contains(folded, kw) {
				return c.category
			}
		}
	}
	return "autre"
}

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 10
)

// coerceLimit clamps a requested result count into [1, maxSearchLimit].
func coerceLimit(args map[string]interface{}, key string) int {
	n, ok := argInt(args, key)
	if !ok || n <= 0 {
		return defaultSearchLimit
	}
	if n > maxSearchLimit {
		return maxSearchLimit
	}
	return n
}

// parsePeriodDays maps the conversational period names to a day span.
// Unknown values fall back to 30 days.
func parsePeriodDays(period string) int {
	switch foldAccents(period) {
	case "semaine", "7j", "week":
		return 7
	case "trimestre", "90j", "quarter":
		return 90
	default:
		return 30
	}
}
