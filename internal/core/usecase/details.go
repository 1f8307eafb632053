package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/kirillkom/dossier/internal/core/domain"
)

const (
	detailsLabelError       = "Erreur"
	detailsLabelProcessing  = "Erreur de Traitement"
	detailsLabelInformation = "Information"

	detailsNoExtraction = "Aucune information extraite."
	detailsNothingFound = "Aucun détail spécifique n'a été extrait de l'image."

	issueMissingType = "Type de document non identifié par l'IA."
)

var hiddenDetailKeys = map[string]struct{}{
	domain.FieldRawText:    {},
	domain.FieldParseError: {},
}

// FormatDetails turns an extraction into display rows in field order. Error
// markers are shown as an "Erreur de Traitement" row, not under their key.
func FormatDetails(ext *domain.RawExtraction) []domain.DetailField {
	if ext == nil {
		return []domain.DetailField{{Label: detailsLabelError, Value: detailsNoExtraction}}
	}

	out := make([]domain.DetailField, 0, ext.Len())
	for _, f := range ext.Fields() {
		if _, hidden := hiddenDetailKeys[f.Key]; hidden {
			continue
		}
		if !f.Value.Truthy() {
			continue
		}
		label := humanizeKey(f.Key)
		if f.Value.Kind() == domain.KindError {
			label = detailsLabelProcessing
		}
		out = append(out, domain.DetailField{Label: label, Value: f.Value.Text()})
	}

	if len(out) == 0 {
		return []domain.DetailField{{Label: detailsLabelInformation, Value: detailsNothingFound}}
	}
	return out
}

// humanizeKey converts camelCase and snake_case keys to "Spaced Words".
func humanizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		case r == '_':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	label := strings.TrimSpace(b.String())
	if label == "" {
		return label
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var (
	isoDatePattern = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	frDatePattern  = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
)

// ValidateExtraction checks that a type was identified and that the document
// is not past its expiry date.
func ValidateExtraction(ext *domain.RawExtraction, now time.Time) domain.Validation {
	if !ext.Truthy(domain.FieldDocumentType) {
		return domain.Validation{IsValid: false, Issues: []string{issueMissingType}}
	}

	var issues []string
	if expiry, ok := ext.Get(domain.FieldExpiryDate); ok && expiry.Kind() == domain.KindString && expiry.Truthy() {
		if date, ok := parseExpiryDate(expiry.Text(), now.Location()); ok && date.Before(now) {
			issues = append(issues, fmt.Sprintf("Document (type: %s) semble être expiré (%s).", ext.DocumentType(), expiry.Text()))
		}
	}
	return domain.Validation{IsValid: len(issues) == 0, Issues: issues}
}

func parseExpiryDate(raw string, loc *time.Location) (time.Time, bool) {
	if m := isoDatePattern.FindStringSubmatch(raw); m != nil {
		return buildDate(m[1], m[2], m[3], loc)
	}
	if m := frDatePattern.FindStringSubmatch(raw); m != nil {
		return buildDate(m[3], m[2], m[1], loc)
	}
	return time.Time{}, false
}

func buildDate(year, month, day string, loc *time.Location) (time.Time, bool) {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}
