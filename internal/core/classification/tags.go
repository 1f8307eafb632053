package classification

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/dossier/internal/core/domain"
)

type tagSet struct {
	order []string
	seen  map[string]struct{}
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (s *tagSet) add(tag string) {
	if _, ok := s.seen[tag]; ok {
		return
	}
	s.seen[tag] = struct{}{}
	s.order = append(s.order, tag)
}

func (s *tagSet) has(tag string) bool {
	_, ok := s.seen[tag]
	return ok
}

func (s *tagSet) anyContains(markers []string) bool {
	for _, tag := range s.order {
		if containsAny(strings.ToLower(tag), markers) {
			return true
		}
	}
	return false
}

// GenerateTags returns a non-empty, deduplicated tag list for an extraction
// and its resolved category.
func GenerateTags(ext *domain.RawExtraction, category domain.Category) []string {
	docType := strings.ToLower(ext.DocumentType())
	corpus := buildCorpus(docType, ext)
	tags := newTagSet()

	for _, entry := range tagDictionary {
		if containsAny(corpus, entry.keywords) {
			tags.add(entry.tag)
		}
	}

	switch category {
	case domain.CategoryInvoice:
		if !tags.anyContains(invoiceFamilyMarkers) {
			tags.add(TagFactureGenerale)
		}
	case domain.CategoryPayment:
		if !tags.anyContains(paymentFamilyMarkers) {
			if strings.Contains(corpus, "bank") && strings.Contains(corpus, "statement") {
				tags.add(TagReleveBancaire)
			} else {
				tags.add(TagDocumentPaiement)
			}
		}
	}

	if hasHousingTag(tags) || strings.Contains(corpus, housingTaxKeyword) {
		tags.add(TagJustificatifDomicile)
	}

	if len(tags.order) == 0 {
		trimmed := strings.TrimSpace(docType)
		if trimmed != "" && !isGenericDocumentType(trimmed) {
			tags.add(titleCase(trimmed))
		} else {
			tags.add(TagDocumentImportant)
		}
	}

	if len(tags.order) == 0 {
		tags.add(categoryFallbackTag(category))
	}

	return tags.order
}

func buildCorpus(docType string, ext *domain.RawExtraction) string {
	fields := ext.Fields()
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		values = append(values, f.Value.Text())
	}
	return docType + " " + strings.ToLower(strings.Join(values, " "))
}

func hasHousingTag(tags *tagSet) bool {
	for _, tag := range housingTags {
		if tags.has(tag) {
			return true
		}
	}
	return false
}

func isGenericDocumentType(docType string) bool {
	for _, placeholder := range genericDocumentTypes {
		if docType == placeholder {
			return true
		}
	}
	return false
}

func categoryFallbackTag(category domain.Category) string {
	switch category {
	case domain.CategoryIdentity:
		return TagImage
	case domain.CategoryInvoice:
		return TagFactureGenerale
	case domain.CategoryPayment:
		return TagDocumentPaiement
	default:
		return TagDocumentImportant
	}
}

// titleCase splits on whitespace and underscores and capitalizes each word.
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
