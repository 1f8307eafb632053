// Package classification maps extraction records to coarse categories and
// display tags using static rule tables.
package classification

import (
	"strings"

	"github.com/kirillkom/dossier/internal/core/domain"
)

type matchMode int

const (
	matchAny   matchMode = iota // any keyword is a substring
	matchAll                    // every keyword is a substring
	matchExact                  // the whole type equals a keyword
)

type categoryRule struct {
	mode     matchMode
	keywords []string
	category domain.Category
}

// categoryRules is evaluated top to bottom; the first satisfied rule wins.
var categoryRules = []categoryRule{
	{mode: matchAny, keywords: []string{"id", "passport", "license", "permit", "carte", "livret"}, category: domain.CategoryIdentity},
	{mode: matchAny, keywords: []string{"invoice", "bill", "receipt", "quittance", "facture"}, category: domain.CategoryInvoice},
	{mode: matchAny, keywords: []string{"payslip", "paystub", "payroll", "salary statement", "fiche de paie"}, category: domain.CategoryPayment},
	{mode: matchAny, keywords: []string{"contract", "agreement", "attestation", "certificate"}, category: domain.CategoryGeneric},
	{mode: matchAll, keywords: []string{"statement", "bank"}, category: domain.CategoryPayment},
	{mode: matchExact, keywords: []string{"image", "photo", "picture"}, category: domain.CategoryIdentity},
}

func (r categoryRule) matches(docType string) bool {
	switch r.mode {
	case matchAll:
		for _, kw := range r.keywords {
			if !strings.Contains(docType, kw) {
				return false
			}
		}
		return true
	case matchExact:
		for _, kw := range r.keywords {
			if docType == kw {
				return true
			}
		}
		return false
	default:
		return containsAny(docType, r.keywords)
	}
}

// Classify looks only at the documentType field.
func Classify(ext *domain.RawExtraction) domain.Category {
	if !ext.Truthy(domain.FieldDocumentType) {
		return domain.CategoryGeneric
	}
	docType := strings.ToLower(ext.DocumentType())
	for _, rule := range categoryRules {
		if rule.matches(docType) {
			return rule.category
		}
	}
	return domain.CategoryGeneric
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
