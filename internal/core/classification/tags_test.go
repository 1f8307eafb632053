package classification

import (
	"sort"
	"testing"

	"github.com/kirillkom/dossier/internal/core/domain"
)

func str(key, value string) domain.Field {
	return domain.Field{Key: key, Value: domain.StringValue(value)}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func TestGenerateTagsElectricityBill(t *testing.T) {
	ext := domain.NewRawExtraction(
		str(domain.FieldDocumentType, "Facture Électricité"),
		str("provider", "EDF"),
		str("amount", "75.50"),
	)
	category := Classify(ext)
	if category != domain.CategoryInvoice {
		t.Fatalf("expected invoice_like, got %s", category)
	}

	got := GenerateTags(ext, category)
	want := []string{TagFactureElectricite, TagJustificatifDomicile}
	if !sameSet(got, want) {
		t.Fatalf("GenerateTags() = %v, want %v", got, want)
	}
}

func TestGenerateTagsEDFValueAddsHousingProof(t *testing.T) {
	ext := domain.NewRawExtraction(
		str(domain.FieldDocumentType, "Relevé"),
		str("providerName", "Edf Particuliers"),
	)
	got := GenerateTags(ext, Classify(ext))
	if !contains(got, TagFactureElectricite) || !contains(got, TagJustificatifDomicile) {
		t.Fatalf("expected electricity and housing tags, got %v", got)
	}
}

func TestGenerateTagsNeverEmpty(t *testing.T) {
	inputs := []*domain.RawExtraction{
		nil,
		domain.NewRawExtraction(),
		domain.NewRawExtraction(str(domain.FieldDocumentType, "")),
		domain.NewRawExtraction(str(domain.FieldDocumentType, "document")),
		domain.NewRawExtraction(domain.Field{Key: "count", Value: domain.NumberValue(3)}),
	}
	categories := []domain.Category{
		domain.CategoryIdentity, domain.CategoryInvoice, domain.CategoryPayment, domain.CategoryGeneric,
	}
	for _, ext := range inputs {
		for _, category := range categories {
			if got := GenerateTags(ext, category); len(got) == 0 {
				t.Fatalf("GenerateTags(%v, %s) returned no tags", ext, category)
			}
		}
	}
}

func TestGenerateTagsIsIdempotent(t *testing.T) {
	ext := domain.NewRawExtraction(
		str(domain.FieldDocumentType, "Bulletin de salaire"),
		str("employer", "ACME"),
		str("iban", "FR76 RIB attached"),
	)
	category := Classify(ext)
	first := GenerateTags(ext, category)
	second := GenerateTags(ext, category)
	if !sameSet(first, second) {
		t.Fatalf("expected identical tag sets, got %v and %v", first, second)
	}
}

func TestGenerateTagsDeduplicates(t *testing.T) {
	ext := domain.NewRawExtraction(
		str(domain.FieldDocumentType, "Passeport"),
		str("note", "passport passeport"),
	)
	got := GenerateTags(ext, domain.CategoryIdentity)
	if !sameSet(got, []string{TagPasseport}) {
		t.Fatalf("expected single passport tag, got %v", got)
	}
}

func TestGenerateTagsInvoiceTopUp(t *testing.T) {
	ext := domain.NewRawExtraction(str(domain.FieldDocumentType, "Invoice"))
	got := GenerateTags(ext, domain.CategoryInvoice)
	if !sameSet(got, []string{TagFactureGenerale}) {
		t.Fatalf("expected generic invoice tag, got %v", got)
	}
}

func TestGenerateTagsPaymentTopUp(t *testing.T) {
	statement := domain.NewRawExtraction(str(domain.FieldDocumentType, "Bank Statement"))
	got := GenerateTags(statement, domain.CategoryPayment)
	if !sameSet(got, []string{TagReleveBancaire}) {
		t.Fatalf("expected bank statement tag, got %v", got)
	}

	payroll := domain.NewRawExtraction(str(domain.FieldDocumentType, "Payroll summary"))
	got = GenerateTags(payroll, domain.CategoryPayment)
	if !sameSet(got, []string{TagDocumentPaiement}) {
		t.Fatalf("expected generic payment tag, got %v", got)
	}

	payslip := domain.NewRawExtraction(str(domain.FieldDocumentType, "Payslip"))
	got = GenerateTags(payslip, domain.CategoryPayment)
	if !sameSet(got, []string{TagFichePaie}) {
		t.Fatalf("expected payslip tag without top-up, got %v", got)
	}
}

func TestGenerateTagsIdentityHasNoTopUp(t *testing.T) {
	ext := domain.NewRawExtraction(str(domain.FieldDocumentType, "Permit"))
	got := GenerateTags(ext, domain.CategoryIdentity)
	if !sameSet(got, []string{"Permit"}) {
		t.Fatalf("expected synthesized tag only, got %v", got)
	}
}

func TestGenerateTagsHousingTaxKeyword(t *testing.T) {
	ext := domain.NewRawExtraction(str(domain.FieldDocumentType, "Avis de taxe d'habitation"))
	got := GenerateTags(ext, Classify(ext))
	if !contains(got, TagJustificatifDomicile) {
		t.Fatalf("expected housing proof tag, got %v", got)
	}
}

func TestGenerateTagsSynthesizesTitleCasedType(t *testing.T) {
	ext := domain.NewRawExtraction(str(domain.FieldDocumentType, "membership_CARD  renewal"))
	got := GenerateTags(ext, domain.CategoryGeneric)
	if !sameSet(got, []string{"Membership Card Renewal"}) {
		t.Fatalf("unexpected synthesized tag: %v", got)
	}
}

func TestGenerateTagsGenericPlaceholderFallsBack(t *testing.T) {
	for _, docType := range []string{"Generic Document", "generic_document", "Document"} {
		ext := domain.NewRawExtraction(str(domain.FieldDocumentType, docType))
		got := GenerateTags(ext, domain.CategoryGeneric)
		if !sameSet(got, []string{TagDocumentImportant}) {
			t.Fatalf("GenerateTags(%q) = %v, want Document Important", docType, got)
		}
	}
}

func TestCatalogHasEveryDictionaryTag(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != len(tagDictionary)+4 {
		t.Fatalf("unexpected catalog size %d", len(catalog))
	}
	if !contains(catalog, TagAttestationGenerale) {
		t.Fatalf("expected fallback tags in catalog")
	}
}

func contains(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
