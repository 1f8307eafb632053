package domain

import "time"

type Category string

const (
	CategoryIdentity Category = "identity_like"
	CategoryInvoice  Category = "invoice_like"
	CategoryPayment  Category = "payment_like"
	CategoryGeneric  Category = "generic"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryIdentity, CategoryInvoice, CategoryPayment, CategoryGeneric:
		return true
	default:
		return false
	}
}

type DocumentStatus string

const (
	StatusVerified DocumentStatus = "Vérifié"
	StatusError    DocumentStatus = "Erreur"
)

const (
	ValidUntilNotApplicable = "N/A"
	TagProcessingError      = "Erreur de Traitement"
	DocumentTypeProcessing  = "Processing Error"
	DateLayoutFR            = "02/01/2006"
)

type Document struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Category      Category       `json:"category" yaml:"category"`
	Status        DocumentStatus `json:"status" yaml:"status"`
	ValidUntil    string         `json:"validUntil" yaml:"validUntil"`
	AddedOn       string         `json:"addedOn" yaml:"addedOn"`
	Tags          []string       `json:"tags" yaml:"tags"`
	Size          string         `json:"size" yaml:"size"`
	SizeBytes     int64          `json:"sizeBytes" yaml:"sizeBytes"`
	MimeType      string         `json:"mimeType,omitempty" yaml:"mimeType"`
	ContentRef    string         `json:"contentRef,omitempty" yaml:"contentRef"`
	ExtractedInfo *RawExtraction `json:"extractedInfo,omitempty" yaml:"-"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"-"`
}

// UploadedFile is one file of an upload batch.
type UploadedFile struct {
	Name       string
	MimeType   string
	Size       int64
	Data       []byte
	StorageKey string
}

// BatchSubmission is the queued form of an asynchronous upload batch.
type BatchSubmission struct {
	BatchID     string          `json:"batch_id"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Files       []SubmittedFile `json:"files"`
}

type SubmittedFile struct {
	Name       string `json:"name"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	StorageKey string `json:"storage_key"`
}
