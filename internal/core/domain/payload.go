package domain

type PayloadKind string

const (
	PayloadImage   PayloadKind = "image"
	PayloadText    PayloadKind = "text"
	PayloadFailure PayloadKind = "failure"
)

// Payload is the normalized content handed to the extraction service.
// Failure payloads carry a ready-made extraction record and skip the service.
type Payload struct {
	Kind     PayloadKind
	MimeType string
	Data     []byte
	Text     string
	Hint     string
	Failure  *RawExtraction
}

func ImagePayload(mimeType string, data []byte, hint string) Payload {
	return Payload{Kind: PayloadImage, MimeType: mimeType, Data: data, Hint: hint}
}

func TextPayload(text, hint string) Payload {
	return Payload{Kind: PayloadText, Text: text, Hint: hint}
}

func FailurePayload(documentType, errMessage, hint string) Payload {
	return Payload{
		Kind: PayloadFailure,
		Hint: hint,
		Failure: NewRawExtraction(
			Field{Key: FieldDocumentType, Value: StringValue(documentType)},
			Field{Key: FieldError, Value: ErrorValue(errMessage)},
		),
	}
}
