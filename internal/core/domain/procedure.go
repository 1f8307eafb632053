package domain

const (
	ProcedureInProgress = "En cours"
	ProcedureCompleted  = "Terminée"
)

type Procedure struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	NextStep string `json:"nextStep,omitempty"`
}

type AccessRequestStatus string

const (
	AccessPending  AccessRequestStatus = "pending"
	AccessApproved AccessRequestStatus = "approved"
	AccessRejected AccessRequestStatus = "rejected"
)

type AccessRequest struct {
	ID           int                 `json:"id"`
	Requester    string              `json:"requester"`
	DocumentID   string              `json:"documentId"`
	DocumentName string              `json:"documentName"`
	RequestDate  string              `json:"requestDate"`
	Status       AccessRequestStatus `json:"status"`
}

// DetailField is one human-readable line of the details view.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Validation struct {
	IsValid bool     `json:"isValid"`
	Issues  []string `json:"issues,omitempty"`
}

type DocumentDetails struct {
	Document   Document      `json:"document"`
	Fields     []DetailField `json:"fields"`
	Validation Validation    `json:"validation"`
}
