package domain

// StatusCategory scopes symbolic status names in the vocabulary table.
type StatusCategory string

const (
	CategoryDocument StatusCategory = "DOC"
	CategoryLine     StatusCategory = "LINE"
)

// StatusCode is one row of the administrative status vocabulary. The engine's
// state machine never works with these directly; the resolver maps them to and
// from the closed DocumentStatus/LineStatus types at the boundary.
type StatusCode struct {
	StatusCodeID string         `json:"statusCodeID"` // Primary Key (UUID)
	Category     StatusCategory `json:"category"`
	Name         string         `json:"name"` // Symbolic name, e.g. "AWAITING"
	AuditFields
}
