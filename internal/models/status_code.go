package models

// StatusCategory scopes symbolic status names ("DOC" vs "LINE").
type StatusCategory string

// StatusCode is one row of the status vocabulary lookup table.
type StatusCode struct {
	StatusCodeID string         `json:"statusCodeID"`
	Category     StatusCategory `json:"category"`
	Name         string         `json:"name"`
	AuditFields
}
