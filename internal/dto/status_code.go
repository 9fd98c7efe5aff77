package dto

import "github.com/hrplane/approval_flow_app/internal/core/domain"

// StatusCodeResponse defines data returned for one vocabulary entry.
type StatusCodeResponse struct {
	StatusCodeID string `json:"statusCodeID"`
	Category     string `json:"category"`
	Name         string `json:"name"`
}

// ToStatusCodeResponse converts domain.StatusCode to DTO.
func ToStatusCodeResponse(sc domain.StatusCode) StatusCodeResponse {
	return StatusCodeResponse{
		StatusCodeID: sc.StatusCodeID,
		Category:     string(sc.Category),
		Name:         sc.Name,
	}
}

// ToStatusCodeResponses converts a slice of vocabulary entries.
func ToStatusCodeResponses(codes []domain.StatusCode) []StatusCodeResponse {
	out := make([]StatusCodeResponse, len(codes))
	for i, sc := range codes {
		out[i] = ToStatusCodeResponse(sc)
	}
	return out
}
