package dto

import (
	"time"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
)

// CreateEmployeeRequest defines data for creating a new employee.
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

// EmployeeResponse defines data returned for an employee.
type EmployeeResponse struct {
	EmployeeID string    `json:"employeeID"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToEmployeeResponse converts domain.Employee to DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Username:   e.Username,
		CreatedAt:  e.CreatedAt,
	}
}
