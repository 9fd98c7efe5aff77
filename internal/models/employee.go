package models

import "time"

// Employee represents an employee row.
type Employee struct {
	EmployeeID   string `json:"employeeID"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	AuditFields
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
