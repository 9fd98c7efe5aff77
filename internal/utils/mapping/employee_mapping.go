package mapping

import (
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:             d.EmployeeID,
		Name:                   d.Name,
		Username:               d.Username,
		PasswordHash:           d.PasswordHash,
		AuditFields:            ToModelAuditFields(d.AuditFields),
		RefreshTokenHash:       d.RefreshTokenHash,
		RefreshTokenExpiryTime: d.RefreshTokenExpiryTime,
		DeletedAt:              d.DeletedAt,
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:             m.EmployeeID,
		Name:                   m.Name,
		Username:               m.Username,
		PasswordHash:           m.PasswordHash,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
		RefreshTokenHash:       m.RefreshTokenHash,
		RefreshTokenExpiryTime: m.RefreshTokenExpiryTime,
		DeletedAt:              m.DeletedAt,
	}
}

// ToDomainEmployeeSlice converts a slice of model Employees to domain Employees
func ToDomainEmployeeSlice(ms []models.Employee) []domain.Employee {
	ds := make([]domain.Employee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmployee(m)
	}
	return ds
}
