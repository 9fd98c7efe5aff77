package mapping

import (
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/hrplane/approval_flow_app/internal/models"
)

// ToModelDocument converts a domain ApprovalDocument to a model ApprovalDocument.
// Lines and references travel separately; the document row carries neither.
func ToModelDocument(d domain.ApprovalDocument) models.ApprovalDocument {
	return models.ApprovalDocument{
		DocumentID:  d.DocumentID,
		Title:       d.Title,
		Content:     d.Content,
		Status:      models.DocumentStatus(d.Status),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model ApprovalDocument to a domain ApprovalDocument
func ToDomainDocument(m models.ApprovalDocument) domain.ApprovalDocument {
	return domain.ApprovalDocument{
		DocumentID:  m.DocumentID,
		Title:       m.Title,
		Content:     m.Content,
		Status:      domain.DocumentStatus(m.Status),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain ApprovalLine to a model ApprovalLine
func ToModelLine(d domain.ApprovalLine) models.ApprovalLine {
	return models.ApprovalLine{
		LineID:        d.LineID,
		DocumentID:    d.DocumentID,
		ApprovalOrder: d.ApprovalOrder,
		ApproverID:    d.ApproverID,
		Status:        models.LineStatus(d.Status),
		Comment:       d.Comment,
		DecidedAt:     d.DecidedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model ApprovalLine to a domain ApprovalLine
func ToDomainLine(m models.ApprovalLine) domain.ApprovalLine {
	return domain.ApprovalLine{
		LineID:        m.LineID,
		DocumentID:    m.DocumentID,
		ApprovalOrder: m.ApprovalOrder,
		ApproverID:    m.ApproverID,
		Status:        domain.LineStatus(m.Status),
		Comment:       m.Comment,
		DecidedAt:     m.DecidedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model ApprovalLines to domain ApprovalLines
func ToDomainLineSlice(ms []models.ApprovalLine) []domain.ApprovalLine {
	ds := make([]domain.ApprovalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

// ToModelReference converts a domain ApprovalReference to a model ApprovalReference
func ToModelReference(d domain.ApprovalReference) models.ApprovalReference {
	return models.ApprovalReference{
		ReferenceID:   d.ReferenceID,
		DocumentID:    d.DocumentID,
		EmployeeID:    d.EmployeeID,
		FirstViewedAt: d.FirstViewedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReference converts a model ApprovalReference to a domain ApprovalReference
func ToDomainReference(m models.ApprovalReference) domain.ApprovalReference {
	return domain.ApprovalReference{
		ReferenceID:   m.ReferenceID,
		DocumentID:    m.DocumentID,
		EmployeeID:    m.EmployeeID,
		FirstViewedAt: m.FirstViewedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReferenceSlice converts a slice of model ApprovalReferences to domain ApprovalReferences
func ToDomainReferenceSlice(ms []models.ApprovalReference) []domain.ApprovalReference {
	ds := make([]domain.ApprovalReference, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReference(m)
	}
	return ds
}
