package pgsql

import (
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	documentRepo := newPgxDocumentRepository(dbPool)
	employeeRepo := newPgxEmployeeRepository(dbPool)
	statusCodeRepo := newPgxStatusCodeRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DocumentRepo:     documentRepo,
		EmployeeRepo:     employeeRepo,
		StatusCodeRepo:   statusCodeRepo,
		NotificationRepo: notificationRepo,
	}
}
