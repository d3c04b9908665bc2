package handlers

import (
	"context"

	"mamoolah/internal/models"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type CompanyStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CompanyInput) error
	GetByID(ctx context.Context, companyID string) (models.Company, error)
	Update(ctx context.Context, tx store.Execer, companyID string, input store.CompanyInput) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Company, error)
}

type RoleStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, companyID, role string) error
	Get(ctx context.Context, userID, companyID string) (models.CompanyRole, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.CompanyRole, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, input store.AccountInput) error
	GetByID(ctx context.Context, companyID, accountID string) (models.Account, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Account, error)
	Update(ctx context.Context, tx store.Execer, companyID, accountID string, input store.AccountUpdate) (int64, error)
	Delete(ctx context.Context, tx store.Execer, companyID, accountID string) (int64, error)
	SelfCheck(ctx context.Context, companyID string) ([]store.AccountBalanceSummary, error)
}

type EntryStore interface {
	ListByTransaction(ctx context.Context, transactionID string) ([]models.Entry, error)
}

type TransactionStore interface {
	GetByID(ctx context.Context, companyID, transactionID string) (models.Transaction, error)
	ListByCompany(ctx context.Context, companyID, transactionType string, limit, offset int) ([]models.Transaction, error)
	UpdateHeader(ctx context.Context, tx store.Execer, companyID, transactionID string, input store.TransactionHeaderUpdate) (int64, error)
	Delete(ctx context.Context, tx store.Execer, companyID, transactionID string) (int64, error)
}

type SupplierStore interface {
	Create(ctx context.Context, tx store.Execer, input store.SupplierInput) error
	GetByID(ctx context.Context, companyID, supplierID string) (models.Supplier, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Supplier, error)
	Update(ctx context.Context, tx store.Execer, companyID, supplierID string, input store.SupplierInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, companyID, supplierID string) (int64, error)
}

type ClientStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ClientInput) error
	GetByID(ctx context.Context, companyID, clientID string) (models.Client, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Client, error)
	Update(ctx context.Context, tx store.Execer, companyID, clientID string, input store.ClientInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, companyID, clientID string) (int64, error)
}

type InvoiceStore interface {
	Create(ctx context.Context, tx store.Execer, input store.InvoiceInput) error
	GetByID(ctx context.Context, companyID, invoiceID string) (models.Invoice, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Invoice, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error)
}

type PostingService interface {
	Post(ctx context.Context, req services.PostingRequest) (services.CommittedTransaction, error)
}
