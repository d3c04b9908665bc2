package handlers

import (
	"context"
	"time"

	"mamoolah/internal/config"
	"mamoolah/internal/models"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
	"mamoolah/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubCompanyStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.CompanyInput) error
	getByIDFn    func(ctx context.Context, companyID string) (models.Company, error)
	updateFn     func(ctx context.Context, tx store.Execer, companyID string, input store.CompanyInput) (int64, error)
	listByUserFn func(ctx context.Context, userID string) ([]models.Company, error)
}

func (s stubCompanyStore) Create(ctx context.Context, tx store.Execer, input store.CompanyInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubCompanyStore) GetByID(ctx context.Context, companyID string) (models.Company, error) {
	if s.getByIDFn == nil {
		return models.Company{ID: companyID, GSTRate: "5", PSTRate: "9.975", HSTRate: "13", Currency: "CAD"}, nil
	}
	return s.getByIDFn(ctx, companyID)
}

func (s stubCompanyStore) Update(ctx context.Context, tx store.Execer, companyID string, input store.CompanyInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, companyID, input)
}

func (s stubCompanyStore) ListByUser(ctx context.Context, userID string) ([]models.Company, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubRoleStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, userID, companyID, role string) error
	getFn           func(ctx context.Context, userID, companyID string) (models.CompanyRole, error)
	listByCompanyFn func(ctx context.Context, companyID string) ([]models.CompanyRole, error)
}

func (s stubRoleStore) Create(ctx context.Context, tx store.Execer, id, userID, companyID, role string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, companyID, role)
}

func (s stubRoleStore) Get(ctx context.Context, userID, companyID string) (models.CompanyRole, error) {
	if s.getFn == nil {
		return models.CompanyRole{UserID: userID, CompanyID: companyID, Role: store.RoleOwner}, nil
	}
	return s.getFn(ctx, userID, companyID)
}

func (s stubRoleStore) ListByCompany(ctx context.Context, companyID string) ([]models.CompanyRole, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID)
}

type stubAccountStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.AccountInput) error
	getByIDFn       func(ctx context.Context, companyID, accountID string) (models.Account, error)
	listByCompanyFn func(ctx context.Context, companyID string) ([]models.Account, error)
	updateFn        func(ctx context.Context, tx store.Execer, companyID, accountID string, input store.AccountUpdate) (int64, error)
	deleteFn        func(ctx context.Context, tx store.Execer, companyID, accountID string) (int64, error)
	selfCheckFn     func(ctx context.Context, companyID string) ([]store.AccountBalanceSummary, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, input store.AccountInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubAccountStore) GetByID(ctx context.Context, companyID, accountID string) (models.Account, error) {
	if s.getByIDFn == nil {
		return models.Account{ID: accountID, CompanyID: companyID, Currency: "CAD"}, nil
	}
	return s.getByIDFn(ctx, companyID, accountID)
}

func (s stubAccountStore) ListByCompany(ctx context.Context, companyID string) ([]models.Account, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID)
}

func (s stubAccountStore) Update(ctx context.Context, tx store.Execer, companyID, accountID string, input store.AccountUpdate) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, companyID, accountID, input)
}

func (s stubAccountStore) Delete(ctx context.Context, tx store.Execer, companyID, accountID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, companyID, accountID)
}

func (s stubAccountStore) SelfCheck(ctx context.Context, companyID string) ([]store.AccountBalanceSummary, error) {
	if s.selfCheckFn == nil {
		return nil, nil
	}
	return s.selfCheckFn(ctx, companyID)
}

type stubEntryStore struct {
	listByTransactionFn func(ctx context.Context, transactionID string) ([]models.Entry, error)
}

func (s stubEntryStore) ListByTransaction(ctx context.Context, transactionID string) ([]models.Entry, error) {
	if s.listByTransactionFn == nil {
		return nil, nil
	}
	return s.listByTransactionFn(ctx, transactionID)
}

type stubTransactionStore struct {
	getByIDFn       func(ctx context.Context, companyID, transactionID string) (models.Transaction, error)
	listByCompanyFn func(ctx context.Context, companyID, transactionType string, limit, offset int) ([]models.Transaction, error)
	updateHeaderFn  func(ctx context.Context, tx store.Execer, companyID, transactionID string, input store.TransactionHeaderUpdate) (int64, error)
	deleteFn        func(ctx context.Context, tx store.Execer, companyID, transactionID string) (int64, error)
}

func (s stubTransactionStore) GetByID(ctx context.Context, companyID, transactionID string) (models.Transaction, error) {
	if s.getByIDFn == nil {
		return models.Transaction{ID: transactionID, CompanyID: companyID}, nil
	}
	return s.getByIDFn(ctx, companyID, transactionID)
}

func (s stubTransactionStore) ListByCompany(ctx context.Context, companyID, transactionType string, limit, offset int) ([]models.Transaction, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID, transactionType, limit, offset)
}

func (s stubTransactionStore) UpdateHeader(ctx context.Context, tx store.Execer, companyID, transactionID string, input store.TransactionHeaderUpdate) (int64, error) {
	if s.updateHeaderFn == nil {
		return 1, nil
	}
	return s.updateHeaderFn(ctx, tx, companyID, transactionID, input)
}

func (s stubTransactionStore) Delete(ctx context.Context, tx store.Execer, companyID, transactionID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, companyID, transactionID)
}

type stubSupplierStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.SupplierInput) error
	getByIDFn       func(ctx context.Context, companyID, supplierID string) (models.Supplier, error)
	listByCompanyFn func(ctx context.Context, companyID string) ([]models.Supplier, error)
	updateFn        func(ctx context.Context, tx store.Execer, companyID, supplierID string, input store.SupplierInput) (int64, error)
	deleteFn        func(ctx context.Context, tx store.Execer, companyID, supplierID string) (int64, error)
}

func (s stubSupplierStore) Create(ctx context.Context, tx store.Execer, input store.SupplierInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubSupplierStore) GetByID(ctx context.Context, companyID, supplierID string) (models.Supplier, error) {
	if s.getByIDFn == nil {
		return models.Supplier{ID: supplierID, CompanyID: companyID}, nil
	}
	return s.getByIDFn(ctx, companyID, supplierID)
}

func (s stubSupplierStore) ListByCompany(ctx context.Context, companyID string) ([]models.Supplier, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID)
}

func (s stubSupplierStore) Update(ctx context.Context, tx store.Execer, companyID, supplierID string, input store.SupplierInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, companyID, supplierID, input)
}

func (s stubSupplierStore) Delete(ctx context.Context, tx store.Execer, companyID, supplierID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, companyID, supplierID)
}

type stubClientStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.ClientInput) error
	getByIDFn       func(ctx context.Context, companyID, clientID string) (models.Client, error)
	listByCompanyFn func(ctx context.Context, companyID string) ([]models.Client, error)
	updateFn        func(ctx context.Context, tx store.Execer, companyID, clientID string, input store.ClientInput) (int64, error)
	deleteFn        func(ctx context.Context, tx store.Execer, companyID, clientID string) (int64, error)
}

func (s stubClientStore) Create(ctx context.Context, tx store.Execer, input store.ClientInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubClientStore) GetByID(ctx context.Context, companyID, clientID string) (models.Client, error) {
	if s.getByIDFn == nil {
		return models.Client{ID: clientID, CompanyID: companyID}, nil
	}
	return s.getByIDFn(ctx, companyID, clientID)
}

func (s stubClientStore) ListByCompany(ctx context.Context, companyID string) ([]models.Client, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID)
}

func (s stubClientStore) Update(ctx context.Context, tx store.Execer, companyID, clientID string, input store.ClientInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, companyID, clientID, input)
}

func (s stubClientStore) Delete(ctx context.Context, tx store.Execer, companyID, clientID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, companyID, clientID)
}

type stubInvoiceStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.InvoiceInput) error
	getByIDFn       func(ctx context.Context, companyID, invoiceID string) (models.Invoice, error)
	listByCompanyFn func(ctx context.Context, companyID string, limit, offset int) ([]models.Invoice, error)
}

func (s stubInvoiceStore) Create(ctx context.Context, tx store.Execer, input store.InvoiceInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubInvoiceStore) GetByID(ctx context.Context, companyID, invoiceID string) (models.Invoice, error) {
	if s.getByIDFn == nil {
		return models.Invoice{ID: invoiceID, CompanyID: companyID}, nil
	}
	return s.getByIDFn(ctx, companyID, invoiceID)
}

func (s stubInvoiceStore) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Invoice, error) {
	if s.listByCompanyFn == nil {
		return nil, nil
	}
	return s.listByCompanyFn(ctx, companyID, limit, offset)
}

type stubAuditStore struct {
	logFn         func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listByActorFn func(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error) {
	if s.listByActorFn == nil {
		return nil, nil
	}
	return s.listByActorFn(ctx, actorID, limit, offset)
}

type stubService struct {
	postFn func(ctx context.Context, req services.PostingRequest) (services.CommittedTransaction, error)
}

func (s stubService) Post(ctx context.Context, req services.PostingRequest) (services.CommittedTransaction, error) {
	if s.postFn == nil {
		return services.CommittedTransaction{ID: "tx-1"}, nil
	}
	return s.postFn(ctx, req)
}

// testDeps collects handler dependencies so each test only overrides the
// stores it cares about.
type testDeps struct {
	txRunner     fakeTxRunner
	users        stubUserStore
	companies    stubCompanyStore
	roles        stubRoleStore
	accounts     stubAccountStore
	entries      stubEntryStore
	transactions stubTransactionStore
	suppliers    stubSupplierStore
	clients      stubClientStore
	invoices     stubInvoiceStore
	audit        stubAuditStore
	service      stubService
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		JWTSecret:       "secret",
		TokenTTL:        time.Minute,
		DefaultCurrency: "CAD",
	}
	return New(deps.txRunner, cfg, deps.users, deps.companies, deps.roles, deps.accounts,
		deps.entries, deps.transactions, deps.suppliers, deps.clients, deps.invoices,
		deps.audit, deps.service, websocket.NewHub())
}
