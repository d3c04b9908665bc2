package store

import (
	"context"
	"time"

	"mamoolah/internal/models"
)

type InvoiceStore struct {
	db DB
}

func NewInvoiceStore(db DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

type InvoiceInput struct {
	ID        string
	CompanyID string
	ClientID  string
	Number    string
	IssuedBy  *string
	Subtotal  int64
	TaxAmount int64
	Total     int64
	Balance   int64
	Status    string
	IssueDate time.Time
	DueDate   time.Time
}

func (s *InvoiceStore) Create(ctx context.Context, tx Execer, input InvoiceInput) error {
	query := `
		INSERT INTO invoices (id, company_id, client_id, number, issued_by, subtotal, tax_amount, total, balance, status, issue_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CompanyID, input.ClientID, input.Number, input.IssuedBy,
		input.Subtotal, input.TaxAmount, input.Total, input.Balance, input.Status,
		input.IssueDate, input.DueDate,
	)
	return err
}

func (s *InvoiceStore) GetByID(ctx context.Context, companyID, invoiceID string) (models.Invoice, error) {
	var row models.Invoice
	err := s.db.GetContext(ctx, &row, `
		SELECT id, company_id, client_id, number, issued_by, subtotal, tax_amount, total, balance, status, issue_date, due_date, created_at
		FROM invoices
		WHERE company_id = $1 AND id = $2
	`, companyID, invoiceID)
	if err != nil {
		return models.Invoice{}, err
	}
	return row, nil
}

func (s *InvoiceStore) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, company_id, client_id, number, issued_by, subtotal, tax_amount, total, balance, status, issue_date, due_date, created_at
		FROM invoices
		WHERE company_id = $1
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplyPayment reduces the open balance and flips status to paid when the
// balance reaches zero. Used by receivePayment postings that reference an
// invoice.
func (s *InvoiceStore) ApplyPayment(ctx context.Context, tx Execer, companyID, invoiceID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET balance = balance - $1,
		    status = CASE WHEN balance - $1 <= 0 THEN 'paid' ELSE status END
		WHERE company_id = $2 AND id = $3
	`, amount, companyID, invoiceID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
