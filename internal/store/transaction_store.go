package store

import (
	"context"
	"fmt"
	"time"

	"mamoolah/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID              string
	CompanyID       string
	TransactionDate time.Time
	TransactionType string
	Amount          int64
	TaxCode         string
	InvoiceID       *string
	SupplierID      *string
	Currency        string
	ProcessedBy     string
	Status          string
	Notes           *string
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, company_id, transaction_date, transaction_type, amount, tax_code,
		                          invoice_id, supplier_id, currency, processed_by, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CompanyID, input.TransactionDate, input.TransactionType, input.Amount,
		input.TaxCode, input.InvoiceID, input.SupplierID, input.Currency, input.ProcessedBy,
		input.Status, input.Notes,
	)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, companyID, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT id, company_id, transaction_date, transaction_type, amount, tax_code,
		       invoice_id, supplier_id, currency, processed_by, status, notes, created_at
		FROM transactions
		WHERE company_id = $1 AND id = $2
	`, companyID, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) ListByCompany(ctx context.Context, companyID, transactionType string, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT id, company_id, transaction_date, transaction_type, amount, tax_code,
		       invoice_id, supplier_id, currency, processed_by, status, notes, created_at
		FROM transactions
		WHERE company_id = $1
	`
	args := []any{companyID}
	param := 2
	if transactionType != "" {
		query += " AND transaction_type = $2"
		args = append(args, transactionType)
		param = 3
	}
	query += fmt.Sprintf(" ORDER BY transaction_date DESC, created_at DESC LIMIT $%d OFFSET $%d", param, param+1)
	args = append(args, limit, offset)
	var rows []models.Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// TransactionHeaderUpdate carries the fields an edit may change. Entries
// are immutable once committed; updating a transaction never re-runs the
// posting engine or touches balances.
type TransactionHeaderUpdate struct {
	TransactionDate time.Time
	Status          string
	Notes           *string
}

func (s *TransactionStore) UpdateHeader(ctx context.Context, tx Execer, companyID, transactionID string, input TransactionHeaderUpdate) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET transaction_date = $1, status = $2, notes = $3
		WHERE company_id = $4 AND id = $5
	`, input.TransactionDate, input.Status, input.Notes, companyID, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) Delete(ctx context.Context, tx Execer, companyID, transactionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE company_id = $1 AND id = $2
	`, companyID, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
