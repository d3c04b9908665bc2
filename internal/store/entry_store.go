package store

import (
	"context"

	"mamoolah/internal/models"
)

type EntryStore struct {
	db DB
}

func NewEntryStore(db DB) *EntryStore {
	return &EntryStore{db: db}
}

type EntryInput struct {
	ID            string
	TransactionID string
	AccountID     string
	Debit         int64
	Credit        int64
}

func (s *EntryStore) InsertEntries(ctx context.Context, tx Execer, entries []EntryInput) error {
	query := `
		INSERT INTO transaction_entries (id, transaction_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, entry.ID, entry.TransactionID, entry.AccountID, entry.Debit, entry.Credit); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntryStore) ListByTransaction(ctx context.Context, transactionID string) ([]models.Entry, error) {
	var rows []models.Entry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, transaction_id, account_id, debit, credit, created_at
		FROM transaction_entries
		WHERE transaction_id = $1
		ORDER BY created_at, id
	`, transactionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByAccount returns the net posted amount (debits minus credits) for one
// account, the figure SelfCheck compares stored balances against.
func (s *EntryStore) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM transaction_entries
		WHERE account_id = $1
	`, accountID)
	return sum, err
}
