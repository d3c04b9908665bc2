package store

import (
	"context"

	"mamoolah/internal/models"
)

// Reserved chart-of-accounts codes for the input-tax accounts. The posting
// engine locates them by code within the posting company.
const (
	CodeGSTInput = 1151
	CodePSTInput = 1152
	CodeHSTInput = 1153
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

type AccountInput struct {
	ID        string
	CompanyID string
	Name      string
	Type      string
	SubType   string
	Code      *int
	Balance   int64
	Currency  string
}

// AccountUpdate carries the editable account fields. Balance is absent on
// purpose: only the posting unit of work mutates balances.
type AccountUpdate struct {
	Name    string
	Type    string
	SubType string
	Code    *int
}

type AccountBalanceSummary struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Currency          string `db:"currency"`
	StoredBalance     int64  `db:"stored_balance"`
	CalculatedBalance int64  `db:"calculated_balance"`
	Difference        int64  `db:"difference"`
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, input AccountInput) error {
	query := `
		INSERT INTO accounts (id, company_id, name, type, sub_type, code, balance, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CompanyID, input.Name, input.Type, input.SubType,
		input.Code, input.Balance, input.Currency,
	)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, companyID, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, company_id, name, type, sub_type, code, balance, currency, created_at, updated_at
		FROM accounts
		WHERE company_id = $1 AND id = $2
	`, companyID, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Tx, companyID, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, company_id, name, type, sub_type, code, balance, currency, created_at, updated_at
		FROM accounts
		WHERE company_id = $1 AND id = $2
		FOR UPDATE
	`, companyID, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByCodeForUpdate(ctx context.Context, tx Tx, companyID string, code int) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, company_id, name, type, sub_type, code, balance, currency, created_at, updated_at
		FROM accounts
		WHERE company_id = $1 AND code = $2
		FOR UPDATE
	`, companyID, code)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// AdjustBalance applies a signed delta. Balances are never overwritten
// during posting.
func (s *AccountStore) AdjustBalance(ctx context.Context, tx Execer, accountID string, delta int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) ListByCompany(ctx context.Context, companyID string) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, company_id, name, type, sub_type, code, balance, currency, created_at, updated_at
		FROM accounts
		WHERE company_id = $1
		ORDER BY code NULLS LAST, name
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) Update(ctx context.Context, tx Execer, companyID, accountID string, input AccountUpdate) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, sub_type = $3, code = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6
	`, input.Name, input.Type, input.SubType, input.Code, companyID, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) Delete(ctx context.Context, tx Execer, companyID, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE company_id = $1 AND id = $2
	`, companyID, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SelfCheck compares stored balances against the entries posted to each
// account, surfacing any drift between the two.
func (s *AccountStore) SelfCheck(ctx context.Context, companyID string) ([]AccountBalanceSummary, error) {
	var rows []AccountBalanceSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id,
		       a.name,
		       a.currency,
		       a.balance AS stored_balance,
		       COALESCE(SUM(e.debit - e.credit), 0) AS calculated_balance,
		       (a.balance - COALESCE(SUM(e.debit - e.credit), 0)) AS difference
		FROM accounts a
		LEFT JOIN transaction_entries e ON e.account_id = a.id
		WHERE a.company_id = $1
		GROUP BY a.id, a.name, a.currency, a.balance
		ORDER BY a.code NULLS LAST, a.name
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
