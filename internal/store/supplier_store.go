package store

import (
	"context"

	"mamoolah/internal/models"
)

type SupplierStore struct {
	db DB
}

func NewSupplierStore(db DB) *SupplierStore {
	return &SupplierStore{db: db}
}

type SupplierInput struct {
	ID        string
	CompanyID string
	Name      string
	Email     *string
	Phone     *string
	Taxes     string
	AccountID *string
	Notes     *string
}

func (s *SupplierStore) Create(ctx context.Context, tx Execer, input SupplierInput) error {
	query := `
		INSERT INTO suppliers (id, company_id, name, email, phone, taxes, account_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CompanyID, input.Name, input.Email, input.Phone,
		input.Taxes, input.AccountID, input.Notes,
	)
	return err
}

func (s *SupplierStore) GetByID(ctx context.Context, companyID, supplierID string) (models.Supplier, error) {
	var row models.Supplier
	err := s.db.GetContext(ctx, &row, `
		SELECT id, company_id, name, email, phone, taxes, account_id, notes, created_at
		FROM suppliers
		WHERE company_id = $1 AND id = $2
	`, companyID, supplierID)
	if err != nil {
		return models.Supplier{}, err
	}
	return row, nil
}

func (s *SupplierStore) ListByCompany(ctx context.Context, companyID string) ([]models.Supplier, error) {
	var rows []models.Supplier
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, company_id, name, email, phone, taxes, account_id, notes, created_at
		FROM suppliers
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SupplierStore) Update(ctx context.Context, tx Execer, companyID, supplierID string, input SupplierInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $1, email = $2, phone = $3, taxes = $4, account_id = $5, notes = $6
		WHERE company_id = $7 AND id = $8
	`, input.Name, input.Email, input.Phone, input.Taxes, input.AccountID, input.Notes, companyID, supplierID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SupplierStore) Delete(ctx context.Context, tx Execer, companyID, supplierID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM suppliers
		WHERE company_id = $1 AND id = $2
	`, companyID, supplierID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
