package store

import (
	"context"

	"mamoolah/internal/models"
)

type CompanyStore struct {
	db DB
}

func NewCompanyStore(db DB) *CompanyStore {
	return &CompanyStore{db: db}
}

type CompanyInput struct {
	ID        string
	Name      string
	GSTNumber *string
	PSTNumber *string
	HSTNumber *string
	GSTRate   string
	PSTRate   string
	HSTRate   string
	Currency  string
}

func (s *CompanyStore) Create(ctx context.Context, tx Execer, input CompanyInput) error {
	query := `
		INSERT INTO companies (id, name, gst_number, pst_number, hst_number, gst_rate, pst_rate, hst_rate, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.GSTNumber, input.PSTNumber, input.HSTNumber,
		input.GSTRate, input.PSTRate, input.HSTRate, input.Currency,
	)
	return err
}

func (s *CompanyStore) GetByID(ctx context.Context, companyID string) (models.Company, error) {
	var row models.Company
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, gst_number, pst_number, hst_number,
		       gst_rate::text, pst_rate::text, hst_rate::text, currency, created_at
		FROM companies
		WHERE id = $1
	`, companyID)
	if err != nil {
		return models.Company{}, err
	}
	return row, nil
}

func (s *CompanyStore) Update(ctx context.Context, tx Execer, companyID string, input CompanyInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE companies
		SET name = $1, gst_number = $2, pst_number = $3, hst_number = $4,
		    gst_rate = $5, pst_rate = $6, hst_rate = $7, currency = $8
		WHERE id = $9
	`, input.Name, input.GSTNumber, input.PSTNumber, input.HSTNumber,
		input.GSTRate, input.PSTRate, input.HSTRate, input.Currency, companyID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CompanyStore) ListByUser(ctx context.Context, userID string) ([]models.Company, error) {
	var rows []models.Company
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.name, c.gst_number, c.pst_number, c.hst_number,
		       c.gst_rate::text, c.pst_rate::text, c.hst_rate::text, c.currency, c.created_at
		FROM companies c
		JOIN company_roles r ON r.company_id = c.id
		WHERE r.user_id = $1
		ORDER BY c.name
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
