package store

import (
	"context"

	"mamoolah/internal/models"
)

type ClientStore struct {
	db DB
}

func NewClientStore(db DB) *ClientStore {
	return &ClientStore{db: db}
}

type ClientInput struct {
	ID        string
	CompanyID string
	Name      string
	Email     *string
	Phone     *string
	Address   *string
}

func (s *ClientStore) Create(ctx context.Context, tx Execer, input ClientInput) error {
	query := `
		INSERT INTO clients (id, company_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CompanyID, input.Name, input.Email, input.Phone, input.Address,
	)
	return err
}

func (s *ClientStore) GetByID(ctx context.Context, companyID, clientID string) (models.Client, error) {
	var row models.Client
	err := s.db.GetContext(ctx, &row, `
		SELECT id, company_id, name, email, phone, address, created_at
		FROM clients
		WHERE company_id = $1 AND id = $2
	`, companyID, clientID)
	if err != nil {
		return models.Client{}, err
	}
	return row, nil
}

func (s *ClientStore) ListByCompany(ctx context.Context, companyID string) ([]models.Client, error) {
	var rows []models.Client
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, company_id, name, email, phone, address, created_at
		FROM clients
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ClientStore) Update(ctx context.Context, tx Execer, companyID, clientID string, input ClientInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, address = $4
		WHERE company_id = $5 AND id = $6
	`, input.Name, input.Email, input.Phone, input.Address, companyID, clientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ClientStore) Delete(ctx context.Context, tx Execer, companyID, clientID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM clients
		WHERE company_id = $1 AND id = $2
	`, companyID, clientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
