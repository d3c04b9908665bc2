package store

import (
	"context"

	"mamoolah/internal/models"
)

// Company roles, in descending order of privilege.
const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type RoleStore struct {
	db DB
}

func NewRoleStore(db DB) *RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) Create(ctx context.Context, tx Execer, id, userID, companyID, role string) error {
	query := `
		INSERT INTO company_roles (id, user_id, company_id, role)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, companyID, role)
	return err
}

func (s *RoleStore) Get(ctx context.Context, userID, companyID string) (models.CompanyRole, error) {
	var row models.CompanyRole
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, company_id, role
		FROM company_roles
		WHERE user_id = $1 AND company_id = $2
	`, userID, companyID)
	if err != nil {
		return models.CompanyRole{}, err
	}
	return row, nil
}

func (s *RoleStore) ListByCompany(ctx context.Context, companyID string) ([]models.CompanyRole, error) {
	var rows []models.CompanyRole
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, company_id, role
		FROM company_roles
		WHERE company_id = $1
	`, companyID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
