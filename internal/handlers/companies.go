package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/store"
	"mamoolah/internal/tax"
	"mamoolah/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type companyRequest struct {
	Name      string `json:"name"`
	GSTNumber string `json:"gst_number"`
	PSTNumber string `json:"pst_number"`
	HSTNumber string `json:"hst_number"`
	GSTRate   string `json:"gst_rate"`
	PSTRate   string `json:"pst_rate"`
	HSTRate   string `json:"hst_rate"`
	Currency  string `json:"currency"`
}

func (r companyRequest) toInput(id string, fallbackCurrency string) (store.CompanyInput, error) {
	if r.Name == "" {
		return store.CompanyInput{}, errors.New("name is required")
	}
	// Rates must parse as decimal percentages before they are stored.
	if _, err := tax.ParseCompanyRates(r.GSTRate, r.PSTRate, r.HSTRate); err != nil {
		return store.CompanyInput{}, errors.New("invalid tax rate")
	}
	currency := r.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	return store.CompanyInput{
		ID:        id,
		Name:      r.Name,
		GSTNumber: optional(r.GSTNumber),
		PSTNumber: optional(r.PSTNumber),
		HSTNumber: optional(r.HSTNumber),
		GSTRate:   defaultRate(r.GSTRate),
		PSTRate:   defaultRate(r.PSTRate),
		HSTRate:   defaultRate(r.HSTRate),
		Currency:  currency,
	}, nil
}

func defaultRate(raw string) string {
	if raw == "" {
		return "0"
	}
	return raw
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	companyID := uuid.NewString()
	input, err := req.toInput(companyID, h.cfg.DefaultCurrency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.companies.Create(r.Context(), tx, input); err != nil {
			return err
		}
		if err := h.roles.Create(r.Context(), tx, uuid.NewString(), userID, companyID, store.RoleOwner); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": input.Name})
		return h.audit.Log(r.Context(), tx, userID, "create", "company", companyID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create company")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": companyID})
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	companies, err := h.companies.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load companies")
		return
	}
	respondJSON(w, http.StatusOK, companies)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	company, err := h.companies.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "company not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := req.toInput(companyID, h.cfg.DefaultCurrency)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	before, err := h.companies.GetByID(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusNotFound, "company not found")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		updated, err := h.companies.Update(r.Context(), tx, companyID, input)
		if err != nil {
			return err
		}
		if updated == 0 {
			return sql.ErrNoRows
		}
		diff := fieldDiff(map[string][2]string{
			"name":     {before.Name, input.Name},
			"gst_rate": {before.GSTRate, input.GSTRate},
			"pst_rate": {before.PSTRate, input.PSTRate},
			"hst_rate": {before.HSTRate, input.HSTRate},
			"currency": {before.Currency, input.Currency},
		})
		if len(diff) == 0 {
			return nil
		}
		data, _ := json.Marshal(diff)
		return h.audit.Log(r.Context(), tx, userID, "update", "company", companyID, string(data))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "company not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update company")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": companyID})
}

type addRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AddCompanyRole grants an existing user a role in the company. Members are
// looked up by email, the way an owner would invite a colleague.
func (h *Handler) AddCompanyRole(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req addRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateRole(req.Role); err != nil {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	roleID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.roles.Create(r.Context(), tx, roleID, user.ID, companyID, req.Role); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"user_id": user.ID, "role": req.Role})
		return h.audit.Log(r.Context(), tx, actorID, "create", "company_role", roleID, string(data))
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "user is already a member")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to add member")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": roleID, "user_id": user.ID, "role": req.Role})
}

func (h *Handler) ListCompanyRoles(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	roles, err := h.roles.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load roles")
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

// fieldDiff builds the typed before/after snapshot recorded in the audit
// log for updates. Unchanged fields are omitted.
func fieldDiff(fields map[string][2]string) map[string]map[string]string {
	diff := make(map[string]map[string]string)
	for name, pair := range fields {
		if pair[0] == pair[1] {
			continue
		}
		diff[name] = map[string]string{"old": pair[0], "new": pair[1]}
	}
	return diff
}
