package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type supplierRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Taxes     string `json:"taxes"`
	AccountID string `json:"account_id"`
	Notes     string `json:"notes"`
}

func (r supplierRequest) toInput(id, companyID string) (store.SupplierInput, error) {
	if r.Name == "" {
		return store.SupplierInput{}, errors.New("name is required")
	}
	if err := validateTaxCode(r.Taxes); err != nil {
		return store.SupplierInput{}, err
	}
	return store.SupplierInput{
		ID:        id,
		CompanyID: companyID,
		Name:      r.Name,
		Email:     optional(r.Email),
		Phone:     optional(r.Phone),
		Taxes:     r.Taxes,
		AccountID: optional(r.AccountID),
		Notes:     optional(r.Notes),
	}, nil
}

func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	supplierID := uuid.NewString()
	input, err := req.toInput(supplierID, companyID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.suppliers.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": input.Name})
		return h.audit.Log(r.Context(), tx, userID, "create", "supplier", supplierID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": supplierID})
}

func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	suppliers, err := h.suppliers.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	supplierID := chi.URLParam(r, "id")
	supplier, err := h.suppliers.GetByID(r.Context(), companyID, supplierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "supplier not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	supplierID := chi.URLParam(r, "id")
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := req.toInput(supplierID, companyID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	before, err := h.suppliers.GetByID(r.Context(), companyID, supplierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "supplier not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load supplier")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		updated, err := h.suppliers.Update(r.Context(), tx, companyID, supplierID, input)
		if err != nil {
			return err
		}
		if updated == 0 {
			return sql.ErrNoRows
		}
		diff := fieldDiff(map[string][2]string{
			"name":       {before.Name, input.Name},
			"email":      {deref(before.Email), deref(input.Email)},
			"phone":      {deref(before.Phone), deref(input.Phone)},
			"taxes":      {before.Taxes, input.Taxes},
			"account_id": {deref(before.AccountID), deref(input.AccountID)},
		})
		if len(diff) == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]any{"updated_fields": diff})
		return h.audit.Log(r.Context(), tx, userID, "update", "supplier", supplierID, string(data))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "supplier not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update supplier")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": supplierID})
}

func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	supplierID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		deleted, err := h.suppliers.Delete(r.Context(), tx, companyID, supplierID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return sql.ErrNoRows
		}
		return h.audit.Log(r.Context(), tx, userID, "delete", "supplier", supplierID, "{}")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "supplier not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete supplier")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": supplierID})
}
