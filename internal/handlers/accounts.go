package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/store"
	"mamoolah/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type accountRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	SubType  string `json:"sub_type"`
	Code     *int   `json:"code"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validator.ValidateAccountType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	balance, err := parseOptionalAmount(req.Balance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid balance")
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = h.cfg.DefaultCurrency
	}
	accountID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.accounts.Create(r.Context(), tx, store.AccountInput{
			ID:        accountID,
			CompanyID: companyID,
			Name:      req.Name,
			Type:      req.Type,
			SubType:   req.SubType,
			Code:      req.Code,
			Balance:   balance,
			Currency:  currency,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": req.Name})
		return h.audit.Log(r.Context(), tx, userID, "create", "account", accountID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": accountID})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	accounts, err := h.accounts.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	payload := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, map[string]any{
			"id":       account.ID,
			"name":     account.Name,
			"type":     account.Type,
			"sub_type": account.SubType,
			"code":     account.Code,
			"balance":  valueToMoney(account.Balance),
			"currency": account.Currency,
		})
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	accountID := chi.URLParam(r, "id")
	account, err := h.accounts.GetByID(r.Context(), companyID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":         account.ID,
		"name":       account.Name,
		"type":       account.Type,
		"sub_type":   account.SubType,
		"code":       account.Code,
		"balance":    valueToMoney(account.Balance),
		"currency":   account.Currency,
		"created_at": account.CreatedAt,
		"updated_at": account.UpdatedAt,
	})
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	accountID := chi.URLParam(r, "id")
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validator.ValidateAccountType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	before, err := h.accounts.GetByID(r.Context(), companyID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load account")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		updated, err := h.accounts.Update(r.Context(), tx, companyID, accountID, store.AccountUpdate{
			Name:    req.Name,
			Type:    req.Type,
			SubType: req.SubType,
			Code:    req.Code,
		})
		if err != nil {
			return err
		}
		if updated == 0 {
			return sql.ErrNoRows
		}
		diff := fieldDiff(map[string][2]string{
			"name":     {before.Name, req.Name},
			"type":     {before.Type, req.Type},
			"sub_type": {before.SubType, req.SubType},
			"code":     {codeString(before.Code), codeString(req.Code)},
		})
		if len(diff) == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]any{"updated_fields": diff})
		return h.audit.Log(r.Context(), tx, userID, "update", "account", accountID, string(data))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": accountID})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	accountID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		deleted, err := h.accounts.Delete(r.Context(), tx, companyID, accountID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return sql.ErrNoRows
		}
		return h.audit.Log(r.Context(), tx, userID, "delete", "account", accountID, "{}")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": accountID})
}

// SelfCheck reports stored balances against the sum of posted entries per
// account so drift is visible without digging through the ledger.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	rows, err := h.accounts.SelfCheck(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to run self-check")
		return
	}
	payload := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, map[string]any{
			"id":                 row.ID,
			"name":               row.Name,
			"currency":           row.Currency,
			"stored_balance":     valueToMoney(row.StoredBalance),
			"calculated_balance": valueToMoney(row.CalculatedBalance),
			"difference":         valueToMoney(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, payload)
}

func codeString(code *int) string {
	if code == nil {
		return ""
	}
	return fmt.Sprintf("%d", *code)
}
