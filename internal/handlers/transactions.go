package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
	"mamoolah/internal/tax"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// postTransactionRequest mirrors the posting form: a gross, tax-inclusive
// amount, the tax-code selection, the expense account and the cash/bank
// account the money left.
type postTransactionRequest struct {
	TransactionDate string  `json:"transaction_date"`
	TransactionType string  `json:"transaction_type"`
	Amount          string  `json:"amount"`
	Taxes           string  `json:"taxes"`
	Account         string  `json:"account"`
	Origin          string  `json:"origin"`
	SupplierID      *string `json:"supplier_id"`
	InvoiceID       *string `json:"invoice_id"`
	Notes           *string `json:"notes"`
	Status          string  `json:"status"`
}

func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	companyID := chi.URLParam(r, "companyID")
	var req postTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validateTransactionType(req.TransactionType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateTaxCode(req.Taxes); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateStatus(req.Status); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	gross, err := parseGross(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactionDate, err := parseDate(req.TransactionDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TransactionType == services.TypePurchase && (req.Account == "" || req.Origin == "") {
		respondError(w, http.StatusBadRequest, "account and origin are required for purchases")
		return
	}

	committed, err := h.service.Post(r.Context(), services.PostingRequest{
		CompanyID:        companyID,
		UserID:           userID,
		TransactionDate:  transactionDate,
		TransactionType:  req.TransactionType,
		Gross:            gross,
		TaxCode:          req.Taxes,
		ExpenseAccountID: req.Account,
		CashAccountID:    req.Origin,
		SupplierID:       req.SupplierID,
		InvoiceID:        req.InvoiceID,
		Notes:            req.Notes,
		Status:           req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, tax.ErrInvalidTaxCode):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrAccountNotFound),
			errors.Is(err, services.ErrTaxAccountNotFound),
			errors.Is(err, services.ErrInvoiceNotFound),
			errors.Is(err, services.ErrCompanyNotFound):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUnbalancedEntries):
			respondError(w, http.StatusInternalServerError, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	entries := make([]map[string]any, 0, len(committed.Entries))
	for _, entry := range committed.Entries {
		entries = append(entries, map[string]any{
			"account_id": entry.AccountID,
			"debit":      valueToMoney(entry.Debit),
			"credit":     valueToMoney(entry.Credit),
		})
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": committed.ID,
		"amount":         valueToMoney(committed.GrossMinor),
		"net_amount":     valueToMoney(committed.Split.NetMinor),
		"gst_amount":     valueToMoney(committed.Split.GSTMinor),
		"pst_amount":     valueToMoney(committed.Split.PSTMinor),
		"hst_amount":     valueToMoney(committed.Split.HSTMinor),
		"entries":        entries,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	query := r.URL.Query()
	transactionType := query.Get("type")
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	transactions, err := h.transactions.ListByCompany(r.Context(), companyID, transactionType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	payload := make([]map[string]any, 0, len(transactions))
	for _, transaction := range transactions {
		payload = append(payload, map[string]any{
			"id":               transaction.ID,
			"transaction_date": transaction.TransactionDate,
			"transaction_type": transaction.TransactionType,
			"amount":           valueToMoney(transaction.Amount),
			"tax_code":         transaction.TaxCode,
			"supplier_id":      deref(transaction.SupplierID),
			"invoice_id":       deref(transaction.InvoiceID),
			"currency":         transaction.Currency,
			"status":           transaction.Status,
			"notes":            deref(transaction.Notes),
			"created_at":       transaction.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	transactionID := chi.URLParam(r, "id")
	transaction, err := h.transactions.GetByID(r.Context(), companyID, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load transaction")
		return
	}
	entries, err := h.entries.ListByTransaction(r.Context(), transactionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load entries")
		return
	}
	entryPayload := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		entryPayload = append(entryPayload, map[string]any{
			"id":         entry.ID,
			"account_id": entry.AccountID,
			"debit":      valueToMoney(entry.Debit),
			"credit":     valueToMoney(entry.Credit),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":               transaction.ID,
		"transaction_date": transaction.TransactionDate,
		"transaction_type": transaction.TransactionType,
		"amount":           valueToMoney(transaction.Amount),
		"tax_code":         transaction.TaxCode,
		"supplier_id":      deref(transaction.SupplierID),
		"invoice_id":       deref(transaction.InvoiceID),
		"currency":         transaction.Currency,
		"processed_by":     transaction.ProcessedBy,
		"status":           transaction.Status,
		"notes":            deref(transaction.Notes),
		"entries":          entryPayload,
		"created_at":       transaction.CreatedAt,
	})
}

type updateTransactionRequest struct {
	TransactionDate string  `json:"transaction_date"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes"`
}

// UpdateTransaction edits header fields only. Entries are immutable once
// committed; an edit never re-runs the posting engine or moves balances.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	transactionID := chi.URLParam(r, "id")
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	transactionDate, err := parseDate(req.TransactionDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}
	if err := validateStatus(req.Status); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		updated, err := h.transactions.UpdateHeader(r.Context(), tx, companyID, transactionID, store.TransactionHeaderUpdate{
			TransactionDate: transactionDate,
			Status:          req.Status,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}
		if updated == 0 {
			return sql.ErrNoRows
		}
		data, _ := json.Marshal(map[string]string{"status": req.Status})
		return h.audit.Log(r.Context(), tx, userID, "update", "transaction", transactionID, string(data))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": transactionID})
}

// DeleteTransaction removes the record and its entries. Account balances
// are left as they are; there is no automatic reversal posting.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	transactionID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		deleted, err := h.transactions.Delete(r.Context(), tx, companyID, transactionID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return sql.ErrNoRows
		}
		return h.audit.Log(r.Context(), tx, userID, "delete", "transaction", transactionID, "{}")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": transactionID})
}
