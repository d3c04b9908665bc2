package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/models"
	"mamoolah/internal/money"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
	"mamoolah/internal/tax"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type invoiceRequest struct {
	ClientID  string `json:"client_id"`
	Number    string `json:"number"`
	Subtotal  string `json:"subtotal"`
	Taxes     string `json:"taxes"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
}

// CreateInvoice takes a tax-exclusive subtotal and adds tax on top from the
// company rate table. Posting a receivePayment against the invoice later
// draws the balance down.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ClientID == "" || req.Number == "" {
		respondError(w, http.StatusBadRequest, "client_id and number are required")
		return
	}
	if err := validateTaxCode(req.Taxes); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	subtotal, err := parseGross(req.Subtotal)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid subtotal")
		return
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	company, err := h.companies.GetByID(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusNotFound, "company not found")
		return
	}
	rates, err := tax.ParseCompanyRates(company.GSTRate, company.PSTRate, company.HSTRate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "invalid company tax rates")
		return
	}
	resolved, err := tax.Resolve(req.Taxes, rates)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	subtotalMinor := money.ToMinor(subtotal)
	taxMinor := money.ToMinor(subtotal.Mul(resolved.Total()).Div(hundred))
	totalMinor := subtotalMinor + taxMinor

	invoiceID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.invoices.Create(r.Context(), tx, store.InvoiceInput{
			ID:        invoiceID,
			CompanyID: companyID,
			ClientID:  req.ClientID,
			Number:    req.Number,
			IssuedBy:  optional(userID),
			Subtotal:  subtotalMinor,
			TaxAmount: taxMinor,
			Total:     totalMinor,
			Balance:   totalMinor,
			Status:    services.StatusPending,
			IssueDate: issueDate,
			DueDate:   dueDate,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"number": req.Number,
			"total":  valueToMoney(totalMinor),
		})
		return h.audit.Log(r.Context(), tx, userID, "create", "invoice", invoiceID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create invoice")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":         invoiceID,
		"subtotal":   valueToMoney(subtotalMinor),
		"tax_amount": valueToMoney(taxMinor),
		"total":      valueToMoney(totalMinor),
	})
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	invoices, err := h.invoices.ListByCompany(r.Context(), companyID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load invoices")
		return
	}
	payload := make([]map[string]any, 0, len(invoices))
	for _, invoice := range invoices {
		payload = append(payload, invoicePayload(invoice))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	invoiceID := chi.URLParam(r, "id")
	invoice, err := h.invoices.GetByID(r.Context(), companyID, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "invoice not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoicePayload(invoice))
}

func invoicePayload(invoice models.Invoice) map[string]any {
	return map[string]any{
		"id":         invoice.ID,
		"client_id":  invoice.ClientID,
		"number":     invoice.Number,
		"issued_by":  deref(invoice.IssuedBy),
		"subtotal":   valueToMoney(invoice.Subtotal),
		"tax_amount": valueToMoney(invoice.TaxAmount),
		"total":      valueToMoney(invoice.Total),
		"balance":    valueToMoney(invoice.Balance),
		"status":     invoice.Status,
		"issue_date": invoice.IssueDate,
		"due_date":   invoice.DueDate,
		"created_at": invoice.CreatedAt,
	}
}
