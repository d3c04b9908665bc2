package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mamoolah/internal/auth"
	"mamoolah/internal/models"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
)

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestPostTransactionSuccess(t *testing.T) {
	var posted services.PostingRequest
	handler := newTestHandler(testDeps{
		service: stubService{
			postFn: func(_ context.Context, req services.PostingRequest) (services.CommittedTransaction, error) {
				posted = req
				return services.CommittedTransaction{
					ID:         "tx-1",
					GrossMinor: 10500,
					Split:      services.TaxSplit{GrossMinor: 10500, NetMinor: 10000, GSTMinor: 500},
					Entries: []store.EntryInput{
						{AccountID: "expense-1", Debit: 10000},
						{AccountID: "gst-paid", Debit: 500},
						{AccountID: "cash-1", Credit: 10500},
					},
				}, nil
			},
		},
	})

	body := []byte(`{"transaction_date":"2024-03-15","transaction_type":"purchase","amount":"105.00","taxes":"gst","account":"expense-1","origin":"cash-1"}`)
	req := authedRequest(t, http.MethodPost, "/companies/co-1/transactions", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if posted.CompanyID != "co-1" || posted.UserID != "user-1" {
		t.Fatalf("company and user must be explicit on the request: %#v", posted)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["net_amount"] != "100.00" || payload["gst_amount"] != "5.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestPostTransactionInvalidAmount(t *testing.T) {
	handler := newTestHandler(testDeps{
		service: stubService{
			postFn: func(context.Context, services.PostingRequest) (services.CommittedTransaction, error) {
				t.Fatalf("service should not be called")
				return services.CommittedTransaction{}, nil
			},
		},
	})
	body := []byte(`{"transaction_date":"2024-03-15","transaction_type":"purchase","amount":"-1","taxes":"gst","account":"a","origin":"b"}`)
	req := authedRequest(t, http.MethodPost, "/companies/co-1/transactions", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPostTransactionUnknownTaxCode(t *testing.T) {
	handler := newTestHandler(testDeps{})
	body := []byte(`{"transaction_date":"2024-03-15","transaction_type":"purchase","amount":"10.00","taxes":"vat","account":"a","origin":"b"}`)
	req := authedRequest(t, http.MethodPost, "/companies/co-1/transactions", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPostTransactionMissingTaxAccount(t *testing.T) {
	handler := newTestHandler(testDeps{
		service: stubService{
			postFn: func(context.Context, services.PostingRequest) (services.CommittedTransaction, error) {
				return services.CommittedTransaction{}, services.ErrTaxAccountNotFound
			},
		},
	})
	body := []byte(`{"transaction_date":"2024-03-15","transaction_type":"purchase","amount":"105.00","taxes":"gst","account":"a","origin":"b"}`)
	req := authedRequest(t, http.MethodPost, "/companies/co-1/transactions", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPostTransactionNotAMember(t *testing.T) {
	handler := newTestHandler(testDeps{
		roles: stubRoleStore{
			getFn: func(context.Context, string, string) (models.CompanyRole, error) {
				return models.CompanyRole{}, sql.ErrNoRows
			},
		},
	})
	body := []byte(`{"transaction_date":"2024-03-15","transaction_type":"purchase","amount":"105.00","taxes":"gst","account":"a","origin":"b"}`)
	req := authedRequest(t, http.MethodPost, "/companies/co-1/transactions", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestListTransactions(t *testing.T) {
	handler := newTestHandler(testDeps{
		transactions: stubTransactionStore{
			listByCompanyFn: func(_ context.Context, companyID, transactionType string, limit, offset int) ([]models.Transaction, error) {
				if companyID != "co-1" || transactionType != "purchase" {
					t.Fatalf("unexpected filter: %s %s", companyID, transactionType)
				}
				if limit != 10 || offset != 10 {
					t.Fatalf("unexpected paging: limit=%d offset=%d", limit, offset)
				}
				return []models.Transaction{{ID: "tx-1", Amount: 10500, TransactionType: "purchase"}}, nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/companies/co-1/transactions?type=purchase&page=2&limit=10", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["amount"] != "105.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestGetTransactionWithEntries(t *testing.T) {
	handler := newTestHandler(testDeps{
		entries: stubEntryStore{
			listByTransactionFn: func(context.Context, string) ([]models.Entry, error) {
				return []models.Entry{
					{ID: "e1", AccountID: "expense-1", Debit: 10000},
					{ID: "e2", AccountID: "cash-1", Credit: 10000},
				}, nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/companies/co-1/transactions/tx-1", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	entries, ok := payload["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %#v", payload["entries"])
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	handler := newTestHandler(testDeps{
		transactions: stubTransactionStore{
			getByIDFn: func(context.Context, string, string) (models.Transaction, error) {
				return models.Transaction{}, sql.ErrNoRows
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/companies/co-1/transactions/missing", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateTransactionHeaderOnly(t *testing.T) {
	var captured store.TransactionHeaderUpdate
	handler := newTestHandler(testDeps{
		transactions: stubTransactionStore{
			updateHeaderFn: func(_ context.Context, _ store.Execer, _, _ string, input store.TransactionHeaderUpdate) (int64, error) {
				captured = input
				return 1, nil
			},
		},
	})
	body := []byte(`{"transaction_date":"2024-04-01","status":"paid"}`)
	req := authedRequest(t, http.MethodPut, "/companies/co-1/transactions/tx-1", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Status != "paid" {
		t.Fatalf("unexpected update: %#v", captured)
	}
}

func TestDeleteTransactionRequiresAdmin(t *testing.T) {
	handler := newTestHandler(testDeps{
		roles: stubRoleStore{
			getFn: func(ctx context.Context, userID, companyID string) (models.CompanyRole, error) {
				return models.CompanyRole{UserID: userID, CompanyID: companyID, Role: store.RoleEmployee}, nil
			},
		},
	})
	req := authedRequest(t, http.MethodDelete, "/companies/co-1/transactions/tx-1", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
