package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"mamoolah/internal/db"
	"mamoolah/internal/models"
	"mamoolah/internal/money"
	"mamoolah/internal/store"
	"mamoolah/internal/tax"
	"mamoolah/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrAccountNotFound    = errors.New("one or more required accounts not found")
	ErrTaxAccountNotFound = errors.New("input-tax account not found for computed tax amount")
	ErrUnbalancedEntries  = errors.New("posting entries are not balanced")
	ErrInvoiceNotFound    = errors.New("invoice not found")
)

const (
	TypePurchase       = "purchase"
	TypeReceivePayment = "receivePayment"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusPartial = "partial"
)

type PostingService struct {
	txRunner     db.TxRunner
	companies    CompanyStore
	accounts     AccountStore
	entries      EntryStore
	transactions TransactionStore
	invoices     InvoiceStore
	audit        AuditStore
	auditDB      store.Execer
	hub          BalanceHub
}

type CompanyStore interface {
	GetByID(ctx context.Context, companyID string) (models.Company, error)
}

type AccountStore interface {
	GetForUpdate(ctx context.Context, tx store.Tx, companyID, accountID string) (models.Account, error)
	GetByCodeForUpdate(ctx context.Context, tx store.Tx, companyID string, code int) (models.Account, error)
	AdjustBalance(ctx context.Context, tx store.Execer, accountID string, delta int64) (int64, error)
}

type EntryStore interface {
	InsertEntries(ctx context.Context, tx store.Execer, entries []store.EntryInput) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type InvoiceStore interface {
	ApplyPayment(ctx context.Context, tx store.Execer, companyID, invoiceID string, amount int64) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(companyID string, update websocket.BalanceUpdate)
}

func NewPostingService(txRunner db.TxRunner, companies CompanyStore, accounts AccountStore, entries EntryStore, transactions TransactionStore, invoices InvoiceStore, audit AuditStore, auditDB store.Execer, hub BalanceHub) *PostingService {
	return &PostingService{
		txRunner:     txRunner,
		companies:    companies,
		accounts:     accounts,
		entries:      entries,
		transactions: transactions,
		invoices:     invoices,
		audit:        audit,
		auditDB:      auditDB,
		hub:          hub,
	}
}

// PostingRequest is one user-entered transaction. CompanyID and UserID are
// always explicit; nothing is read from ambient session state.
type PostingRequest struct {
	CompanyID        string
	UserID           string
	TransactionDate  time.Time
	TransactionType  string
	Gross            decimal.Decimal
	TaxCode          string
	ExpenseAccountID string
	CashAccountID    string
	SupplierID       *string
	InvoiceID        *string
	Notes            *string
	Status           string
}

type CommittedTransaction struct {
	ID         string
	GrossMinor int64
	Split      TaxSplit
	Entries    []store.EntryInput
}

// TaxSplit is the decomposition of one tax-inclusive gross amount. Each
// field is rounded to minor units independently.
type TaxSplit struct {
	GrossMinor int64
	NetMinor   int64
	GSTMinor   int64
	PSTMinor   int64
	HSTMinor   int64
}

var oneHundred = decimal.NewFromInt(100)

// SplitGross back-calculates the net amount from a tax-inclusive gross.
// Single-code taxes take the whole computed tax; gstpst recomputes GST and
// PST from the unrounded net and the nominal rates so each leg matches what
// the rate tables say, rather than splitting the combined tax.
func SplitGross(gross decimal.Decimal, code string, rates tax.Rates) TaxSplit {
	divisor := decimal.NewFromInt(1).Add(rates.Total().Div(oneHundred))
	net := gross.Div(divisor)
	totalTax := gross.Sub(net)

	split := TaxSplit{
		GrossMinor: money.ToMinor(gross),
		NetMinor:   money.ToMinor(net),
	}
	switch code {
	case tax.CodeGST:
		split.GSTMinor = money.ToMinor(totalTax)
	case tax.CodePST:
		split.PSTMinor = money.ToMinor(totalTax)
	case tax.CodeHST:
		split.HSTMinor = money.ToMinor(totalTax)
	case tax.CodeGSTPST:
		split.GSTMinor = money.ToMinor(net.Mul(rates.GST).Div(oneHundred))
		split.PSTMinor = money.ToMinor(net.Mul(rates.PST).Div(oneHundred))
	}
	return split
}

// Post runs one posting as a single atomic unit of work: resolve tax rates,
// decompose the gross into balanced entries, apply balance deltas, persist
// the transaction record. Any failure rolls the whole scope back. Audit
// logging and balance broadcasts happen after commit and are best-effort.
func (s *PostingService) Post(ctx context.Context, req PostingRequest) (CommittedTransaction, error) {
	if !req.Gross.IsPositive() {
		return CommittedTransaction{}, ErrInvalidAmount
	}
	company, err := s.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CommittedTransaction{}, ErrCompanyNotFound
		}
		return CommittedTransaction{}, err
	}
	companyRates, err := tax.ParseCompanyRates(company.GSTRate, company.PSTRate, company.HSTRate)
	if err != nil {
		return CommittedTransaction{}, err
	}
	rates, err := tax.Resolve(req.TaxCode, companyRates)
	if err != nil {
		return CommittedTransaction{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	transactionID := uuid.NewString()
	input := store.TransactionInput{
		ID:              transactionID,
		CompanyID:       req.CompanyID,
		TransactionDate: req.TransactionDate,
		TransactionType: req.TransactionType,
		TaxCode:         req.TaxCode,
		InvoiceID:       req.InvoiceID,
		SupplierID:      req.SupplierID,
		Currency:        company.Currency,
		ProcessedBy:     req.UserID,
		Status:          status,
		Notes:           req.Notes,
	}

	var committed CommittedTransaction
	var broadcasts []websocket.BalanceUpdate
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if req.TransactionType != TypePurchase {
			// Only purchases run the posting engine. Anything else persists
			// as a bare record with no entries and no balance changes.
			input.Amount = money.ToMinor(req.Gross)
			if err := s.transactions.Create(ctx, tx, input); err != nil {
				return err
			}
			if req.TransactionType == TypeReceivePayment && req.InvoiceID != nil {
				updated, err := s.invoices.ApplyPayment(ctx, tx, req.CompanyID, *req.InvoiceID, input.Amount)
				if err != nil {
					return err
				}
				if updated == 0 {
					return ErrInvoiceNotFound
				}
			}
			committed = CommittedTransaction{ID: transactionID, GrossMinor: input.Amount}
			return nil
		}

		split := SplitGross(req.Gross, req.TaxCode, rates)
		input.Amount = split.GrossMinor

		expense, cash, err := s.lockPostingAccounts(ctx, tx, req.CompanyID, req.ExpenseAccountID, req.CashAccountID)
		if err != nil {
			return err
		}

		entries := []store.EntryInput{{
			ID:            uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     expense.ID,
			Debit:         split.NetMinor,
		}}
		taxLegs := []struct {
			code   int
			amount int64
		}{
			{store.CodeGSTInput, split.GSTMinor},
			{store.CodePSTInput, split.PSTMinor},
			{store.CodeHSTInput, split.HSTMinor},
		}
		balancesAfter := map[string]models.Account{expense.ID: expense, cash.ID: cash}
		for _, leg := range taxLegs {
			if leg.amount <= 0 {
				continue
			}
			account, err := s.accounts.GetByCodeForUpdate(ctx, tx, req.CompanyID, leg.code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrTaxAccountNotFound
				}
				return err
			}
			entries = append(entries, store.EntryInput{
				ID:            uuid.NewString(),
				TransactionID: transactionID,
				AccountID:     account.ID,
				Debit:         leg.amount,
			})
			balancesAfter[account.ID] = account
		}
		entries = append(entries, store.EntryInput{
			ID:            uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     cash.ID,
			Credit:        split.GrossMinor,
		})
		if err := ensureBalanced(entries); err != nil {
			return err
		}

		for _, entry := range entries {
			delta := entry.Debit - entry.Credit
			if _, err := s.accounts.AdjustBalance(ctx, tx, entry.AccountID, delta); err != nil {
				return err
			}
			account := balancesAfter[entry.AccountID]
			account.Balance += delta
			balancesAfter[entry.AccountID] = account
		}
		if err := s.transactions.Create(ctx, tx, input); err != nil {
			return err
		}
		if err := s.entries.InsertEntries(ctx, tx, entries); err != nil {
			return err
		}

		for _, account := range balancesAfter {
			broadcasts = append(broadcasts, websocket.BalanceUpdate{
				AccountID: account.ID,
				Balance:   money.FormatMinor(account.Balance),
				Currency:  account.Currency,
			})
		}
		committed = CommittedTransaction{
			ID:         transactionID,
			GrossMinor: split.GrossMinor,
			Split:      split,
			Entries:    entries,
		}
		return nil
	})
	if err != nil {
		return CommittedTransaction{}, err
	}

	s.logPosting(ctx, req, committed)
	for _, update := range broadcasts {
		s.hub.BroadcastBalance(req.CompanyID, update)
	}
	return committed, nil
}

// lockPostingAccounts loads the expense and cash accounts FOR UPDATE in a
// deterministic order so concurrent postings cannot deadlock on each other.
func (s *PostingService) lockPostingAccounts(ctx context.Context, tx store.Tx, companyID, expenseID, cashID string) (models.Account, models.Account, error) {
	firstID, secondID := expenseID, cashID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.accounts.GetForUpdate(ctx, tx, companyID, firstID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, models.Account{}, err
	}
	second := first
	if secondID != firstID {
		second, err = s.accounts.GetForUpdate(ctx, tx, companyID, secondID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Account{}, models.Account{}, ErrAccountNotFound
			}
			return models.Account{}, models.Account{}, err
		}
	}
	if firstID == expenseID {
		return first, second, nil
	}
	return second, first, nil
}

// driftToleranceMinor absorbs the cent-level gap that independent rounding
// of the net and tax legs can leave against the gross credit. The rounding
// order is load-bearing: finance wants the per-leg amounts to match the
// rate tables, so the drift is tolerated rather than corrected.
const driftToleranceMinor = 2

func ensureBalanced(entries []store.EntryInput) error {
	var debits, credits int64
	for _, entry := range entries {
		if entry.Debit < 0 || entry.Credit < 0 || (entry.Debit != 0 && entry.Credit != 0) {
			return ErrUnbalancedEntries
		}
		debits += entry.Debit
		credits += entry.Credit
	}
	diff := debits - credits
	if diff < 0 {
		diff = -diff
	}
	if diff > driftToleranceMinor {
		return ErrUnbalancedEntries
	}
	return nil
}

// logPosting records the posting in the audit log outside the atomic
// scope. Failures are logged and dropped; a posting never fails because
// auditing did.
func (s *PostingService) logPosting(ctx context.Context, req PostingRequest, committed CommittedTransaction) {
	data, _ := json.Marshal(map[string]any{
		"transaction_id": committed.ID,
		"type":           req.TransactionType,
		"amount":         money.FormatMinor(committed.GrossMinor),
		"tax_code":       req.TaxCode,
	})
	if err := s.audit.Log(ctx, s.auditDB, req.UserID, "posting", "transaction", committed.ID, string(data)); err != nil {
		log.Printf("audit log failed for transaction %s: %v", committed.ID, err)
	}
}
