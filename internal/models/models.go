package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Company struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	GSTNumber *string   `db:"gst_number" json:"gst_number,omitempty"`
	PSTNumber *string   `db:"pst_number" json:"pst_number,omitempty"`
	HSTNumber *string   `db:"hst_number" json:"hst_number,omitempty"`
	GSTRate   string    `db:"gst_rate" json:"gst_rate"`
	PSTRate   string    `db:"pst_rate" json:"pst_rate"`
	HSTRate   string    `db:"hst_rate" json:"hst_rate"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CompanyRole is the explicit join record tying a user to a company.
// Membership is always resolved through these rows, never back-pointers.
type CompanyRole struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	CompanyID string `db:"company_id" json:"company_id"`
	Role      string `db:"role" json:"role"`
}

type Account struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	SubType   string    `db:"sub_type" json:"sub_type"`
	Code      *int      `db:"code" json:"code,omitempty"`
	Balance   int64     `db:"balance" json:"balance"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Supplier struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Taxes     string    `db:"taxes" json:"taxes"`
	AccountID *string   `db:"account_id" json:"account_id,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Client struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Invoice struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	Number    string    `db:"number" json:"number"`
	IssuedBy  *string   `db:"issued_by" json:"issued_by,omitempty"`
	Subtotal  int64     `db:"subtotal" json:"subtotal"`
	TaxAmount int64     `db:"tax_amount" json:"tax_amount"`
	Total     int64     `db:"total" json:"total"`
	Balance   int64     `db:"balance" json:"balance"`
	Status    string    `db:"status" json:"status"`
	IssueDate time.Time `db:"issue_date" json:"issue_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Transaction struct {
	ID              string    `db:"id" json:"id"`
	CompanyID       string    `db:"company_id" json:"company_id"`
	TransactionDate time.Time `db:"transaction_date" json:"transaction_date"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	Amount          int64     `db:"amount" json:"amount"`
	TaxCode         string    `db:"tax_code" json:"tax_code"`
	InvoiceID       *string   `db:"invoice_id" json:"invoice_id,omitempty"`
	SupplierID      *string   `db:"supplier_id" json:"supplier_id,omitempty"`
	Currency        string    `db:"currency" json:"currency"`
	ProcessedBy     string    `db:"processed_by" json:"processed_by"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Entry is one debit or credit line within a transaction. Debit and credit
// are both non-negative and at most one is non-zero.
type Entry struct {
	ID            string    `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	AccountID     string    `db:"account_id" json:"account_id"`
	Debit         int64     `db:"debit" json:"debit"`
	Credit        int64     `db:"credit" json:"credit"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	ActorUserID *string   `db:"actor_user_id" json:"actor_user_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	EntityType  string    `db:"entity_type" json:"entity_type"`
	EntityID    string    `db:"entity_id" json:"entity_id"`
	Data        string    `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
