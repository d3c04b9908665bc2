package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"mamoolah/internal/config"
	"mamoolah/internal/db"
	"mamoolah/internal/store"

	"github.com/google/uuid"
)

// seedAccount is one row of the standard chart of accounts installed for a
// new company. Codes 1151-1153 are the reserved input-tax accounts the
// posting engine looks up by code.
type seedAccount struct {
	code    int
	name    string
	typ     string
	subType string
}

var chartOfAccounts = []seedAccount{
	{1000, "Cash", "asset", "current"},
	{1010, "Chequing Account", "asset", "current"},
	{1020, "Savings Account", "asset", "current"},
	{1100, "Accounts Receivable", "asset", "current"},
	{1151, "GST Paid", "asset", "current"},
	{1152, "PST Paid", "asset", "current"},
	{1153, "HST Paid", "asset", "current"},
	{1500, "Equipment", "asset", "fixed"},
	{2000, "Accounts Payable", "liability", "current"},
	{2100, "GST Collected", "liability", "current"},
	{2110, "PST Collected", "liability", "current"},
	{2120, "HST Collected", "liability", "current"},
	{3000, "Owner Equity", "equity", ""},
	{3100, "Retained Earnings", "equity", ""},
	{4000, "Sales Revenue", "income", ""},
	{4100, "Service Revenue", "income", ""},
	{5000, "Cost of Goods Sold", "cogs", ""},
	{6000, "Office Supplies", "expense", ""},
	{6100, "Rent", "expense", ""},
	{6200, "Utilities", "expense", ""},
	{6300, "Meals and Entertainment", "expense", ""},
	{6400, "Vehicle Expenses", "expense", ""},
	{6500, "Professional Fees", "expense", ""},
	{6600, "Insurance", "expense", ""},
	{6700, "Bank Fees", "expense", ""},
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed <company-id>")
	}
	companyID := os.Args[1]

	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	var currency string
	if err := database.Get(&currency, `SELECT currency FROM companies WHERE id = $1`, companyID); err != nil {
		log.Fatalf("company %s not found: %v", companyID, err)
	}

	accounts := store.NewAccountStore(database)
	created := 0
	for _, row := range chartOfAccounts {
		var exists bool
		if err := database.Get(&exists, `SELECT EXISTS(SELECT 1 FROM accounts WHERE company_id = $1 AND code = $2)`, companyID, row.code); err != nil {
			log.Fatalf("failed to check account %d: %v", row.code, err)
		}
		if exists {
			continue
		}
		code := row.code
		if err := accounts.Create(ctx, database, store.AccountInput{
			ID:        uuid.NewString(),
			CompanyID: companyID,
			Name:      row.name,
			Type:      row.typ,
			SubType:   row.subType,
			Code:      &code,
			Currency:  currency,
		}); err != nil {
			log.Fatalf("failed to create account %d %s: %v", row.code, row.name, err)
		}
		created++
	}
	fmt.Printf("seeded %d account(s) for company %s\n", created, companyID)
}
