package handlers

import (
	"errors"
	"time"

	"mamoolah/internal/money"
	"mamoolah/internal/services"
	"mamoolah/internal/tax"

	"github.com/shopspring/decimal"
)

var (
	errInvalidAmount          = errors.New("invalid amount")
	errInvalidDate            = errors.New("invalid date")
	errInvalidTaxCode         = errors.New("invalid tax code")
	errInvalidTransactionType = errors.New("invalid transaction type")
	errInvalidStatus          = errors.New("invalid status")
)

// parseGross accepts the user-entered gross amount. More than two decimal
// places are allowed here; the posting engine rounds each derived amount
// when it builds entries.
func parseGross(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, errInvalidAmount
	}
	return amount, nil
}

// parseOptionalAmount parses a two-decimal amount into minor units,
// treating the empty string as zero.
func parseOptionalAmount(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return money.ParseMinor(raw)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errInvalidDate
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return parsed, nil
}

func validateTaxCode(code string) error {
	if !tax.ValidCode(code) {
		return errInvalidTaxCode
	}
	return nil
}

func validateTransactionType(transactionType string) error {
	switch transactionType {
	case services.TypePurchase, services.TypeReceivePayment:
		return nil
	default:
		return errInvalidTransactionType
	}
}

func validateStatus(status string) error {
	switch status {
	case "", services.StatusPending, services.StatusPaid, services.StatusPartial:
		return nil
	default:
		return errInvalidStatus
	}
}
