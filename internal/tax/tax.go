package tax

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTaxCode = errors.New("invalid tax code")
	ErrInvalidRate    = errors.New("invalid tax rate")
)

// Codes accepted on a posting. "null" and "exempt" both mean no tax applies.
const (
	CodeNull   = "null"
	CodeExempt = "exempt"
	CodeGST    = "gst"
	CodePST    = "pst"
	CodeGSTPST = "gstpst"
	CodeHST    = "hst"
)

// CompanyRates holds the configured percentage rates for one company,
// e.g. GST 5, PST 9.975.
type CompanyRates struct {
	GST decimal.Decimal
	PST decimal.Decimal
	HST decimal.Decimal
}

// Rates are the effective percentage rates for one posting. Rates the tax
// code does not apply are zero.
type Rates struct {
	GST decimal.Decimal
	PST decimal.Decimal
	HST decimal.Decimal
}

// ParseCompanyRates builds CompanyRates from the stored percentage strings.
// An empty string means the company never configured that rate.
func ParseCompanyRates(gst, pst, hst string) (CompanyRates, error) {
	var rates CompanyRates
	var err error
	if rates.GST, err = parseRate(gst); err != nil {
		return CompanyRates{}, err
	}
	if rates.PST, err = parseRate(pst); err != nil {
		return CompanyRates{}, err
	}
	if rates.HST, err = parseRate(hst); err != nil {
		return CompanyRates{}, err
	}
	return rates, nil
}

func parseRate(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidRate
	}
	// A negative rate would drive the tax-inclusive divisor toward zero.
	if rate.IsNegative() {
		return decimal.Decimal{}, ErrInvalidRate
	}
	return rate, nil
}

// Resolve maps a tax code to the effective rates drawn from the company
// configuration. Pure; unknown codes fail with ErrInvalidTaxCode.
func Resolve(code string, company CompanyRates) (Rates, error) {
	switch code {
	case "", CodeNull, CodeExempt:
		return Rates{}, nil
	case CodeGST:
		return Rates{GST: company.GST}, nil
	case CodePST:
		return Rates{PST: company.PST}, nil
	case CodeGSTPST:
		return Rates{GST: company.GST, PST: company.PST}, nil
	case CodeHST:
		return Rates{HST: company.HST}, nil
	default:
		return Rates{}, ErrInvalidTaxCode
	}
}

// Total is the combined percentage rate applied to a posting.
func (r Rates) Total() decimal.Decimal {
	return r.GST.Add(r.PST).Add(r.HST)
}

// ValidCode reports whether code is one of the accepted tax codes.
func ValidCode(code string) bool {
	_, err := Resolve(code, CompanyRates{})
	return err == nil
}
