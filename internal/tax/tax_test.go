package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rate(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad rate %q: %v", raw, err)
	}
	return value
}

func TestParseCompanyRates(t *testing.T) {
	rates, err := ParseCompanyRates("5", "9.975", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rates.GST.Equal(rate(t, "5")) || !rates.PST.Equal(rate(t, "9.975")) {
		t.Fatalf("unexpected rates: %#v", rates)
	}
	if !rates.HST.IsZero() {
		t.Fatalf("unset rate should be zero, got %s", rates.HST)
	}
}

func TestParseCompanyRatesInvalid(t *testing.T) {
	if _, err := ParseCompanyRates("five", "", ""); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate for non-numeric rate")
	}
}

func TestParseCompanyRatesNegative(t *testing.T) {
	for _, raw := range []string{"-5", "-100", "-0.01"} {
		if _, err := ParseCompanyRates(raw, "", ""); err != ErrInvalidRate {
			t.Fatalf("rate %q: expected ErrInvalidRate, got %v", raw, err)
		}
		if _, err := ParseCompanyRates("", raw, ""); err != ErrInvalidRate {
			t.Fatalf("pst rate %q: expected ErrInvalidRate, got %v", raw, err)
		}
	}
}

func TestResolveNoTaxCodes(t *testing.T) {
	company := CompanyRates{GST: rate(t, "5"), PST: rate(t, "7"), HST: rate(t, "13")}
	for _, code := range []string{"", CodeNull, CodeExempt} {
		rates, err := Resolve(code, company)
		if err != nil {
			t.Fatalf("code %q: unexpected error: %v", code, err)
		}
		if !rates.Total().IsZero() {
			t.Fatalf("code %q should resolve to zero rates, got %s", code, rates.Total())
		}
	}
}

func TestResolveSingleCodes(t *testing.T) {
	company := CompanyRates{GST: rate(t, "5"), PST: rate(t, "7"), HST: rate(t, "13")}

	gst, err := Resolve(CodeGST, company)
	if err != nil || !gst.Total().Equal(rate(t, "5")) {
		t.Fatalf("gst: got %s, err %v", gst.Total(), err)
	}
	pst, err := Resolve(CodePST, company)
	if err != nil || !pst.Total().Equal(rate(t, "7")) {
		t.Fatalf("pst: got %s, err %v", pst.Total(), err)
	}
	hst, err := Resolve(CodeHST, company)
	if err != nil || !hst.Total().Equal(rate(t, "13")) {
		t.Fatalf("hst: got %s, err %v", hst.Total(), err)
	}
}

func TestResolveCombined(t *testing.T) {
	company := CompanyRates{GST: rate(t, "5"), PST: rate(t, "9.975")}
	rates, err := Resolve(CodeGSTPST, company)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rates.Total().Equal(rate(t, "14.975")) {
		t.Fatalf("unexpected combined rate: %s", rates.Total())
	}
	if !rates.HST.IsZero() {
		t.Fatalf("gstpst should not carry HST")
	}
}

func TestResolveUnknownCode(t *testing.T) {
	if _, err := Resolve("vat", CompanyRates{}); err != ErrInvalidTaxCode {
		t.Fatalf("expected ErrInvalidTaxCode, got %v", err)
	}
}

func TestValidCode(t *testing.T) {
	for _, code := range []string{"", CodeNull, CodeExempt, CodeGST, CodePST, CodeGSTPST, CodeHST} {
		if !ValidCode(code) {
			t.Fatalf("code %q should be valid", code)
		}
	}
	if ValidCode("vat") {
		t.Fatalf("unknown code should be invalid")
	}
}
