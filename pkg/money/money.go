package money

import (
	"strconv"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

// Line is one priced item of a document.
type Line struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// Totals are the derived amounts of a purchase order or sale.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	IVA      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"moneda"`
}

// Compute derives subtotal = Σ cantidad·precio, iva = round(subtotal·rate) to
// the currency's fraction digits, total = subtotal + iva.
func Compute(lines []Line, ivaRate decimal.Decimal, currency string) (Totals, error) {
	ve := serrors.NewValidationError(nil)
	subtotal := decimal.Zero
	for i, l := range lines {
		if l.Cantidad.IsNegative() {
			ve.Add(lineField(i, "cantidad"), "must not be negative")
		}
		if l.PrecioUnitario.IsNegative() {
			ve.Add(lineField(i, "precio_unitario"), "must not be negative")
		}
		subtotal = subtotal.Add(l.Cantidad.Mul(l.PrecioUnitario))
	}
	if ivaRate.IsNegative() {
		ve.Add("iva", "rate must not be negative")
	}
	if err := ve.OrNil(); err != nil {
		return Totals{}, err
	}
	digits := Fraction(currency)
	subtotal = subtotal.Round(digits)
	iva := subtotal.Mul(ivaRate).Round(digits)
	return Totals{
		Subtotal: subtotal,
		IVA:      iva,
		Total:    subtotal.Add(iva),
		Currency: strings.ToUpper(currency),
	}, nil
}

// Sum adds decimal amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Fraction returns the minor unit digits of an ISO 4217 currency (CLP: 0, USD: 2).
func Fraction(code string) int32 {
	c := gomoney.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return 2
	}
	return int32(c.Fraction)
}

// localFormatters override go-money's separators for currencies shown with
// Chilean conventions.
var localFormatters = map[string]*gomoney.Formatter{
	"CLP": gomoney.NewFormatter(0, ",", ".", "$", "$1"),
}

// Format renders amount in its currency: 1190 CLP -> "$1.190".
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	c := gomoney.GetCurrency(code)
	if c == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	if f, ok := localFormatters[code]; ok {
		return f.Format(minor)
	}
	return gomoney.New(minor, code).Display()
}

func lineField(i int, field string) string {
	return "lineas[" + strconv.Itoa(i) + "]." + field
}
