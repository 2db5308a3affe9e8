// Package tax contiene la tabla de tasas por categoría y el cálculo puro de factura.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StandardRate tasa estándar aplicada a categorías no reconocidas.
var StandardRate = decimal.RequireFromString("0.18")

// tasas fijas por categoría (en minúsculas).
var categoryRates = map[string]decimal.Decimal{
	"books":       decimal.Zero,
	"medicine":    decimal.Zero,
	"groceries":   decimal.RequireFromString("0.05"),
	"apparel":     decimal.RequireFromString("0.12"),
	"electronics": decimal.RequireFromString("0.18"),
	"furniture":   decimal.RequireFromString("0.18"),
	"luxury":      decimal.RequireFromString("0.28"),
}

// Table tabla inmutable de tasas. La tasa por defecto se usa para categorías desconocidas.
type Table struct {
	defaultRate decimal.Decimal
}

// DefaultTable tabla con la tasa estándar.
func DefaultTable() Table {
	return Table{defaultRate: StandardRate}
}

// NewTable construye la tabla con otra tasa por defecto (configurable vía TAX_STANDARD_RATE).
func NewTable(defaultRate decimal.Decimal) Table {
	if defaultRate.IsNegative() {
		defaultRate = StandardRate
	}
	return Table{defaultRate: defaultRate}
}

// DefaultRate tasa aplicada cuando la categoría no existe.
func (t Table) DefaultRate() decimal.Decimal {
	return t.defaultRate
}

// RateFor devuelve la tasa de la categoría y si fue reconocida.
// Una categoría desconocida no es error: se aplica la tasa por defecto.
func (t Table) RateFor(category string) (decimal.Decimal, bool) {
	rate, ok := categoryRates[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return t.defaultRate, false
	}
	return rate, true
}

// Categories devuelve las categorías conocidas.
func Categories() []string {
	out := make([]string, 0, len(categoryRates))
	for c := range categoryRates {
		out = append(out, c)
	}
	return out
}
