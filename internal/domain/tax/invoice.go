package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/domain"
)

// LineItem entrada del cálculo: precio unitario, cantidad y categoría.
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Category  string
}

// Breakdown resultado del cálculo. Todos los montos con 2 decimales.
type Breakdown struct {
	Subtotal      decimal.Decimal
	TaxableAmount decimal.Decimal
	ExemptAmount  decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

const moneyPlaces = 2

// ComputeInvoice calcula la factura con la tabla estándar.
func ComputeInvoice(items []LineItem, discount decimal.Decimal) (Breakdown, error) {
	return DefaultTable().ComputeInvoice(items, discount)
}

// ComputeInvoice es una función pura: mismas entradas, mismo resultado.
// El impuesto se acumula sin redondear y se redondea una sola vez al final.
func (t Table) ComputeInvoice(items []LineItem, discount decimal.Decimal) (Breakdown, error) {
	if len(items) == 0 {
		return Breakdown{}, domain.Validation("la factura requiere al menos una línea")
	}
	var subtotal, taxable, exempt, taxAmount decimal.Decimal
	for i, it := range items {
		if it.Quantity <= 0 {
			return Breakdown{}, domain.Validation("cantidad inválida", fmt.Sprintf("items[%d].quantity", i))
		}
		if it.UnitPrice.IsNegative() {
			return Breakdown{}, domain.Validation("precio inválido", fmt.Sprintf("items[%d].unit_price", i))
		}
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		rate, _ := t.RateFor(it.Category)
		subtotal = subtotal.Add(line)
		if rate.IsZero() {
			exempt = exempt.Add(line)
			continue
		}
		taxable = taxable.Add(line)
		taxAmount = taxAmount.Add(line.Mul(rate))
	}

	if discount.IsNegative() {
		return Breakdown{}, domain.Validation("el descuento no puede ser negativo", "discount")
	}
	if discount.GreaterThan(subtotal) {
		return Breakdown{}, domain.Validation("el descuento excede el subtotal", "discount")
	}

	b := Breakdown{
		Subtotal:      subtotal.Round(moneyPlaces),
		TaxableAmount: taxable.Round(moneyPlaces),
		ExemptAmount:  exempt.Round(moneyPlaces),
		TaxAmount:     taxAmount.Round(moneyPlaces),
		Discount:      discount.Round(moneyPlaces),
	}
	b.Total = b.Subtotal.Add(b.TaxAmount).Sub(b.Discount)
	return b, nil
}

// LineRate tasa aplicada a una línea (para mostrar en PDF).
func (t Table) LineRate(category string) decimal.Decimal {
	rate, _ := t.RateFor(category)
	return rate
}
