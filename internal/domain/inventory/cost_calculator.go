package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio tras una entrada de mercancía.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Se redondea a 4 decimales; si el stock resultante no es positivo devuelve el costo de entrada.
func WeightedAverageCost(currentQty int, currentCost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	total := currentQty + inQty
	if total <= 0 {
		return inCost
	}
	if currentQty <= 0 {
		return inCost.Round(4)
	}
	num := decimal.NewFromInt(int64(currentQty)).Mul(currentCost).
		Add(decimal.NewFromInt(int64(inQty)).Mul(inCost))
	return num.Div(decimal.NewFromInt(int64(total))).Round(4)
}
