package inventory

// Estados de stock para el reporte de valorización.
const (
	StatusLow     = "low"
	StatusMedium  = "medium"
	StatusHealthy = "healthy"
)

// StockStatus clasifica la cantidad frente al umbral: low (q <= min), medium (q <= 1.5*min), healthy.
func StockStatus(quantity, minStockLevel int) string {
	switch {
	case quantity <= minStockLevel:
		return StatusLow
	case quantity*2 <= minStockLevel*3:
		return StatusMedium
	default:
		return StatusHealthy
	}
}
