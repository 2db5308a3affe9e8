package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRangeRequest query params comunes de los reportes. Fechas YYYY-MM-DD.
type ReportRangeRequest struct {
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
	LocationID string `query:"location_id"`
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// TopProductDTO producto con mayor ingreso en el período.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DailySalesDTO punto de la serie diaria.
type DailySalesDTO struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	Transactions int             `json:"transactions"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesReportDTO reporte de ventas facturadas.
type SalesReportDTO struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	LocationID    string          `json:"location_id,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Transactions  int             `json:"transactions"`
	UnitsSold     int             `json:"units_sold"`
	GrossSales    decimal.Decimal `json:"gross_sales"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	NetSales      decimal.Decimal `json:"net_sales"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	TopProducts   []TopProductDTO `json:"top_products"`
	DailySales    []DailySalesDTO `json:"daily_sales"`
}

// ── Inventario ────────────────────────────────────────────────────────────────

// ValuationItemDTO valorización de un producto.
type ValuationItemDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Price         decimal.Decimal `json:"price"`
	TotalValue    decimal.Decimal `json:"total_value"`
	StockStatus   string          `json:"stock_status"`
}

// InventoryReportDTO valorización del inventario agrupada por estado de stock.
type InventoryReportDTO struct {
	LocationID    string                        `json:"location_id,omitempty"`
	GeneratedAt   time.Time                     `json:"generated_at"`
	TotalValue    decimal.Decimal               `json:"total_value"`
	TotalCost     decimal.Decimal               `json:"total_cost"` // quantity * cost_price
	TotalProducts int                           `json:"total_products"`
	LowStockItems int                           `json:"low_stock_items"`
	Items         []ValuationItemDTO            `json:"items"`
	ByStatus      map[string][]ValuationItemDTO `json:"by_status"`
}

// ── Financiero ────────────────────────────────────────────────────────────────

// WeeklyRevenueDTO punto de la tendencia semanal de ingresos.
type WeeklyRevenueDTO struct {
	WeekStart    string          `json:"week_start"` // YYYY-MM-DD, lunes
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SupplierExpenseDTO gasto en compras recibidas de un proveedor.
type SupplierExpenseDTO struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Orders       int             `json:"orders"`
	Amount       decimal.Decimal `json:"amount"`
}

// FinancialReportDTO resumen financiero.
// GrossMargin = Revenue - Taxes - CostOfGoods (los impuestos no son ingreso del negocio).
// NetProfit = Revenue - Taxes - Expenses, donde Expenses son las compras recibidas en el período.
type FinancialReportDTO struct {
	From             *time.Time           `json:"from,omitempty"`
	To               *time.Time           `json:"to,omitempty"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Revenue          decimal.Decimal      `json:"revenue"`
	Taxes            decimal.Decimal      `json:"taxes"`
	Discounts        decimal.Decimal      `json:"discounts"`
	Transactions     int                  `json:"transactions"`
	AverageSale      decimal.Decimal      `json:"average_sale"`
	CostOfGoods      decimal.Decimal      `json:"cost_of_goods"`
	GrossMargin      decimal.Decimal      `json:"gross_margin"`
	GrossMarginPct   decimal.Decimal      `json:"gross_margin_pct"`
	Expenses         decimal.Decimal      `json:"expenses"`
	NetProfit        decimal.Decimal      `json:"net_profit"`
	RevenueTrend     []WeeklyRevenueDTO   `json:"revenue_trend"`
	ExpenseBreakdown []SupplierExpenseDTO `json:"expense_breakdown"`
}
