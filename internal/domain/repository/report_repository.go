package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary resultado crudo de ventas facturadas en un rango.
type SalesSummary struct {
	Transactions  int
	UnitsSold     int
	GrossSales    decimal.Decimal // suma de subtotales
	TotalTax      decimal.Decimal
	TotalDiscount decimal.Decimal
	NetSales      decimal.Decimal // suma de totales
}

// ProductSales ventas agregadas por producto.
type ProductSales struct {
	ProductID   string
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal // unidades * precio
}

// DailySales punto de la serie diaria.
type DailySales struct {
	Day          time.Time
	Transactions int
	UnitsSold    int
	Revenue      decimal.Decimal
}

// ValuationRow valorización de un producto.
type ValuationRow struct {
	ProductID     string
	Name          string
	Quantity      int
	MinStockLevel int
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	TotalValue    decimal.Decimal // quantity * price
}

// FinancialSummary totales financieros en un rango.
type FinancialSummary struct {
	Revenue      decimal.Decimal
	Taxes        decimal.Decimal
	Discounts    decimal.Decimal
	Transactions int
	CostOfGoods  decimal.Decimal // quantity_sold * cost_price
}

// WeeklyRevenue ingreso facturado por semana (lunes 00:00 UTC).
type WeeklyRevenue struct {
	WeekStart    time.Time
	Transactions int
	Revenue      decimal.Decimal
}

// SupplierExpense gasto en órdenes de compra recibidas, agrupado por proveedor.
// Una orden cuenta como gasto en la fecha en que se recibe.
type SupplierExpense struct {
	SupplierID   string
	SupplierName string
	Orders       int
	Amount       decimal.Decimal
}

// ReportRepository consultas read-only para reportes. locationID vacío = todas.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time, locationID string) (SalesSummary, error)
	TopProducts(ctx context.Context, from, to time.Time, locationID string, limit int) ([]ProductSales, error)
	DailySales(ctx context.Context, from, to time.Time, locationID string) ([]DailySales, error)
	InventoryValuation(ctx context.Context, locationID string) ([]ValuationRow, error)
	FinancialSummary(ctx context.Context, from, to time.Time) (FinancialSummary, error)
	WeeklyRevenue(ctx context.Context, from, to time.Time) ([]WeeklyRevenue, error)
	PurchaseExpenses(ctx context.Context, from, to time.Time) ([]SupplierExpense, error)
}
