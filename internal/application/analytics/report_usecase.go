// Package analytics contiene los casos de uso de reportes: ventas, valorización de
// inventario y resumen financiero con gastos de compra.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/inventory"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

const (
	reportTopProducts = 10 // productos en el ranking del reporte de ventas
	dateLayout        = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// ReportUseCase genera los reportes de negocio.
//
// Fuente de datos: ReportRepository (consultas read-only). Las consultas independientes
// de un mismo reporte se lanzan en paralelo.
type ReportUseCase struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reports repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{reports: reports, now: time.Now}
}

// SalesReport construye el reporte de ventas facturadas.
//
// Tres llamadas en paralelo:
//  1. SalesSummary   → totales
//  2. TopProducts    → ranking por ingreso
//  3. DailySales     → serie diaria
func (uc *ReportUseCase) SalesReport(ctx context.Context, req dto.ReportRangeRequest) (*dto.SalesReportDTO, error) {
	from, to, err := uc.parsePeriod(req.StartDate, req.EndDate, true)
	if err != nil {
		return nil, err
	}

	type summaryResult struct {
		s   repository.SalesSummary
		err error
	}
	type topResult struct {
		rows []repository.ProductSales
		err  error
	}
	type dailyResult struct {
		rows []repository.DailySales
		err  error
	}

	summaryCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	dailyCh := make(chan dailyResult, 1)

	go func() {
		s, err := uc.reports.SalesSummary(ctx, from, to, req.LocationID)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.reports.TopProducts(ctx, from, to, req.LocationID, reportTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.DailySales(ctx, from, to, req.LocationID)
		dailyCh <- dailyResult{rows, err}
	}()

	summary := <-summaryCh
	top := <-topCh
	daily := <-dailyCh

	if summary.err != nil {
		return nil, fmt.Errorf("reporte ventas: resumen: %w", summary.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("reporte ventas: top productos: %w", top.err)
	}
	if daily.err != nil {
		return nil, fmt.Errorf("reporte ventas: serie diaria: %w", daily.err)
	}

	s := summary.s
	avg := decimal.Zero
	if s.Transactions > 0 {
		avg = s.NetSales.Div(decimal.NewFromInt(int64(s.Transactions))).Round(2)
	}

	topDTO := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, r := range top.rows {
		topDTO = append(topDTO, dto.TopProductDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue.Round(2),
		})
	}
	dailyDTO := make([]dto.DailySalesDTO, 0, len(daily.rows))
	for _, r := range daily.rows {
		dailyDTO = append(dailyDTO, dto.DailySalesDTO{
			Date:         r.Day.UTC().Format(dateLayout),
			Transactions: r.Transactions,
			UnitsSold:    r.UnitsSold,
			Revenue:      r.Revenue.Round(2),
		})
	}

	return &dto.SalesReportDTO{
		From:          from,
		To:            to,
		LocationID:    req.LocationID,
		GeneratedAt:   uc.now().UTC(),
		Transactions:  s.Transactions,
		UnitsSold:     s.UnitsSold,
		GrossSales:    s.GrossSales.Round(2),
		TotalTax:      s.TotalTax.Round(2),
		TotalDiscount: s.TotalDiscount.Round(2),
		NetSales:      s.NetSales.Round(2),
		AverageTicket: avg,
		TopProducts:   topDTO,
		DailySales:    dailyDTO,
	}, nil
}

// InventoryReport valoriza el inventario y lo agrupa por estado de stock.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, locationID string) (*dto.InventoryReportDTO, error) {
	rows, err := uc.reports.InventoryValuation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("reporte inventario: %w", err)
	}

	out := &dto.InventoryReportDTO{
		LocationID:  locationID,
		GeneratedAt: uc.now().UTC(),
		TotalValue:  decimal.Zero,
		TotalCost:   decimal.Zero,
		Items:       make([]dto.ValuationItemDTO, 0, len(rows)),
		ByStatus: map[string][]dto.ValuationItemDTO{
			inventory.StatusLow:     {},
			inventory.StatusMedium:  {},
			inventory.StatusHealthy: {},
		},
	}
	for _, r := range rows {
		status := inventory.StockStatus(r.Quantity, r.MinStockLevel)
		item := dto.ValuationItemDTO{
			ProductID:     r.ProductID,
			Name:          r.Name,
			Quantity:      r.Quantity,
			MinStockLevel: r.MinStockLevel,
			Price:         r.Price,
			TotalValue:    r.TotalValue.Round(2),
			StockStatus:   status,
		}
		out.Items = append(out.Items, item)
		out.ByStatus[status] = append(out.ByStatus[status], item)
		out.TotalValue = out.TotalValue.Add(r.TotalValue)
		out.TotalCost = out.TotalCost.Add(r.CostPrice.Mul(decimal.NewFromInt(int64(r.Quantity))))
		if status == inventory.StatusLow {
			out.LowStockItems++
		}
	}
	out.TotalProducts = len(rows)
	out.TotalValue = out.TotalValue.Round(2)
	out.TotalCost = out.TotalCost.Round(2)

	// mayor valor primero dentro de cada grupo
	for _, items := range out.ByStatus {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].TotalValue.GreaterThan(items[j].TotalValue)
		})
	}
	return out, nil
}

// FinancialReport resumen financiero. Sin fechas = todo el histórico.
//
// Tres llamadas en paralelo:
//  1. FinancialSummary  → ingresos, impuestos, costo de lo vendido
//  2. WeeklyRevenue     → tendencia semanal
//  3. PurchaseExpenses  → compras recibidas por proveedor
func (uc *ReportUseCase) FinancialReport(ctx context.Context, req dto.ReportRangeRequest) (*dto.FinancialReportDTO, error) {
	from, to, err := uc.parsePeriod(req.StartDate, req.EndDate, false)
	if err != nil {
		return nil, err
	}

	type summaryResult struct {
		fs  repository.FinancialSummary
		err error
	}
	type trendResult struct {
		rows []repository.WeeklyRevenue
		err  error
	}
	type expenseResult struct {
		rows []repository.SupplierExpense
		err  error
	}

	summaryCh := make(chan summaryResult, 1)
	trendCh := make(chan trendResult, 1)
	expenseCh := make(chan expenseResult, 1)

	go func() {
		fs, err := uc.reports.FinancialSummary(ctx, from, to)
		summaryCh <- summaryResult{fs, err}
	}()
	go func() {
		rows, err := uc.reports.WeeklyRevenue(ctx, from, to)
		trendCh <- trendResult{rows, err}
	}()
	go func() {
		rows, err := uc.reports.PurchaseExpenses(ctx, from, to)
		expenseCh <- expenseResult{rows, err}
	}()

	summary := <-summaryCh
	trend := <-trendCh
	expenses := <-expenseCh

	if summary.err != nil {
		return nil, fmt.Errorf("reporte financiero: %w", summary.err)
	}
	if trend.err != nil {
		return nil, fmt.Errorf("reporte financiero: tendencia: %w", trend.err)
	}
	if expenses.err != nil {
		return nil, fmt.Errorf("reporte financiero: gastos: %w", expenses.err)
	}

	fs := summary.fs
	// los impuestos no son ingreso del negocio
	net := fs.Revenue.Sub(fs.Taxes)
	margin := net.Sub(fs.CostOfGoods)
	marginPct := decimal.Zero
	if net.IsPositive() {
		marginPct = margin.Div(net).Mul(hundred).Round(2)
	}
	avg := decimal.Zero
	if fs.Transactions > 0 {
		avg = fs.Revenue.Div(decimal.NewFromInt(int64(fs.Transactions))).Round(2)
	}

	trendDTO := make([]dto.WeeklyRevenueDTO, 0, len(trend.rows))
	for _, w := range trend.rows {
		trendDTO = append(trendDTO, dto.WeeklyRevenueDTO{
			WeekStart:    w.WeekStart.UTC().Format(dateLayout),
			Transactions: w.Transactions,
			Revenue:      w.Revenue.Round(2),
		})
	}
	spent := decimal.Zero
	breakdown := make([]dto.SupplierExpenseDTO, 0, len(expenses.rows))
	for _, e := range expenses.rows {
		spent = spent.Add(e.Amount)
		breakdown = append(breakdown, dto.SupplierExpenseDTO{
			SupplierID:   e.SupplierID,
			SupplierName: e.SupplierName,
			Orders:       e.Orders,
			Amount:       e.Amount.Round(2),
		})
	}

	out := &dto.FinancialReportDTO{
		GeneratedAt:      uc.now().UTC(),
		Revenue:          fs.Revenue.Round(2),
		Taxes:            fs.Taxes.Round(2),
		Discounts:        fs.Discounts.Round(2),
		Transactions:     fs.Transactions,
		AverageSale:      avg,
		CostOfGoods:      fs.CostOfGoods.Round(2),
		GrossMargin:      margin.Round(2),
		GrossMarginPct:   marginPct,
		Expenses:         spent.Round(2),
		NetProfit:        net.Sub(spent).Round(2),
		RevenueTrend:     trendDTO,
		ExpenseBreakdown: breakdown,
	}
	if !from.IsZero() {
		out.From = &from
	}
	if !to.IsZero() {
		out.To = &to
	}
	return out, nil
}

// parsePeriod convierte fechas YYYY-MM-DD (UTC) en un rango inclusivo.
// Con defaults=true, fin vacío = ahora e inicio vacío = primer día del mes; si no, quedan en cero.
func (uc *ReportUseCase) parsePeriod(startStr, endStr string, defaults bool) (start, end time.Time, err error) {
	now := uc.now().UTC()

	if endStr != "" {
		end, err = time.ParseInLocation(dateLayout, endStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, domain.Validation("end_date inválido, formato YYYY-MM-DD", "end_date")
		}
		end = end.Add(24*time.Hour - time.Nanosecond) // inclusive hasta el final del día
	} else if defaults {
		end = now
	}

	if startStr != "" {
		start, err = time.ParseInLocation(dateLayout, startStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, domain.Validation("start_date inválido, formato YYYY-MM-DD", "start_date")
		}
	} else if defaults {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, domain.Validation("start_date no puede ser posterior a end_date", "start_date")
	}
	return start, end, nil
}
