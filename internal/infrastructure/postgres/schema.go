package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

// Nombres de tablas del esquema fijo.
const (
	TableLocations             = "locations"
	TableSuppliers             = "suppliers"
	TableUsers                 = "users"
	TableProducts              = "products"
	TableSales                 = "sales"
	TableInvoices              = "invoices"
	TableStockAlerts           = "stock_alerts"
	TableInventoryTransactions = "inventory_transactions"
	TablePurchaseOrders        = "purchase_orders"
	TablePurchaseOrderItems    = "purchase_order_items"
)

// Columnas en el orden en que los repos las seleccionan y escanean.
var (
	productColumns = []string{
		"id", "name", "barcode", "price", "cost_price", "quantity", "min_stock_level",
		"category", "location_id", "supplier_id", "last_alert_at", "created_at", "updated_at",
	}
	saleColumns        = []string{"id", "product_id", "quantity_sold", "sale_date", "user_id"}
	invoiceColumns     = []string{"id", "sale_id", "subtotal", "taxable_amount", "exempt_amount", "tax_amount", "discount", "total", "invoice_date", "product_name", "barcode", "category", "tax_rate"}
	alertColumns       = []string{"id", "product_id", "alert_type", "created_at"}
	transactionColumns = []string{"id", "product_id", "quantity_change", "transaction_type", "user_id", "reason", "reference_id", "created_at"}

	purchaseOrderColumns = []string{"id", "po_number", "supplier_id", "location_id", "status", "total_amount", "order_date", "closed_at", "created_by"}
	purchaseItemColumns  = []string{"id", "purchase_order_id", "product_id", "quantity", "unit_cost"}
)

func cols(c []string) string {
	return strings.Join(c, ", ")
}

// Tables lista las tablas en orden de creación.
func Tables() []string {
	return []string{
		TableLocations, TableSuppliers, TableUsers, TableProducts,
		TableSales, TableInvoices, TableStockAlerts, TableInventoryTransactions,
		TablePurchaseOrders, TablePurchaseOrderItems,
	}
}

//go:embed schema.sql
var schemaSQL string

// SchemaSQL DDL completo (idempotente).
func SchemaSQL() string {
	return schemaSQL
}

// EnsureSchema aplica el DDL embebido. Solo para bootstrap y tests de integración.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
