package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products     ProductRepository
	Sales        SaleRepository
	Invoices     InvoiceRepository
	Alerts       StockAlertRepository
	Transactions InventoryTransactionRepository
	Purchases    PurchaseOrderRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
