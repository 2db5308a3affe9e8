// Package memory implementa los puertos de repositorio en memoria.
// Se usa en pruebas y en modo demo; Run serializa las transacciones con un único mutex.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	products     map[string]*entity.Product
	sales        []*entity.Sale
	invoices     []*entity.Invoice
	alerts       []*entity.StockAlert
	transactions []*entity.InventoryTransaction
	locations    []*entity.Location
	suppliers    []*entity.Supplier
	users        []*entity.User
	purchases    []*entity.PurchaseOrder
}

func newState() *state {
	return &state{products: make(map[string]*entity.Product)}
}

// clone copia la estructura; los productos se copian por valor porque son mutables.
func (s *state) clone() *state {
	c := &state{
		products:     make(map[string]*entity.Product, len(s.products)),
		sales:        append([]*entity.Sale(nil), s.sales...),
		invoices:     append([]*entity.Invoice(nil), s.invoices...),
		alerts:       append([]*entity.StockAlert(nil), s.alerts...),
		transactions: append([]*entity.InventoryTransaction(nil), s.transactions...),
		locations:    append([]*entity.Location(nil), s.locations...),
		suppliers:    append([]*entity.Supplier(nil), s.suppliers...),
		users:        append([]*entity.User(nil), s.users...),
		purchases:    append([]*entity.PurchaseOrder(nil), s.purchases...),
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	return c
}

// Store almacén en memoria.
type Store struct {
	mu       sync.Mutex
	st       *state
	failures map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), failures: make(map[string]error)}
}

// FailNext hace que la próxima llamada a op (ej. "transactions.create") falle con err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail consume un error inyectado. Llamar con mu tomado.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	b := base{s: s, tx: work}
	if err := fn(repository.TxRepos{
		Products:     &ProductRepo{b},
		Sales:        &SaleRepo{b},
		Invoices:     &InvoiceRepo{b},
		Alerts:       &StockAlertRepo{b},
		Transactions: &TransactionRepo{b},
		Purchases:    &PurchaseOrderRepo{b},
	}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repositorios fuera de transacción.

func (s *Store) Products() *ProductRepo         { return &ProductRepo{base{s: s}} }
func (s *Store) Sales() *SaleRepo               { return &SaleRepo{base{s: s}} }
func (s *Store) Invoices() *InvoiceRepo         { return &InvoiceRepo{base{s: s}} }
func (s *Store) Alerts() *StockAlertRepo        { return &StockAlertRepo{base{s: s}} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{base{s: s}} }
func (s *Store) Locations() *LocationRepo       { return &LocationRepo{base{s: s}} }
func (s *Store) Suppliers() *SupplierRepo       { return &SupplierRepo{base{s: s}} }
func (s *Store) Users() *UserRepo               { return &UserRepo{base{s: s}} }
func (s *Store) Reports() *ReportRepo           { return &ReportRepo{base{s: s}} }
func (s *Store) Purchases() *PurchaseOrderRepo  { return &PurchaseOrderRepo{base{s: s}} }

// base resuelve el estado: el de la tx si existe, si no el global bajo mutex.
type base struct {
	s  *Store
	tx *state
}

func (b base) with(op string, fn func(st *state) error) error {
	if b.tx != nil {
		if err := b.s.fail(op); err != nil {
			return err
		}
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if err := b.s.fail(op); err != nil {
		return err
	}
	return fn(b.s.st)
}
