package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/inventory"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// StockLedger es el único dueño de la cantidad de un producto.
// Cada mutación es una escritura condicional + fila de auditoría dentro de una sola transacción.
type StockLedger struct {
	tx      repository.TxRunner
	alerts  AlertDispatcher
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewStockLedger construye el libro de stock. alerts puede ser nil (sin alertas).
func NewStockLedger(tx repository.TxRunner, alerts AlertDispatcher, metrics ports.Metrics, log *logger.Logger) *StockLedger {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{tx: tx, alerts: alerts, metrics: metrics, log: log.Component("stock_ledger"), now: time.Now}
}

// AdjustInput entrada de AdjustStock.
// UnitCost solo aplica a entradas (Delta > 0) y convierte el ajuste en una reposición con costo promedio.
type AdjustInput struct {
	ProductID string
	Delta     int
	UserID    string
	Reason    string
	UnitCost  *decimal.Decimal
}

// AdjustResult producto tras el ajuste, fila de auditoría y si se disparó una alerta.
type AdjustResult struct {
	Product     *entity.Product
	Transaction *entity.InventoryTransaction
	AlertRaised bool
}

// Mutation describe una mutación aplicada dentro de una transacción ajena (ej. una venta).
type Mutation struct {
	ProductID   string
	Delta       int
	Type        string
	UserID      string
	Reason      string
	ReferenceID string
	UnitCost    *decimal.Decimal
}

// AdjustStock aplica quantity += delta. Falla con NotFound o InsufficientStock sin modificar nada.
// Tras el commit, si la cantidad quedó en o bajo el umbral, invoca al despachador de alertas;
// un fallo del despachador nunca revierte el ajuste.
func (l *StockLedger) AdjustStock(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.ProductID == "" {
		return nil, domain.Validation("product_id es obligatorio", "product_id")
	}
	if in.Delta == 0 {
		return nil, domain.Validation("delta no puede ser cero", "delta")
	}
	txType := entity.TransactionAdjustment
	if in.UnitCost != nil {
		if in.Delta < 0 {
			return nil, domain.Validation("unit_cost solo aplica a entradas", "unit_cost")
		}
		if in.UnitCost.IsNegative() {
			return nil, domain.Validation("unit_cost no puede ser negativo", "unit_cost")
		}
		txType = entity.TransactionRestock
	}

	var res AdjustResult
	err := l.tx.Run(ctx, func(repos repository.TxRepos) error {
		p, t, err := l.ApplyInTx(ctx, repos, Mutation{
			ProductID: in.ProductID,
			Delta:     in.Delta,
			Type:      txType,
			UserID:    in.UserID,
			Reason:    in.Reason,
			UnitCost:  in.UnitCost,
		})
		if err != nil {
			return err
		}
		res.Product, res.Transaction = p, t
		return nil
	})
	if err != nil {
		return nil, domain.Wrap("adjust stock", err)
	}

	l.log.Info().
		Str("product_id", in.ProductID).
		Int("delta", in.Delta).
		Int("quantity", res.Product.Quantity).
		Str("type", txType).
		Msg("stock ajustado")
	res.AlertRaised = l.AfterCommit(ctx, res.Product, in.Delta)
	return &res, nil
}

// ApplyInTx ejecuta la mutación con los repositorios de la transacción del llamador:
// escritura condicional, costo promedio en entradas con costo y fila de auditoría.
// Si devuelve error el llamador debe abortar su transacción.
func (l *StockLedger) ApplyInTx(ctx context.Context, repos repository.TxRepos, m Mutation) (*entity.Product, *entity.InventoryTransaction, error) {
	p, err := repos.Products.AdjustQuantity(ctx, m.ProductID, m.Delta)
	if err != nil {
		return nil, nil, err
	}

	if m.UnitCost != nil && m.Delta > 0 {
		// la fila devuelta ya incluye el delta; la cantidad previa es Quantity - Delta
		cost := inventory.WeightedAverageCost(p.Quantity-m.Delta, p.CostPrice, m.Delta, *m.UnitCost)
		if err := repos.Products.UpdateCost(ctx, p.ID, cost); err != nil {
			return nil, nil, err
		}
		p.CostPrice = cost
	}

	t := &entity.InventoryTransaction{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		QuantityChange: m.Delta,
		Type:           m.Type,
		UserID:         m.UserID,
		Reason:         m.Reason,
		ReferenceID:    m.ReferenceID,
		CreatedAt:      l.now().UTC(),
	}
	if err := repos.Transactions.Create(ctx, t); err != nil {
		return nil, nil, err
	}
	return p, t, nil
}

// AfterCommit registra métricas y dispara la alerta si un decremento dejó el producto bajo umbral.
func (l *StockLedger) AfterCommit(ctx context.Context, p *entity.Product, delta int) bool {
	if delta > 0 {
		l.metrics.StockAdjusted("in")
		return false
	}
	l.metrics.StockAdjusted("out")
	if l.alerts == nil || !p.IsLowStock() {
		return false
	}
	return l.alerts.MaybeAlert(ctx, p)
}
