// Package sales implementa el protocolo de registro de ventas: la venta y el descuento de stock
// se confirman juntos o no se confirma ninguno.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-inventory/internal/application/inventory"
	"github.com/jhoicas/retail-inventory/internal/application/ports"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

// IdempotencyTTL vigencia de una clave Idempotency-Key.
const IdempotencyTTL = 24 * time.Hour

// RecordSaleInput entrada de RecordSale. IdempotencyKey vacío desactiva la deduplicación.
type RecordSaleInput struct {
	ProductID      string
	Quantity       int
	UserID         string
	IdempotencyKey string
}

// RecordSaleUseCase registra ventas sobre el libro de stock.
type RecordSaleUseCase struct {
	tx      repository.TxRunner
	ledger  *inventory.StockLedger
	sales   repository.SaleRepository
	idem    ports.IdempotencyStore
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewRecordSaleUseCase construye el caso de uso. idem nil = sin deduplicación.
func NewRecordSaleUseCase(
	tx repository.TxRunner,
	ledger *inventory.StockLedger,
	sales repository.SaleRepository,
	idem ports.IdempotencyStore,
	metrics ports.Metrics,
	log *logger.Logger,
) *RecordSaleUseCase {
	if idem == nil {
		idem = ports.NopIdempotency{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordSaleUseCase{
		tx:      tx,
		ledger:  ledger,
		sales:   sales,
		idem:    idem,
		metrics: metrics,
		log:     log.Component("sales"),
		now:     time.Now,
	}
}

// RecordSale registra una venta y descuenta su cantidad del stock en una sola transacción.
// El decremento condicional va primero: si el producto no existe o no alcanza el stock,
// falla con NotFound o InsufficientStock y no se crea ninguna fila.
func (uc *RecordSaleUseCase) RecordSale(ctx context.Context, in RecordSaleInput) (*entity.Sale, error) {
	if in.Quantity <= 0 {
		uc.metrics.SaleRejected("validation")
		return nil, domain.Validation("la cantidad vendida debe ser positiva", "quantity")
	}
	if in.ProductID == "" {
		uc.metrics.SaleRejected("validation")
		return nil, domain.Validation("product_id es obligatorio", "product_id")
	}

	key := ""
	if in.IdempotencyKey != "" {
		key = fmt.Sprintf("sale:%s:%s", in.UserID, in.IdempotencyKey)
		ok, err := uc.idem.Claim(ctx, key, IdempotencyTTL)
		if err != nil {
			return nil, domain.Database("idempotency check", err)
		}
		if !ok {
			uc.metrics.SaleRejected("duplicate_request")
			return nil, domain.Conflict("la venta ya fue registrada con esta Idempotency-Key")
		}
	}

	sale := &entity.Sale{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		QuantitySold: in.Quantity,
		SaleDate:     uc.now().UTC(),
		UserID:       in.UserID,
	}
	var product *entity.Product
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		p, _, err := uc.ledger.ApplyInTx(ctx, repos, inventory.Mutation{
			ProductID:   in.ProductID,
			Delta:       -in.Quantity,
			Type:        entity.TransactionSale,
			UserID:      in.UserID,
			ReferenceID: sale.ID,
		})
		if err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		if key != "" {
			if rerr := uc.idem.Release(ctx, key); rerr != nil {
				uc.log.Warn().Err(rerr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		uc.metrics.SaleRejected(rejectReason(err))
		return nil, domain.Wrap("record sale", err)
	}

	uc.metrics.SaleRecorded()
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("product_id", sale.ProductID).
		Int("quantity", sale.QuantitySold).
		Int("stock", product.Quantity).
		Msg("venta registrada")
	uc.ledger.AfterCommit(ctx, product, -in.Quantity)
	return sale, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

// Get obtiene una venta por ID.
func (uc *RecordSaleUseCase) Get(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("venta", id)
	}
	return s, nil
}

// List ventas más recientes primero.
func (uc *RecordSaleUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return uc.sales.List(ctx, limit, offset)
}
