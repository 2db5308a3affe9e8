package repository

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain/entity"
)

// StockAlertRepository log append-only de alertas de stock bajo.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error
	// List devuelve las alertas más recientes primero; productID vacío = todas.
	List(ctx context.Context, productID string, limit int) ([]*entity.StockAlert, error)
}
