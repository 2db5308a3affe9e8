package postgres

import (
	"context"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo log append-only de alertas.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

func (r *StockAlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_alerts (id, product_id, alert_type, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.ProductID, a.AlertType, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto", a.ProductID)
		}
		return domain.Database("insert stock alert", err)
	}
	return nil
}

func (r *StockAlertRepo) List(ctx context.Context, productID string, limit int) ([]*entity.StockAlert, error) {
	query := "SELECT " + cols(alertColumns) + " FROM stock_alerts"
	args := []any{}
	if productID != "" {
		query += " WHERE product_id = $1"
		args = append(args, productID)
	}
	query += " ORDER BY created_at DESC, id"
	if limit > 0 {
		args = append(args, limit)
		if productID != "" {
			query += " LIMIT $2"
		} else {
			query += " LIMIT $1"
		}
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("list stock alerts", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.AlertType, &a.CreatedAt); err != nil {
			return nil, domain.Database("scan stock alert", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list stock alerts", err)
	}
	return list, nil
}
