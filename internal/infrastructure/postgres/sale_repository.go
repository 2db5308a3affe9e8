package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL. No hay UPDATE: una venta es un hecho inmutable.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var userID *string
	if err := row.Scan(&s.ID, &s.ProductID, &s.QuantitySold, &s.SaleDate, &userID); err != nil {
		return nil, err
	}
	if userID != nil {
		s.UserID = *userID
	}
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, product_id, quantity_sold, sale_date, user_id) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.ProductID, s.QuantitySold, s.SaleDate, nullable(&s.UserID),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto", s.ProductID)
		}
		return domain.Database("insert sale", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, "SELECT "+cols(saleColumns)+" FROM sales WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("get sale", err)
	}
	return s, nil
}

func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		"SELECT "+cols(saleColumns)+" FROM sales ORDER BY sale_date DESC, id LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, domain.Database("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, domain.Database("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list sales", err)
	}
	return list, nil
}
