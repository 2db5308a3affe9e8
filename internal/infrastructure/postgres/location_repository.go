package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO locations (id, name, address, created_at) VALUES ($1, $2, $3, $4)`,
		l.ID, l.Name, l.Address, l.CreatedAt,
	)
	if err != nil {
		return domain.Database("insert location", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `SELECT id, name, address, created_at FROM locations WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, domain.Database("get location", err)
	}
	return &l, nil
}

// Exists lectura no bloqueante; no se serializa contra borrados concurrentes.
func (r *LocationRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, domain.Database("location exists", err)
	}
	return ok, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, address, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, domain.Database("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt); err != nil {
			return nil, domain.Database("scan location", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Database("list locations", err)
	}
	return list, nil
}
