package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-inventory/internal/domain"
)

func TestError_IsKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", domain.NotFound("producto", "p1"), domain.ErrNotFound},
		{"stock", domain.InsufficientStock("p1", 2, 5), domain.ErrInsufficientStock},
		{"referencia", domain.InvalidReference("location_id"), domain.ErrInvalidReference},
		{"validación", domain.Validation("cantidad inválida"), domain.ErrValidation},
		{"duplicado", domain.Duplicate("barcode", "123"), domain.ErrDuplicate},
		{"conflicto", domain.Conflict("repetido"), domain.ErrConflict},
		{"db", domain.Database("insert sale", errors.New("boom")), domain.ErrDatabase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.err, tc.kind))
			assert.Equal(t, tc.kind, domain.KindOf(tc.err))
			// envuelto con %w sigue siendo reconocible
			wrapped := fmt.Errorf("capa superior: %w", tc.err)
			assert.Equal(t, tc.kind, domain.KindOf(wrapped))
		})
	}
}

func TestError_InvalidInputEsValidation(t *testing.T) {
	assert.True(t, errors.Is(domain.Validation("x"), domain.ErrInvalidInput))
}

func TestError_DatabaseConservaCausa(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.Database("update product", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestError_InvalidReferenceListaTodosLosCampos(t *testing.T) {
	err := domain.InvalidReference("location_id", "supplier_id")
	assert.Equal(t, []string{"location_id", "supplier_id"}, domain.DetailsOf(err))
	assert.Contains(t, err.Error(), "location_id, supplier_id")
}

func TestKindOf_SentinelPlano(t *testing.T) {
	assert.Equal(t, domain.ErrForbidden, domain.KindOf(fmt.Errorf("x: %w", domain.ErrForbidden)))
	assert.Nil(t, domain.KindOf(errors.New("otro")))
	assert.Nil(t, domain.KindOf(nil))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, domain.Wrap("op", nil))

	nf := domain.NotFound("producto", "p1")
	assert.Same(t, nf, domain.Wrap("op", nf))

	err := domain.Wrap("commit transaction", errors.New("conn closed"))
	assert.ErrorIs(t, err, domain.ErrDatabase)
	assert.Contains(t, err.Error(), "commit transaction")
}
