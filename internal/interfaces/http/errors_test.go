package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	apphttp "github.com/jhoicas/retail-inventory/internal/interfaces/http"
)

func errorApp(production bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, production)})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decodeError(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_MapeoDeEstados(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.NotFound("producto", "p1"), 404, "NOT_FOUND"},
		{"stock", domain.InsufficientStock("p1", 1, 5), 409, "INSUFFICIENT_STOCK"},
		{"referencia", domain.InvalidReference("location_id"), 422, "INVALID_REFERENCE"},
		{"validación", domain.Validation("x"), 400, "VALIDATION"},
		{"duplicado", domain.Duplicate("barcode", "1"), 409, "DUPLICATE"},
		{"conflicto", domain.Conflict("repetido"), 409, "CONFLICT"},
		{"no autorizado", domain.ErrUnauthorized, 401, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, 403, "FORBIDDEN"},
		{"db", domain.Database("insert", errors.New("boom")), 500, "DATABASE"},
		{"desconocido", errors.New("algo raro"), 500, "INTERNAL"},
		{"fiber", fiber.ErrMethodNotAllowed, 405, "METHOD_NOT_ALLOWED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := decodeError(t, errorApp(false, tc.err))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHandler_ReferenciasInvalidasListanCampos(t *testing.T) {
	_, body := decodeError(t, errorApp(false, domain.InvalidReference("location_id", "supplier_id")))
	assert.Equal(t, []string{"location_id", "supplier_id"}, body.Details)
}

func TestErrorHandler_ProduccionOcultaCausa(t *testing.T) {
	err := domain.Database("insert sale", errors.New("pq: password authentication failed"))

	_, dev := decodeError(t, errorApp(false, err))
	assert.Contains(t, dev.Message, "password authentication")

	_, prod := decodeError(t, errorApp(true, err))
	assert.NotContains(t, prod.Message, "password")
	assert.Equal(t, "DATABASE", prod.Code)
}
