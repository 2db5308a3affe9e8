package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/pkg/logger"
)

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[error]errorMapping{
	domain.ErrNotFound:          {fiber.StatusNotFound, "NOT_FOUND"},
	domain.ErrInsufficientStock: {fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	domain.ErrInvalidReference:  {fiber.StatusUnprocessableEntity, "INVALID_REFERENCE"},
	domain.ErrValidation:        {fiber.StatusBadRequest, "VALIDATION"},
	domain.ErrDuplicate:         {fiber.StatusConflict, "DUPLICATE"},
	domain.ErrConflict:          {fiber.StatusConflict, "CONFLICT"},
	domain.ErrUnauthorized:      {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.ErrForbidden:         {fiber.StatusForbidden, "FORBIDDEN"},
	domain.ErrDatabase:          {fiber.StatusInternalServerError, "DATABASE"},
}

// ErrorHandler traduce los errores devueltos por los handlers a ErrorResponse.
// En producción los errores de base de datos y los no clasificados se responden sin detalle.
func ErrorHandler(log *logger.Logger, production bool) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}

		m := mappingFor(err)
		msg := err.Error()
		if m.status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
			if production {
				msg = "error interno, intente más tarde"
			}
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg, Details: domain.DetailsOf(err)})
	}
}

func mappingFor(err error) errorMapping {
	if m, ok := errorMappings[domain.KindOf(err)]; ok {
		return m
	}
	return errorMapping{fiber.StatusInternalServerError, "INTERNAL"}
}

// statusFor código HTTP que ErrorHandler usará para err.
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return mappingFor(err).status
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "INTERNAL"
	}
}
