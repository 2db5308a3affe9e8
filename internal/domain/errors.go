package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tipos de error de dominio (sin dependencias externas).
// Los llamadores comparan con errors.Is contra estos valores.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidReference  = errors.New("referencia inválida")
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrDatabase          = errors.New("error de base de datos")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
)

// ErrInvalidInput se mantiene como alias de ErrValidation.
var ErrInvalidInput = ErrValidation

// Error es el resultado tipado de una operación fallida: un Kind cerrado,
// un mensaje legible y detalles estructurados (ej. campos con referencia rota).
type Error struct {
	Kind    error
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if len(e.Details) > 0 {
		msg += " [" + strings.Join(e.Details, ", ") + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap expone el Kind y la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound entidad inexistente.
func NotFound(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s no encontrado", entity, id)}
}

// InsufficientStock la operación dejaría la cantidad en negativo.
func InsufficientStock(productID string, available, requested int) *Error {
	return &Error{
		Kind:    ErrInsufficientStock,
		Message: fmt.Sprintf("stock insuficiente para producto %s: disponible %d, solicitado %d", productID, available, requested),
	}
}

// InvalidReference lista todos los campos cuya referencia no existe.
func InvalidReference(fields ...string) *Error {
	return &Error{Kind: ErrInvalidReference, Message: "referencias inválidas", Details: fields}
}

// Validation entrada mal formada.
func Validation(msg string, details ...string) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Details: details}
}

// Duplicate violación de unicidad.
func Duplicate(field, value string) *Error {
	return &Error{Kind: ErrDuplicate, Message: fmt.Sprintf("%s %q ya existe", field, value), Details: []string{field}}
}

// Conflict estado incompatible con la operación (ej. clave de idempotencia repetida).
func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// Database envuelve una falla inesperada de persistencia.
func Database(op string, cause error) *Error {
	return &Error{Kind: ErrDatabase, Message: op, Err: cause}
}

var kinds = []error{
	ErrNotFound, ErrInsufficientStock, ErrInvalidReference, ErrValidation,
	ErrDuplicate, ErrDatabase, ErrUnauthorized, ErrForbidden, ErrConflict,
}

// KindOf devuelve el tipo de error de dominio, o nil si err no pertenece a la taxonomía.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// DetailsOf devuelve los detalles estructurados si err es un *Error.
func DetailsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// Wrap deja pasar errores de la taxonomía y envuelve cualquier otro como Database(op).
// Se usa en los límites de transacción (begin/commit devuelven errores del driver).
func Wrap(op string, err error) error {
	if err == nil || KindOf(err) != nil {
		return err
	}
	return Database(op, err)
}
