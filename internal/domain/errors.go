package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrNegativeStock          = errors.New("stock negativo: invariante violado")
	ErrUnresolvedProduct      = errors.New("la solicitud no está vinculada a un producto del catálogo")
)

// InsufficientStockError indica que una operación pidió más cantidad de la
// disponible en (producto, categoría). Lleva la cantidad disponible para que
// el caller pueda ofrecer un monto corregido.
type InsufficientStockError struct {
	ProductID string
	Category  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s/%s: solicitado %s, disponible %s",
		e.ProductID, e.Category, e.Requested, e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidStateTransitionError indica una operación sobre una solicitud de
// compra en un estado incompatible. Lleva el estado actual para diagnóstico.
type InvalidStateTransitionError struct {
	RequestID string
	From      string
	To        string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("solicitud %s: transición inválida %s -> %s", e.RequestID, e.From, e.To)
}

// Is permite errors.Is(err, ErrInvalidStateTransition).
func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
