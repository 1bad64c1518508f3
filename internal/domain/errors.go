package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos se detectan antes de mutar estado: una solicitud rechazada deja cantidades y saldos intactos.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrNegativeStock la operación dejaría existencias negativas o reservas mayores que las existencias.
	ErrNegativeStock = errors.New("el stock resultante sería negativo")
	// ErrResaleNotConsumable un producto de reventa no puede consumirse internamente.
	ErrResaleNotConsumable = errors.New("los productos de reventa no se pueden consumir internamente")
	// ErrEntityNotFound proveedor o cliente inexistente.
	ErrEntityNotFound = errors.New("proveedor o cliente no encontrado")
	// ErrCreditLimitExceeded advertencia de límite de crédito; solo bloquea si el llamador lo exige.
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
)
