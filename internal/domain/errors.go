package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrMediaUnavailable   = errors.New("media store no disponible")
)

// StockShortageError detalla un intento de descontar más stock del disponible.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type StockShortageError struct {
	ProductName string
	Available   int64
	Requested   int64
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para '%s': disponible %d, solicitado %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }
