package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity fija la cantidad absoluta; el caller garantiza quantity >= 0
	// bajo el lock de fila.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	// UpdatePrices actualiza solo costo y precio de venta (efecto colateral de
	// recibir stock con precios distintos).
	UpdatePrices(ctx context.Context, id string, price, payPrice decimal.Decimal) error
	List(ctx context.Context, keyword string, limit, offset int) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id string) error
}
