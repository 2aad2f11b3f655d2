package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SalesOrderRepository puerto de persistencia para ventas y sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	// Delete elimina la venta; las líneas caen en cascada por FK.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, keyword string, limit, offset int) ([]*entity.SalesOrder, int, error)
}
