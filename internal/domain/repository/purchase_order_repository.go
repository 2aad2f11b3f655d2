package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros de listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Keyword       string // busca en purchase_number y supplier_name
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

// PurchaseOrderRepository puerto de persistencia para órdenes de compra y sus ítems.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	CreateItem(ctx context.Context, item *entity.PurchaseOrderItem) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	// Delete elimina la orden; los ítems caen en cascada por FK.
	Delete(ctx context.Context, id string) error
	// LastPurchaseNumber devuelve el purchase_number más alto con el prefijo
	// dado ("" si no hay ninguno). La unicidad real la garantiza el índice
	// único; el caller reintenta ante 23505.
	LastPurchaseNumber(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)
}
