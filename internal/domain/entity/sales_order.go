package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder representa una venta (salida de stock).
// TotalAmount = Σ (precio unitario al momento de la venta × cantidad).
type SalesOrder struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
}

// OrderItem es una línea de venta. UnitPrice es snapshot del precio aplicado.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}
