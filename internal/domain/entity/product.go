package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Price es el costo de compra y PayPrice el precio de venta (nombres heredados
// de la API original: "price" / "payprice"). Quantity nunca baja de cero;
// solo lo mutan el catálogo, las recepciones de compra y las ventas.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // costo de compra
	PayPrice    decimal.Decimal // precio de venta
	Quantity    int64
	CategoryID  string
	Active      bool
	ImageURL    string // URL en Cloudinary o referencia local degradada
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitSalePrice devuelve el precio unitario de venta: PayPrice, con fallback
// al costo de compra si el precio de venta no está definido.
func (p *Product) UnitSalePrice() decimal.Decimal {
	if p.PayPrice.IsZero() {
		return p.Price
	}
	return p.PayPrice
}
