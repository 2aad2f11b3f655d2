package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard es el agregado financiero mensual: una fila por (year, month),
// creada perezosamente con el primer evento del mes y nunca borrada.
// Subtotal acumula costo de compras, Total acumula ingresos de ventas y
// Profit = Total - Subtotal. Se muta por deltas (O(1) por evento); cada
// incremento exige su decremento par en la ruta de reversa correspondiente.
type Dashboard struct {
	ID        string
	Year      int
	Month     int
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
	Profit    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
