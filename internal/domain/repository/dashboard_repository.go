package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ReportRow fila agregada del reporte mensual o anual.
// Month es 0 cuando la agrupación es por año.
type ReportRow struct {
	Year     int
	Month    int
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	Profit   decimal.Decimal
}

// PurchaseStats estadísticas de compras de un mes.
type PurchaseStats struct {
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	TotalOrders     int
	CompletedOrders int
	PendingOrders   int
	PaymentPaid     int
	PaymentPartial  int
	PaymentPending  int
	TopSuppliers    []SupplierStat
}

// SupplierStat acumulado por proveedor (top N del mes).
type SupplierStat struct {
	Name        string
	TotalAmount decimal.Decimal
	OrdersCount int
}

// SalesStats estadísticas de ventas de un mes.
type SalesStats struct {
	TotalAmount decimal.Decimal
	TotalOrders int
}

// DashboardRepository puerto del agregado financiero mensual.
// ApplyDelta es el único punto de escritura: todos los componentes que mutan
// el ledger pasan por aquí, con incrementos relativos atómicos (nunca
// sobreescritura ciega de un valor leído antes).
type DashboardRepository interface {
	// GetOrCreate crea la fila (year, month) con ceros si no existe (idempotente).
	GetOrCreate(ctx context.Context, year, month int) (*entity.Dashboard, error)
	// ApplyDelta suma los deltas y recalcula profit = total - subtotal en una
	// sola sentencia atómica; crea la fila si no existe.
	ApplyDelta(ctx context.Context, year, month int, subtotalDelta, totalDelta decimal.Decimal) error
	// Get devuelve la fila del mes o nil si no existe.
	Get(ctx context.Context, year, month int) (*entity.Dashboard, error)
	MonthlyReport(ctx context.Context) ([]ReportRow, error)
	YearlyReport(ctx context.Context) ([]ReportRow, error)
	PurchaseStats(ctx context.Context, year, month int) (*PurchaseStats, error)
	SalesStats(ctx context.Context, year, month int) (*SalesStats, error)
}
