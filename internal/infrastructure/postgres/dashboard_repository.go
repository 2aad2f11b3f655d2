package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo implementación del puerto DashboardRepository sobre PostgreSQL.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetOrCreate devuelve la fila del mes, creándola con ceros si no existe.
// El upsert con DO NOTHING + reselect la hace segura ante creación concurrente.
func (r *DashboardRepo) GetOrCreate(ctx context.Context, year, month int) (*entity.Dashboard, error) {
	_, err := r.q.Exec(ctx,
		`INSERT INTO dashboards (id, year, month, subtotal, total, profit, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, 0, 0, now(), now())
		 ON CONFLICT (year, month) DO NOTHING`,
		uuid.NewString(), year, month,
	)
	if err != nil {
		return nil, fmt.Errorf("create dashboard row: %w", err)
	}
	d, err := r.Get(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("dashboard row missing after upsert: %d-%d", year, month)
	}
	return d, nil
}

// ApplyDelta suma los deltas al mes y recalcula profit = total - subtotal en
// una sola sentencia. Los incrementos son relativos: dos escritores
// concurrentes del mismo mes no se pisan.
func (r *DashboardRepo) ApplyDelta(ctx context.Context, year, month int, subtotalDelta, totalDelta decimal.Decimal) error {
	query := `
		INSERT INTO dashboards (id, year, month, subtotal, total, profit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5 - $4, now(), now())
		ON CONFLICT (year, month) DO UPDATE SET
			subtotal   = dashboards.subtotal + EXCLUDED.subtotal,
			total      = dashboards.total + EXCLUDED.total,
			profit     = (dashboards.total + EXCLUDED.total) - (dashboards.subtotal + EXCLUDED.subtotal),
			updated_at = now()`
	_, err := r.q.Exec(ctx, query, uuid.NewString(), year, month, subtotalDelta, totalDelta)
	if err != nil {
		return fmt.Errorf("apply dashboard delta: %w", err)
	}
	return nil
}

// Get devuelve la fila del mes o nil si no existe.
func (r *DashboardRepo) Get(ctx context.Context, year, month int) (*entity.Dashboard, error) {
	var d entity.Dashboard
	err := r.q.QueryRow(ctx,
		`SELECT id, year, month, subtotal, total, profit, created_at, updated_at
		 FROM dashboards WHERE year = $1 AND month = $2`, year, month,
	).Scan(&d.ID, &d.Year, &d.Month, &d.Subtotal, &d.Total, &d.Profit, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return &d, nil
}

// MonthlyReport devuelve todas las filas mensuales, más reciente primero.
func (r *DashboardRepo) MonthlyReport(ctx context.Context) ([]repository.ReportRow, error) {
	return r.report(ctx, `
		SELECT year, month, subtotal, total, profit
		FROM dashboards ORDER BY year DESC, month DESC`)
}

// YearlyReport agrega las filas por año, más reciente primero.
func (r *DashboardRepo) YearlyReport(ctx context.Context) ([]repository.ReportRow, error) {
	return r.report(ctx, `
		SELECT year, 0 AS month, COALESCE(SUM(subtotal), 0), COALESCE(SUM(total), 0), COALESCE(SUM(profit), 0)
		FROM dashboards GROUP BY year ORDER BY year DESC`)
}

func (r *DashboardRepo) report(ctx context.Context, query string) ([]repository.ReportRow, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dashboard report: %w", err)
	}
	defer rows.Close()

	var report []repository.ReportRow
	for rows.Next() {
		var row repository.ReportRow
		if err := rows.Scan(&row.Year, &row.Month, &row.Subtotal, &row.Total, &row.Profit); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// PurchaseStats agrega las órdenes de compra del mes: montos, conteos por
// estado y de pago, y top 5 de proveedores por monto.
func (r *DashboardRepo) PurchaseStats(ctx context.Context, year, month int) (*repository.PurchaseStats, error) {
	var s repository.PurchaseStats
	query := `
		SELECT
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(remaining_amount), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status IN ('draft', 'confirmed')),
			COUNT(*) FILTER (WHERE payment_status = 'paid'),
			COUNT(*) FILTER (WHERE payment_status = 'partial'),
			COUNT(*) FILTER (WHERE payment_status = 'pending')
		FROM purchase_orders
		WHERE EXTRACT(YEAR FROM purchase_date) = $1 AND EXTRACT(MONTH FROM purchase_date) = $2`
	err := r.q.QueryRow(ctx, query, year, month).Scan(
		&s.TotalAmount, &s.PaidAmount, &s.RemainingAmount,
		&s.TotalOrders, &s.CompletedOrders, &s.PendingOrders,
		&s.PaymentPaid, &s.PaymentPartial, &s.PaymentPending,
	)
	if err != nil {
		return nil, fmt.Errorf("purchase stats: %w", err)
	}

	topQuery := `
		SELECT supplier_name, COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM purchase_orders
		WHERE EXTRACT(YEAR FROM purchase_date) = $1 AND EXTRACT(MONTH FROM purchase_date) = $2
		GROUP BY supplier_name ORDER BY SUM(total_amount) DESC LIMIT 5`
	rows, err := r.q.Query(ctx, topQuery, year, month)
	if err != nil {
		return nil, fmt.Errorf("top suppliers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t repository.SupplierStat
		if err := rows.Scan(&t.Name, &t.TotalAmount, &t.OrdersCount); err != nil {
			return nil, fmt.Errorf("scan supplier stat: %w", err)
		}
		s.TopSuppliers = append(s.TopSuppliers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SalesStats agrega las ventas del mes.
func (r *DashboardRepo) SalesStats(ctx context.Context, year, month int) (*repository.SalesStats, error) {
	var s repository.SalesStats
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE EXTRACT(YEAR FROM created_at) = $1 AND EXTRACT(MONTH FROM created_at) = $2`
	if err := r.q.QueryRow(ctx, query, year, month).Scan(&s.TotalAmount, &s.TotalOrders); err != nil {
		return nil, fmt.Errorf("sales stats: %w", err)
	}
	return &s, nil
}
