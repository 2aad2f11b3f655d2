package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/domain"
)

func TestMonthly_CreaLaFilaEnCerosLaPrimeraVez(t *testing.T) {
	dash := apptest.NewFakeDashboard()
	uc := analytics.NewDashboardUseCase(dash, nil)

	overview, err := uc.Monthly(context.Background(), 2026, 8)
	require.NoError(t, err)

	assert.Equal(t, 2026, overview.Dashboard.Year)
	assert.Equal(t, 8, overview.Dashboard.Month)
	assert.True(t, overview.Dashboard.Subtotal.IsZero())
	assert.True(t, overview.Dashboard.Total.IsZero())
	assert.True(t, overview.Dashboard.Profit.IsZero())

	// Consultar es idempotente: la fila existe y sigue en ceros.
	again, err := uc.Monthly(context.Background(), 2026, 8)
	require.NoError(t, err)
	assert.True(t, again.Dashboard.Profit.IsZero())
}

func TestMonthly_ReflejaDeltasAcumulados(t *testing.T) {
	dash := apptest.NewFakeDashboard()
	uc := analytics.NewDashboardUseCase(dash, nil)

	// Una compra de 100 y una venta de 150 en el mismo mes.
	require.NoError(t, dash.ApplyDelta(context.Background(), 2026, 8, decimal.NewFromInt(100), decimal.Zero))
	require.NoError(t, dash.ApplyDelta(context.Background(), 2026, 8, decimal.Zero, decimal.NewFromInt(150)))

	overview, err := uc.Monthly(context.Background(), 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, "100", overview.Dashboard.Subtotal.String())
	assert.Equal(t, "150", overview.Dashboard.Total.String())
	assert.Equal(t, "50", overview.Dashboard.Profit.String(), "profit = total - subtotal")
}

func TestMonthly_ValidaAnioYMes(t *testing.T) {
	uc := analytics.NewDashboardUseCase(apptest.NewFakeDashboard(), nil)

	_, err := uc.Monthly(context.Background(), 2026, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Monthly(context.Background(), 2026, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Monthly(context.Background(), 26, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrentMonth_UsaLaFechaActual(t *testing.T) {
	uc := analytics.NewDashboardUseCase(apptest.NewFakeDashboard(), nil)

	overview, err := uc.CurrentMonth(context.Background())
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), overview.Dashboard.Year)
	assert.Equal(t, int(now.Month()), overview.Dashboard.Month)
}

func TestReportes_OrdenYAgregacion(t *testing.T) {
	dash := apptest.NewFakeDashboard()
	uc := analytics.NewDashboardUseCase(dash, nil)

	require.NoError(t, dash.ApplyDelta(context.Background(), 2025, 11, decimal.NewFromInt(10), decimal.NewFromInt(30)))
	require.NoError(t, dash.ApplyDelta(context.Background(), 2026, 1, decimal.NewFromInt(20), decimal.NewFromInt(50)))
	require.NoError(t, dash.ApplyDelta(context.Background(), 2026, 3, decimal.NewFromInt(5), decimal.NewFromInt(15)))

	monthly, err := uc.MonthlyReport(context.Background())
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, 2026, monthly[0].Year, "más reciente primero")
	assert.Equal(t, 3, monthly[0].Month)

	yearly, err := uc.YearlyReport(context.Background())
	require.NoError(t, err)
	require.Len(t, yearly, 2)
	assert.Equal(t, 2026, yearly[0].Year)
	assert.Equal(t, "25", yearly[0].Subtotal.String(), "suma de los meses del año")
	assert.Equal(t, "65", yearly[0].Total.String())
}
