// Package analytics contiene los casos de uso de consulta del dashboard
// financiero mensual y sus reportes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReportPDFGenerator genera la versión imprimible del resumen mensual.
type ReportPDFGenerator interface {
	GenerateMonthlyReportPDF(ctx context.Context, overview *dto.MonthlyOverviewResponse, monthLabel string) ([]byte, error)
}

// DashboardUseCase expone el agregado financiero mensual: resumen del mes,
// reportes histórico mensual y anual, y exportación a PDF.
//
// Solo lee; las escrituras del dashboard viven en las transacciones de
// compras, ventas y catálogo.
type DashboardUseCase struct {
	dashboard repository.DashboardRepository
	pdf       ReportPDFGenerator
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboard repository.DashboardRepository, pdf ReportPDFGenerator) *DashboardUseCase {
	return &DashboardUseCase{dashboard: dashboard, pdf: pdf}
}

// CurrentMonth devuelve el resumen del mes en curso.
func (uc *DashboardUseCase) CurrentMonth(ctx context.Context) (*dto.MonthlyOverviewResponse, error) {
	now := time.Now()
	return uc.Monthly(ctx, now.Year(), int(now.Month()))
}

// Monthly devuelve el resumen de un mes: la fila del dashboard (creada con
// ceros si es la primera consulta del mes) más las estadísticas de compras y
// ventas.
//
// Dos consultas en paralelo:
//  1. PurchaseStats(año, mes) → montos y conteos de órdenes de compra
//  2. SalesStats(año, mes)    → ingreso y conteo de ventas
func (uc *DashboardUseCase) Monthly(ctx context.Context, year, month int) (*dto.MonthlyOverviewResponse, error) {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}

	row, err := uc.dashboard.GetOrCreate(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("dashboard: fila del mes: %w", err)
	}

	type purchasesResult struct {
		stats *repository.PurchaseStats
		err   error
	}
	type salesResult struct {
		stats *repository.SalesStats
		err   error
	}

	purchasesCh := make(chan purchasesResult, 1)
	salesCh := make(chan salesResult, 1)

	go func() {
		stats, err := uc.dashboard.PurchaseStats(ctx, year, month)
		purchasesCh <- purchasesResult{stats, err}
	}()
	go func() {
		stats, err := uc.dashboard.SalesStats(ctx, year, month)
		salesCh <- salesResult{stats, err}
	}()

	purchases := <-purchasesCh
	salesStats := <-salesCh

	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas de compras: %w", purchases.err)
	}
	if salesStats.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas de ventas: %w", salesStats.err)
	}

	overview := &dto.MonthlyOverviewResponse{
		Dashboard: dto.DashboardResponse{
			Year:     row.Year,
			Month:    row.Month,
			Subtotal: row.Subtotal,
			Total:    row.Total,
			Profit:   row.Profit,
		},
		Purchases: dto.PurchaseStatsResponse{
			TotalAmount:     purchases.stats.TotalAmount,
			PaidAmount:      purchases.stats.PaidAmount,
			RemainingAmount: purchases.stats.RemainingAmount,
			TotalOrders:     purchases.stats.TotalOrders,
			CompletedOrders: purchases.stats.CompletedOrders,
			PendingOrders:   purchases.stats.PendingOrders,
			PaymentPaid:     purchases.stats.PaymentPaid,
			PaymentPartial:  purchases.stats.PaymentPartial,
			PaymentPending:  purchases.stats.PaymentPending,
		},
		Sales: dto.SalesStatsResponse{
			TotalAmount: salesStats.stats.TotalAmount,
			TotalOrders: salesStats.stats.TotalOrders,
		},
	}
	for _, s := range purchases.stats.TopSuppliers {
		overview.Purchases.TopSuppliers = append(overview.Purchases.TopSuppliers, dto.SupplierStatResponse{
			Name:        s.Name,
			TotalAmount: s.TotalAmount,
			OrdersCount: s.OrdersCount,
		})
	}
	return overview, nil
}

// MonthlyReport devuelve el histórico mensual completo, más reciente primero.
func (uc *DashboardUseCase) MonthlyReport(ctx context.Context) ([]dto.ReportRowResponse, error) {
	rows, err := uc.dashboard.MonthlyReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: reporte mensual: %w", err)
	}
	return mapReportRows(rows), nil
}

// YearlyReport devuelve el histórico agregado por año, más reciente primero.
func (uc *DashboardUseCase) YearlyReport(ctx context.Context) ([]dto.ReportRowResponse, error) {
	rows, err := uc.dashboard.YearlyReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: reporte anual: %w", err)
	}
	return mapReportRows(rows), nil
}

// ExportMonthlyPDF genera el PDF del resumen mensual.
func (uc *DashboardUseCase) ExportMonthlyPDF(ctx context.Context, year, month int) ([]byte, error) {
	overview, err := uc.Monthly(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateMonthlyReportPDF(ctx, overview, monthLabel(year, month))
}

func mapReportRows(rows []repository.ReportRow) []dto.ReportRowResponse {
	result := make([]dto.ReportRowResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.ReportRowResponse{
			Year:     r.Year,
			Month:    r.Month,
			Subtotal: r.Subtotal,
			Total:    r.Total,
			Profit:   r.Profit,
		})
	}
	return result
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(year, month int) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[month-1], year)
}
