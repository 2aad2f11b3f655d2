// Package pdf implementa la versión imprimible del resumen financiero mensual.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Resumen mensual + etiqueta del mes                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LEDGER: Subtotal (costos) / Total (ingresos) / Ganancia     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRAS: montos, conteos por estado y de pago               │
//	│  TABLA: top proveedores del mes                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENTAS: ingreso y número de ventas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ analytics.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMonthlyReportPDF genera el PDF del resumen mensual y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMonthlyReportPDF(
	_ context.Context,
	overview *dto.MonthlyOverviewResponse,
	monthLabel string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen financiero mensual", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(monthLabel))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(ledgerRow(overview.Dashboard))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("COMPRAS DEL MES"))
	m.AddRows(purchasesRows(overview.Purchases)...)
	if len(overview.Purchases.TopSuppliers) > 0 {
		m.AddRows(suppliersHeaderRow())
		for _, r := range supplierRows(overview.Purchases.TopSuppliers) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitleRow("VENTAS DEL MES"))
	m.AddRows(salesRow(overview.Sales))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(monthLabel string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("RESUMEN FINANCIERO MENSUAL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(monthLabel, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3,
			}),
		),
	)
}

// ledgerRow: los tres acumulados del mes en columnas.
func ledgerRow(d dto.DashboardResponse) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 7, Color: colorPrimary,
			}),
		)
	}
	return row.New(16).Add(
		metric("Costos de compra (subtotal)", "$"+formatMoney(d.Subtotal.StringFixed(0))),
		metric("Ingresos de venta (total)", "$"+formatMoney(d.Total.StringFixed(0))),
		metric("Ganancia", "$"+formatMoney(d.Profit.StringFixed(0))),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func purchasesRows(p dto.PurchaseStatsResponse) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Monto total: $%s   |   Pagado: $%s   |   Pendiente: $%s",
				formatMoney(p.TotalAmount.StringFixed(0)),
				formatMoney(p.PaidAmount.StringFixed(0)),
				formatMoney(p.RemainingAmount.StringFixed(0)),
			), props.Text{Size: 8, Top: 1}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Órdenes: %d (completadas %d, en curso %d)   |   Pago: %d pagadas, %d parciales, %d pendientes",
				p.TotalOrders, p.CompletedOrders, p.PendingOrders,
				p.PaymentPaid, p.PaymentPartial, p.PaymentPending,
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

func suppliersHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Proveedor", 6, align.Left),
		h("Órdenes", 2, align.Center),
		h("Monto", 4, align.Right),
	)
}

func supplierRows(suppliers []dto.SupplierStatResponse) []core.Row {
	result := make([]core.Row, 0, len(suppliers))
	for _, s := range suppliers {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(s.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", s.OrdersCount), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(4).Add(text.New("$"+formatMoney(s.TotalAmount.StringFixed(0)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func salesRow(s dto.SalesStatsResponse) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Ingreso: $%s   |   Ventas registradas: %d",
			formatMoney(s.TotalAmount.StringFixed(0)), s.TotalOrders,
		), props.Text{Size: 8, Top: 1}),
	))
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(s) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}
