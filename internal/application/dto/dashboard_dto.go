package dto

import "github.com/shopspring/decimal"

// DashboardResponse agregado financiero de un mes.
type DashboardResponse struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
}

// ReportRowResponse fila de reporte mensual o anual. Month se omite cuando la
// agrupación es por año.
type ReportRowResponse struct {
	Year     int             `json:"year"`
	Month    int             `json:"month,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
}

// SupplierStatResponse acumulado por proveedor en el mes.
type SupplierStatResponse struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrdersCount int             `json:"orders_count"`
}

// PurchaseStatsResponse estadísticas de compras del mes.
type PurchaseStatsResponse struct {
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	RemainingAmount decimal.Decimal        `json:"remaining_amount"`
	TotalOrders     int                    `json:"total_orders"`
	CompletedOrders int                    `json:"completed_orders"`
	PendingOrders   int                    `json:"pending_orders"`
	PaymentPaid     int                    `json:"payment_paid"`
	PaymentPartial  int                    `json:"payment_partial"`
	PaymentPending  int                    `json:"payment_pending"`
	TopSuppliers    []SupplierStatResponse `json:"top_suppliers"`
}

// SalesStatsResponse estadísticas de ventas del mes.
type SalesStatsResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalOrders int             `json:"total_orders"`
}

// MonthlyOverviewResponse vista completa del mes: agregado + estadísticas.
type MonthlyOverviewResponse struct {
	Dashboard DashboardResponse     `json:"dashboard"`
	Purchases PurchaseStatsResponse `json:"purchases"`
	Sales     SalesStatsResponse    `json:"sales"`
}
