package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. completed y cancelled son terminales;
// una orden completed no admite edición ni borrado.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusConfirmed = "confirmed"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
)

// Estados de pago, derivados de paid_amount/remaining_amount.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// InternalSupplier es el proveedor de las órdenes sintetizadas al recibir
// stock vía creación/edición de producto.
const InternalSupplier = "Internal Supplier"

// PurchaseOrder representa una orden de compra (entrada de stock).
// TotalAmount siempre es la suma de los total_amount de sus ítems;
// RemainingAmount = TotalAmount - PaidAmount. Recalcular con RecalcTotals /
// RecalcPayment tras cada mutación de ítems o de paid_amount.
type PurchaseOrder struct {
	ID              string
	PurchaseNumber  string // PO + yyyymmdd + secuencia de 4 dígitos
	SupplierName    string
	SupplierPhone   string
	SupplierAddress string
	PurchaseDate    time.Time
	DueDate         *time.Time
	Status          string
	PaymentStatus   string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanModify indica si la orden admite edición o borrado.
func (o *PurchaseOrder) CanModify() bool {
	return o.Status != PurchaseStatusCompleted
}

// CanTransition valida el grafo de estados:
// draft → confirmed → completed; cancelled desde draft o confirmed.
func (o *PurchaseOrder) CanTransition(next string) bool {
	if next == o.Status {
		return true
	}
	switch o.Status {
	case PurchaseStatusDraft:
		return next == PurchaseStatusConfirmed || next == PurchaseStatusCancelled
	case PurchaseStatusConfirmed:
		return next == PurchaseStatusCompleted || next == PurchaseStatusCancelled
	default:
		return false
	}
}

// RecalcPayment recalcula remaining_amount y deriva payment_status.
func (o *PurchaseOrder) RecalcPayment() {
	o.RemainingAmount = o.TotalAmount.Sub(o.PaidAmount)
	switch {
	case o.RemainingAmount.LessThanOrEqual(decimal.Zero):
		o.PaymentStatus = PaymentStatusPaid
	case o.PaidAmount.GreaterThan(decimal.Zero):
		o.PaymentStatus = PaymentStatusPartial
	default:
		o.PaymentStatus = PaymentStatusPending
	}
}

// RecalcTotals fija total_amount como la suma de los ítems y recalcula el pago.
// Es la operación explícita de "recomputar total" que los casos de uso invocan
// tras crear, editar o borrar ítems.
func (o *PurchaseOrder) RecalcTotals(items []*PurchaseOrderItem) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalAmount)
	}
	o.TotalAmount = total
	o.RecalcPayment()
}

// PurchaseOrderItem representa una línea de una orden de compra.
// ProductName/ProductDescription son snapshots al momento de la compra, para
// conservar el histórico aunque el producto cambie después.
type PurchaseOrderItem struct {
	ID                 string
	PurchaseOrderID    string
	ProductID          string
	ProductName        string
	ProductDescription string
	PurchasePrice      decimal.Decimal
	SellingPrice       decimal.Decimal
	Quantity           int64
	Unit               string
	TotalAmount        decimal.Decimal
	Notes              string
}

// RecalcTotal recalcula total_amount = purchase_price × quantity.
// Siempre se invoca antes de persistir el ítem.
func (i *PurchaseOrderItem) RecalcTotal() {
	i.TotalAmount = i.PurchasePrice.Mul(decimal.NewFromInt(i.Quantity))
}
