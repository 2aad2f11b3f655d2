package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden de compra.
// Los ítems sin product_id válido o con cantidad/precio fuera de rango se
// rechazan con 422.
type PurchaseOrderItemRequest struct {
	ProductID     string          `json:"product_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      int64           `json:"quantity"`
	Unit          string          `json:"unit"`
	Notes         string          `json:"notes"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierName    string                     `json:"supplier_name"`
	SupplierPhone   string                     `json:"supplier_phone"`
	SupplierAddress string                     `json:"supplier_address"`
	PurchaseDate    time.Time                  `json:"purchase_date"`
	DueDate         *time.Time                 `json:"due_date"`
	Status          string                     `json:"status"`
	PaidAmount      decimal.Decimal            `json:"paid_amount"`
	Notes           string                     `json:"notes"`
	Items           []PurchaseOrderItemRequest `json:"items"`
}

// UpdatePurchaseOrderRequest entrada para actualizar cabecera de una orden.
// Los ítems no se editan por esta vía; el total solo cambia vía ítems.
type UpdatePurchaseOrderRequest struct {
	SupplierName    *string          `json:"supplier_name"`
	SupplierPhone   *string          `json:"supplier_phone"`
	SupplierAddress *string          `json:"supplier_address"`
	DueDate         *time.Time       `json:"due_date"`
	Status          *string          `json:"status"`
	PaidAmount      *decimal.Decimal `json:"paid_amount"`
	Notes           *string          `json:"notes"`
}

// PurchaseOrderItemResponse salida de una línea de orden de compra.
type PurchaseOrderItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description,omitempty"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	Quantity           int64           `json:"quantity"`
	Unit               string          `json:"unit,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Notes              string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID              string                      `json:"id"`
	PurchaseNumber  string                      `json:"purchase_number"`
	SupplierName    string                      `json:"supplier_name"`
	SupplierPhone   string                      `json:"supplier_phone,omitempty"`
	SupplierAddress string                      `json:"supplier_address,omitempty"`
	PurchaseDate    time.Time                   `json:"purchase_date"`
	DueDate         *time.Time                  `json:"due_date,omitempty"`
	Status          string                      `json:"status"`
	PaymentStatus   string                      `json:"payment_status"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	PaidAmount      decimal.Decimal             `json:"paid_amount"`
	RemainingAmount decimal.Decimal             `json:"remaining_amount"`
	Notes           string                      `json:"notes,omitempty"`
	Items           []PurchaseOrderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// PurchaseOrderListRequest filtros del listado de órdenes de compra.
type PurchaseOrderListRequest struct {
	Keyword       string `query:"keyword"`
	Status        string `query:"status"`
	PaymentStatus string `query:"payment_status"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
