package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MediaPayload imagen adjunta a la creación/edición de producto.
// Se sube al media store antes de abrir la transacción.
type MediaPayload struct {
	Data     []byte
	Filename string
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`    // costo de compra
	PayPrice    decimal.Decimal `json:"payprice"` // precio de venta
	Quantity    int64           `json:"quantity"`
	CategoryID  string          `json:"category_id"`
	Active      *bool           `json:"active"`
	Image       *MediaPayload   `json:"-"`
}

// UpdateProductRequest entrada para actualizar un producto (subset de campos).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	PayPrice    *decimal.Decimal `json:"payprice"`
	Quantity    *int64           `json:"quantity"`
	CategoryID  *string          `json:"category_id"`
	Active      *bool            `json:"active"`
	Image       *MediaPayload    `json:"-"`
}

// AdjustQuantityRequest entrada del ajuste manual de stock.
// Mode: "admin_management" suma costo al subtotal; "sales" suma ingreso al total.
type AdjustQuantityRequest struct {
	Delta int64  `json:"delta"`
	Mode  string `json:"mode"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	PayPrice     decimal.Decimal `json:"payprice"`
	Quantity     int64           `json:"quantity"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Active       bool            `json:"active"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BulkProductRow fila de importación masiva.
type BulkProductRow struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      int64           `json:"quantity"`
	Active        *bool           `json:"active"`
}

// BulkImportRequest entrada de importación masiva de productos.
type BulkImportRequest struct {
	Products []BulkProductRow `json:"products"`
}

// BulkImportRowError error de una fila concreta de la importación.
type BulkImportRowError struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BulkImportResult resumen de la importación masiva.
type BulkImportResult struct {
	Created      []ProductResponse    `json:"created_products"`
	Errors       []BulkImportRowError `json:"errors"`
	TotalCreated int                  `json:"total_created"`
	TotalErrors  int                  `json:"total_errors"`
}
