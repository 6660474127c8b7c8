package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Barcode vacío -> se genera uno único (NETREF####). Stock es el inventario inicial.
type CreateProductRequest struct {
	StoreID   string          `json:"store_id" validate:"required"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Category  string          `json:"category" validate:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     int64           `json:"stock" validate:"min=0"`
	ImageURL  string          `json:"image_url"`
	Barcode   string          `json:"barcode"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Stock no es editable aquí: solo cambia vía movimientos de inventario.
type UpdateProductRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category  *string          `json:"category"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	ImageURL  *string          `json:"image_url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Stock     int64           `json:"stock"`
	ImageURL  string          `json:"image_url"`
	Barcode   string          `json:"barcode"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BulkImportRequest filas ya parseadas de una importación masiva (hoja de cálculo).
type BulkImportRequest struct {
	Lines []CreateProductRequest `json:"lines"`
}

// BulkImportResultLine resultado por fila de una importación masiva.
type BulkImportResultLine struct {
	Index   int              `json:"index"`
	Product *ProductResponse `json:"product,omitempty"`
	Error   *ErrorResponse   `json:"error,omitempty"`
}

// BulkImportResponse resultado completo de una importación masiva.
type BulkImportResponse struct {
	Created int                    `json:"created"`
	Failed  int                    `json:"failed"`
	Lines   []BulkImportResultLine `json:"lines"`
}
