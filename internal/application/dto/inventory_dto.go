package dto

import (
	"encoding/json"
	"time"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID       string          `json:"product_id"`
	StoreID         string          `json:"store_id"`
	Type            string          `json:"type"` // entrada | salida | devolucion
	Quantity        int64           `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Source          string          `json:"source,omitempty"` // web | scanner | import
	TrackingNumber  *string         `json:"tracking_number,omitempty"`
	CarrierID       *string         `json:"carrier_id,omitempty"`
	IsPending       bool            `json:"is_pending,omitempty"`
	IsSingleUnit    bool            `json:"is_single_unit,omitempty"`
	IsLocal         bool            `json:"is_local,omitempty"`
	HasPackingList  bool            `json:"has_packing_list,omitempty"`
	DeviceInfo      json.RawMessage `json:"device_info,omitempty"`
	IdempotencyKey  *string         `json:"idempotency_key,omitempty"`
}

// RegisterBatchRequest carrito de movimientos; se aplican en orden, cada línea
// en su propia transacción.
type RegisterBatchRequest struct {
	Lines []RegisterMovementRequest `json:"lines"`
}

// MovementResponse salida de un movimiento registrado.
type MovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	StoreID         string    `json:"store_id"`
	UserID          string    `json:"user_id"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	Notes           string    `json:"notes,omitempty"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Source          string    `json:"source,omitempty"`
	PreviousStock   int64     `json:"previous_stock"`
	NewStock        int64     `json:"new_stock"`
	TrackingNumber  *string   `json:"tracking_number,omitempty"`
	CarrierID       *string   `json:"carrier_id,omitempty"`
	IsPending       bool      `json:"is_pending"`
	IsSingleUnit    bool      `json:"is_single_unit"`
	IsLocal         bool      `json:"is_local"`
	HasPackingList  bool      `json:"has_packing_list"`
	CreatedAt       time.Time `json:"created_at"`
}

// MovementWithNamesResponse movimiento con nombres resueltos para listados.
type MovementWithNamesResponse struct {
	MovementResponse
	ProductName string  `json:"product_name"`
	CarrierName *string `json:"carrier_name"`
}

// MovementListResponse página del libro de movimientos.
type MovementListResponse struct {
	Items []MovementWithNamesResponse `json:"items"`
	Page  PageResponse                `json:"page"`
}

// BatchResultLine resultado por línea del carrito: o movimiento confirmado o error.
type BatchResultLine struct {
	Index    int               `json:"index"`
	Movement *MovementResponse `json:"movement,omitempty"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}

// BatchResponse resultado completo del carrito (fallo parcial estructurado).
type BatchResponse struct {
	Committed int               `json:"committed"`
	Failed    int               `json:"failed"`
	Lines     []BatchResultLine `json:"lines"`
}

// UpdateMovementStatusRequest parche del estado de envío de un movimiento.
type UpdateMovementStatusRequest struct {
	TrackingNumber *string `json:"tracking_number,omitempty"`
	CarrierID      *string `json:"carrier_id,omitempty"`
	IsPending      *bool   `json:"is_pending,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// DayStats conteos de movimientos de un día.
type DayStats struct {
	Entries int `json:"entries"`
	Exits   int `json:"exits"`
	Returns int `json:"returns"`
}

// MovementStatsResponse estadísticas de movimientos de los últimos N días.
type MovementStatsResponse struct {
	TotalMovements int                 `json:"total_movements"`
	Entries        int                 `json:"entries"`
	Exits          int                 `json:"exits"`
	Returns        int                 `json:"returns"`
	TotalQuantity  int64               `json:"total_quantity"`
	ByDay          map[string]DayStats `json:"by_day"`
}

// CarrierResponse transportadora activa para el selector de envíos.
type CarrierResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
