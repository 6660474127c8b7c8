package repository

import (
	"time"

	"github.com/netxel/inventario-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos de una tienda.
// Los punteros nil significan "sin filtro".
type MovementFilter struct {
	Type           string
	From           *time.Time
	To             *time.Time
	ProductID      string
	CarrierID      string
	IsPending      *bool
	HasPackingList *bool
}

// MovementStatusPatch campos parchables de un movimiento ya creado.
// Cantidad, tipo y snapshots de stock nunca se tocan.
type MovementStatusPatch struct {
	TrackingNumber *string
	CarrierID      *string
	IsPending      *bool
	Notes          *string
}

// MovementStatRow fila mínima para estadísticas de movimientos.
type MovementStatRow struct {
	Type      string
	Quantity  int64
	CreatedAt time.Time
}

// InventoryMovementRepository define el puerto de persistencia del libro de movimientos.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	GetByIdempotencyKey(storeID, key string) (*entity.InventoryMovement, error)
	// List devuelve la página y el total filtrado; orden created_at DESC.
	List(storeID string, f MovementFilter, limit, offset int) ([]*entity.MovementWithNames, int, error)
	UpdateStatus(id string, patch MovementStatusPatch) (*entity.InventoryMovement, error)
	ListSince(storeID string, since time.Time) ([]*MovementStatRow, error)
}
