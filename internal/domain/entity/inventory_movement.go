package entity

import (
	"encoding/json"
	"time"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada    = "entrada"    // reposición / recepción
	MovementTypeSalida     = "salida"     // envío / venta
	MovementTypeDevolucion = "devolucion" // devolución: reingresa al inventario
)

// IsValidMovementType indica si el tipo es uno de los tres enumerados.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida || t == MovementTypeDevolucion
}

// InventoryMovement es una entrada del libro de movimientos (append-only).
// Quantity/Type y los snapshots de stock son inmutables una vez creado;
// solo el estado de envío (guía, transportadora, pendiente, notas) se puede
// parchear después.
type InventoryMovement struct {
	ID              string
	ProductID       string
	StoreID         string
	UserID          string
	Type            string
	Quantity        int64 // siempre positiva; el signo lo da el tipo
	Notes           string
	ReferenceNumber string
	PreviousStock   int64
	NewStock        int64
	Source          string
	DeviceInfo      json.RawMessage

	// Metadatos de envío (relevantes solo para salidas).
	TrackingNumber *string
	CarrierID      *string
	IsPending      bool
	IsSingleUnit   bool
	IsLocal        bool
	HasPackingList bool

	// Clave de idempotencia opcional provista por el cliente (única por tienda).
	IdempotencyKey *string

	CreatedAt time.Time
}

// MovementWithNames es una entrada del libro con los nombres actuales de
// producto y transportadora resueltos para listados.
type MovementWithNames struct {
	InventoryMovement
	ProductName string  // "Producto eliminado" si el producto ya no existe
	CarrierName *string // nil si no hay transportadora
}
