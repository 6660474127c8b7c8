package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netxel/inventario-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// movementWhere: construcción del WHERE del listado
// ──────────────────────────────────────────────────────────────────────────────

// Sin filtros, la única condición es la tienda.
func TestMovementWhere_SoloTienda(t *testing.T) {
	conds, args := movementWhere("store-1", repository.MovementFilter{})
	assert.Equal(t, []string{"m.store_id = $1"}, conds)
	assert.Equal(t, []any{"store-1"}, args)
}

// Cada filtro agrega su condición con el placeholder posicional correcto y el
// argumento en la misma posición.
func TestMovementWhere_TodosLosFiltros(t *testing.T) {
	desde := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 0, 7)
	pendiente := true
	conEmpaque := false

	conds, args := movementWhere("store-1", repository.MovementFilter{
		Type:           "entrada",
		From:           &desde,
		To:             &hasta,
		ProductID:      "product-1",
		CarrierID:      "carrier-1",
		IsPending:      &pendiente,
		HasPackingList: &conEmpaque,
	})

	assert.Equal(t, []string{
		"m.store_id = $1",
		"m.type = $2",
		"m.created_at >= $3",
		"m.created_at <= $4",
		"m.product_id = $5",
		"m.carrier_id = $6",
		"m.is_pending = $7",
		"m.has_packing_list = $8",
	}, conds)
	assert.Equal(t, []any{"store-1", "entrada", desde, hasta, "product-1", "carrier-1", true, false}, args)
}

// Los filtros ausentes no dejan huecos en la numeración de placeholders.
func TestMovementWhere_FiltroParcial(t *testing.T) {
	pendiente := false
	conds, args := movementWhere("store-1", repository.MovementFilter{
		ProductID: "product-1",
		IsPending: &pendiente,
	})

	require.Len(t, conds, 3)
	assert.Equal(t, "m.product_id = $2", conds[1])
	assert.Equal(t, "m.is_pending = $3", conds[2])
	assert.Equal(t, []any{"store-1", "product-1", false}, args)
}
