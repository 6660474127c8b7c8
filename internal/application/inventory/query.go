package inventory

import (
	"strings"
	"time"

	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
)

// MovementQueryUseCase lecturas sobre el libro de movimientos: listado filtrado
// y paginado, parche de estado de envío, estadísticas y catálogo de transportadoras.
// Sin caché: cada llamada consulta la BD.
type MovementQueryUseCase struct {
	movementRepo repository.InventoryMovementRepository
	storeRepo    repository.StoreRepository
	carrierRepo  repository.CarrierRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(
	movementRepo repository.InventoryMovementRepository,
	storeRepo repository.StoreRepository,
	carrierRepo repository.CarrierRepository,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{
		movementRepo: movementRepo,
		storeRepo:    storeRepo,
		carrierRepo:  carrierRepo,
	}
}

// ensureOwned verifica que la tienda exista y pertenezca al usuario.
func (uc *MovementQueryUseCase) ensureOwned(storeID, userID string) error {
	if storeID == "" || userID == "" {
		return domain.ErrInvalidInput
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.ErrNotFound
	}
	if store.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// List devuelve una página del libro (orden created_at DESC) junto con el total
// filtrado. Los nombres de producto y transportadora vienen resueltos; un
// producto eliminado aparece con el nombre centinela "Producto eliminado".
func (uc *MovementQueryUseCase) List(userID, storeID string, f repository.MovementFilter, limit, offset int) ([]*entity.MovementWithNames, int, error) {
	if err := uc.ensureOwned(storeID, userID); err != nil {
		return nil, 0, err
	}
	if f.Type != "" && !entity.IsValidMovementType(f.Type) {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.movementRepo.List(storeID, f, limit, offset)
}

// UpdateStatus parchea el estado de envío de un movimiento (guía, transportadora,
// pendiente, notas). Cantidad, tipo y snapshots son inmutables.
func (uc *MovementQueryUseCase) UpdateStatus(userID, movementID string, patch repository.MovementStatusPatch) (*entity.InventoryMovement, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureOwned(existing.StoreID, userID); err != nil {
		return nil, err
	}
	// El parche no puede dejar una salida no local despachada (is_pending=false)
	// sin número de guía: la misma regla que aplica el registro.
	if existing.Type == entity.MovementTypeSalida && !existing.IsLocal {
		isPending := existing.IsPending
		if patch.IsPending != nil {
			isPending = *patch.IsPending
		}
		tracking := existing.TrackingNumber
		if patch.TrackingNumber != nil {
			tracking = patch.TrackingNumber
		}
		hasTracking := tracking != nil && strings.TrimSpace(*tracking) != ""
		if !isPending && !hasTracking {
			return nil, domain.ErrTrackingRequired
		}
	}
	return uc.movementRepo.UpdateStatus(movementID, patch)
}

// StatsResult estadísticas agregadas de movimientos.
type StatsResult struct {
	TotalMovements int
	Entries        int
	Exits          int
	Returns        int
	TotalQuantity  int64
	ByDay          map[string]DayCount
}

// DayCount conteos por día (clave YYYY-MM-DD).
type DayCount struct {
	Entries int
	Exits   int
	Returns int
}

// Stats agrega los movimientos de los últimos N días de una tienda.
func (uc *MovementQueryUseCase) Stats(userID, storeID string, days int) (*StatsResult, error) {
	if err := uc.ensureOwned(storeID, userID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	rows, err := uc.movementRepo.ListSince(storeID, since)
	if err != nil {
		return nil, err
	}

	stats := &StatsResult{ByDay: make(map[string]DayCount)}
	for _, row := range rows {
		stats.TotalMovements++
		stats.TotalQuantity += row.Quantity
		day := row.CreatedAt.Format("2006-01-02")
		dc := stats.ByDay[day]
		switch row.Type {
		case entity.MovementTypeEntrada:
			stats.Entries++
			dc.Entries++
		case entity.MovementTypeSalida:
			stats.Exits++
			dc.Exits++
		case entity.MovementTypeDevolucion:
			stats.Returns++
			dc.Returns++
		}
		stats.ByDay[day] = dc
	}
	return stats, nil
}

// Carriers devuelve las transportadoras activas ordenadas por nombre.
func (uc *MovementQueryUseCase) Carriers() ([]*entity.Carrier, error) {
	return uc.carrierRepo.ListActive()
}

// GetMovement obtiene un movimiento verificando propiedad de su tienda.
func (uc *MovementQueryUseCase) GetMovement(userID, movementID string) (*entity.InventoryMovement, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	mov, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureOwned(mov.StoreID, userID); err != nil {
		return nil, err
	}
	return mov, nil
}
