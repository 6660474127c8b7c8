package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (entrada, salida, devolución) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// El stock del producto y la entrada del libro se escriben en la misma transacción:
// un rechazo nunca deja entrada en el libro ni stock modificado.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	storeRepo    repository.StoreRepository
	movementRepo repository.InventoryMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	storeRepo repository.StoreRepository,
	movementRepo repository.InventoryMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		storeRepo:    storeRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
// Quantity siempre positiva; el signo lo determina Type.
type MovementInput struct {
	StoreID         string
	UserID          string
	ProductID       string
	Type            string
	Quantity        int64
	Notes           string
	ReferenceNumber string
	Source          string
	TrackingNumber  *string
	CarrierID       *string
	IsPending       bool
	IsSingleUnit    bool
	IsLocal         bool
	HasPackingList  bool
	DeviceInfo      json.RawMessage
	IdempotencyKey  *string
}

// deltaFor devuelve el cambio de stock según el tipo:
// entrada +q, salida -q, devolución +q (las devoluciones reingresan al inventario).
func deltaFor(movementType string, quantity int64) int64 {
	if movementType == entity.MovementTypeSalida {
		return -quantity
	}
	return quantity
}

// validate aplica las precondiciones antes de tocar la BD.
func validate(input MovementInput) error {
	if input.ProductID == "" || input.StoreID == "" || input.UserID == "" {
		return domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(input.Type) {
		return domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeSalida {
		hasTracking := input.TrackingNumber != nil && strings.TrimSpace(*input.TrackingNumber) != ""
		// Envío no local y no pendiente exige número de guía. Regla de dominio:
		// se verifica aquí, en el punto de persistencia, no solo en el formulario.
		if !input.IsLocal && !input.IsPending && !hasTracking {
			return domain.ErrTrackingRequired
		}
		// Transportadora seleccionada también exige guía (salvo pendiente o local).
		if input.CarrierID != nil && *input.CarrierID != "" && !hasTracking && !input.IsPending && !input.IsLocal {
			return domain.ErrTrackingRequired
		}
	}
	return nil
}

// RegisterMovement valida, verifica propiedad de la tienda y aplica el movimiento
// en una transacción: bloquea la fila del producto, calcula el nuevo stock, rechaza
// si quedaría negativo, actualiza el stock y agrega la entrada al libro con los
// snapshots previous/new. Con clave de idempotencia repetida devuelve el movimiento
// ya registrado sin volver a aplicar nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.InventoryMovement, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	store, err := uc.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if store.UserID != input.UserID {
		return nil, domain.ErrForbidden
	}

	delta := deltaFor(input.Type, input.Quantity)
	now := time.Now()

	var entry *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar lost updates
		// entre movimientos concurrentes del mismo producto.
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.StoreID != input.StoreID {
			return domain.ErrForbidden
		}

		newStock := product.Stock + delta
		if newStock < 0 {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}

		entry = &entity.InventoryMovement{
			ID:              uuid.New().String(),
			ProductID:       input.ProductID,
			StoreID:         input.StoreID,
			UserID:          input.UserID,
			Type:            input.Type,
			Quantity:        input.Quantity,
			Notes:           input.Notes,
			ReferenceNumber: input.ReferenceNumber,
			Source:          input.Source,
			PreviousStock:   product.Stock,
			NewStock:        newStock,
			DeviceInfo:      input.DeviceInfo,
			TrackingNumber:  input.TrackingNumber,
			CarrierID:       input.CarrierID,
			IsPending:       input.IsPending,
			IsSingleUnit:    input.IsSingleUnit,
			IsLocal:         input.IsLocal,
			HasPackingList:  input.HasPackingList,
			IdempotencyKey:  input.IdempotencyKey,
			CreatedAt:       now,
		}
		return movRepo.Create(entry)
	})
	if err != nil {
		// Clave de idempotencia repetida: el insert violó el índice único, la tx
		// hizo rollback (stock intacto) y se devuelve el movimiento original.
		if errors.Is(err, domain.ErrDuplicate) && input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
			existing, lookupErr := uc.movementRepo.GetByIdempotencyKey(input.StoreID, *input.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return entry, nil
}

// BatchLine resultado de una línea del carrito.
type BatchLine struct {
	Index    int
	Movement *entity.InventoryMovement
	Err      error
}

// RegisterBatch aplica un carrito de movimientos en orden, cada línea en su propia
// transacción. Las líneas son independientes: una línea fallida no revierte las
// anteriores ni bloquea las siguientes; el resultado reporta línea por línea.
func (uc *RegisterMovementUseCase) RegisterBatch(ctx context.Context, inputs []MovementInput) []BatchLine {
	results := make([]BatchLine, 0, len(inputs))
	for i, input := range inputs {
		mov, err := uc.RegisterMovement(ctx, input)
		results = append(results, BatchLine{Index: i, Movement: mov, Err: err})
	}
	return results
}
