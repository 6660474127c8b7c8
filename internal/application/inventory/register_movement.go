package inventory

import (
	"context"

	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
// Usar desde handlers HTTP que ya tengan userID del token y dto.RegisterMovementRequest.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*entity.InventoryMovement, error) {
	return uc.RegisterMovement(ctx, movementInputFromDTO(userID, in))
}

// RegisterBatchFromRequest adapta un carrito HTTP al caso de uso RegisterBatch.
func (uc *RegisterMovementUseCase) RegisterBatchFromRequest(ctx context.Context, userID string, in dto.RegisterBatchRequest) []BatchLine {
	inputs := make([]MovementInput, 0, len(in.Lines))
	for _, line := range in.Lines {
		inputs = append(inputs, movementInputFromDTO(userID, line))
	}
	return uc.RegisterBatch(ctx, inputs)
}

func movementInputFromDTO(userID string, in dto.RegisterMovementRequest) MovementInput {
	return MovementInput{
		StoreID:         in.StoreID,
		UserID:          userID,
		ProductID:       in.ProductID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
		ReferenceNumber: in.ReferenceNumber,
		Source:          in.Source,
		TrackingNumber:  in.TrackingNumber,
		CarrierID:       in.CarrierID,
		IsPending:       in.IsPending,
		IsSingleUnit:    in.IsSingleUnit,
		IsLocal:         in.IsLocal,
		HasPackingList:  in.HasPackingList,
		DeviceInfo:      in.DeviceInfo,
		IdempotencyKey:  in.IdempotencyKey,
	}
}
