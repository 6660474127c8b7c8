// Package store maneja las tiendas del usuario, su caché y la selección de la
// tienda actual por sesión.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
	"github.com/netxel/inventario-api/pkg/retry"
)

// Cache abstracción explícita del caché de tiendas y de la clave "tienda actual"
// por usuario. La consistencia es contrato del componente: toda mutación de
// tiendas pasa por Invalidate.
type Cache interface {
	GetStores(ctx context.Context, userID string) ([]*entity.Store, bool, error)
	SetStores(ctx context.Context, userID string, stores []*entity.Store) error
	Invalidate(ctx context.Context, userID string) error

	CurrentStoreID(ctx context.Context, userID string) (string, error)
	SetCurrentStoreID(ctx context.Context, userID, storeID string) error
	ClearCurrentStore(ctx context.Context, userID string) error
}

// UseCase casos de uso de tiendas: CRUD, caché get-or-fetch y tienda actual.
type UseCase struct {
	repo  repository.StoreRepository
	cache Cache
	retry retry.Policy
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.StoreRepository, cache Cache, policy retry.Policy) *UseCase {
	return &UseCase{repo: repo, cache: cache, retry: policy}
}

func validateStoreData(name, description, address string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrInvalidInput
	}
	if len(name) > 100 || len(description) > 500 || len(address) > 200 {
		return domain.ErrInvalidInput
	}
	return nil
}

// List devuelve las tiendas del usuario: caché si está vigente, si no BD con
// reintentos y se repuebla el caché. Orden created_at DESC (lo da el repo).
func (uc *UseCase) List(ctx context.Context, userID string) ([]*entity.Store, error) {
	if cached, ok, err := uc.cache.GetStores(ctx, userID); err == nil && ok {
		return cached, nil
	}

	var stores []*entity.Store
	err := uc.retry.Do(ctx, func() error {
		var err error
		stores, err = uc.repo.ListByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Un fallo al poblar el caché no invalida la lectura.
	_ = uc.cache.SetStores(ctx, userID, stores)
	return stores, nil
}

// Create crea una tienda del usuario e invalida el caché.
func (uc *UseCase) Create(ctx context.Context, userID, name, description, address string) (*entity.Store, error) {
	if err := validateStoreData(name, description, address); err != nil {
		return nil, err
	}
	now := time.Now()
	store := &entity.Store{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Address:     address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(store); err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return store, nil
}

// Get obtiene una tienda verificando que pertenezca al usuario.
func (uc *UseCase) Get(userID, storeID string) (*entity.Store, error) {
	store, err := uc.repo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if store.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return store, nil
}

// Update actualiza nombre/descripción/dirección e invalida el caché.
func (uc *UseCase) Update(ctx context.Context, userID, storeID string, name, description, address *string) (*entity.Store, error) {
	store, err := uc.Get(userID, storeID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		store.Name = *name
	}
	if description != nil {
		store.Description = *description
	}
	if address != nil {
		store.Address = *address
	}
	if err := validateStoreData(store.Name, store.Description, store.Address); err != nil {
		return nil, err
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(store); err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return store, nil
}

// Delete elimina la tienda (borrado duro), invalida el caché y, si era la
// tienda actual, limpia la selección.
func (uc *UseCase) Delete(ctx context.Context, userID, storeID string) error {
	if _, err := uc.Get(userID, storeID); err != nil {
		return err
	}
	if err := uc.repo.Delete(storeID); err != nil {
		return err
	}
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		return err
	}
	if current, err := uc.cache.CurrentStoreID(ctx, userID); err == nil && current == storeID {
		_ = uc.cache.ClearCurrentStore(ctx, userID)
	}
	return nil
}

// Select marca una tienda como la actual de la sesión (tras verificar propiedad).
func (uc *UseCase) Select(ctx context.Context, userID, storeID string) (*entity.Store, error) {
	store, err := uc.Get(userID, storeID)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetCurrentStoreID(ctx, userID, storeID); err != nil {
		return nil, err
	}
	return store, nil
}

// Current resuelve la tienda actual revalidando la selección guardada contra la
// lista del usuario: si la tienda guardada ya no existe se limpia la clave; con
// exactamente una tienda se auto-selecciona; en cualquier otro caso devuelve
// ErrNoStoreSelected (el cliente muestra el selector).
func (uc *UseCase) Current(ctx context.Context, userID string) (*entity.Store, error) {
	stores, err := uc.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	if id, err := uc.cache.CurrentStoreID(ctx, userID); err == nil && id != "" {
		for _, s := range stores {
			if s.ID == id {
				return s, nil
			}
		}
		// La tienda guardada desapareció: limpiar y caer al selector.
		_ = uc.cache.ClearCurrentStore(ctx, userID)
	}

	if len(stores) == 1 {
		if err := uc.cache.SetCurrentStoreID(ctx, userID, stores[0].ID); err != nil {
			return nil, err
		}
		return stores[0], nil
	}
	return nil, domain.ErrNoStoreSelected
}

// ClearCurrent limpia la selección de tienda (al cerrar sesión).
func (uc *UseCase) ClearCurrent(ctx context.Context, userID string) error {
	return uc.cache.ClearCurrentStore(ctx, userID)
}
