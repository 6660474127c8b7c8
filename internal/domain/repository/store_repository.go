package repository

import "github.com/netxel/inventario-api/internal/domain/entity"

// StoreRepository define el puerto de persistencia para Store.
type StoreRepository interface {
	Create(store *entity.Store) error
	GetByID(id string) (*entity.Store, error)
	Update(store *entity.Store) error
	ListByUser(userID string) ([]*entity.Store, error)
	Delete(id string) error
}
