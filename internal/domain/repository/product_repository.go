package repository

import "github.com/netxel/inventario-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	BarcodeExists(barcode string) (bool, error)
	Update(product *entity.Product) error
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE); usar dentro de una tx.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock fija el stock del producto (solo desde el motor de movimientos).
	UpdateStock(productID string, stock int64) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
