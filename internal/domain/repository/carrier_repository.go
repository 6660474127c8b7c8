package repository

import "github.com/netxel/inventario-api/internal/domain/entity"

// CarrierRepository catálogo de transportadoras (solo lectura).
type CarrierRepository interface {
	ListActive() ([]*entity.Carrier, error)
}
