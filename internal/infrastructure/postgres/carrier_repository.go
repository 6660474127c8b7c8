package postgres

import (
	"context"
	"fmt"

	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
)

var _ repository.CarrierRepository = (*CarrierRepo)(nil)

// CarrierRepo implementación del puerto CarrierRepository sobre PostgreSQL.
// Las transportadoras son un catálogo global, no pertenecen a una tienda.
type CarrierRepo struct {
	q Querier
}

// NewCarrierRepository construye el adaptador de persistencia para transportadoras.
func NewCarrierRepository(q Querier) *CarrierRepo {
	return &CarrierRepo{q: q}
}

// ListActive lista las transportadoras activas ordenadas por nombre.
func (r *CarrierRepo) ListActive() ([]*entity.Carrier, error) {
	query := `
		SELECT id, name, code, is_active
		FROM carriers WHERE is_active = true
		ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	defer rows.Close()

	var carriers []*entity.Carrier
	for rows.Next() {
		var c entity.Carrier
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		carriers = append(carriers, &c)
	}
	return carriers, rows.Err()
}
