package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, store_id, user_id, type, quantity, notes, reference_number,
		previous_stock, new_stock, source, device_info, tracking_number, carrier_id,
		is_pending, is_single_unit, is_local, has_packing_list, idempotency_key, created_at`

// InventoryMovementRepo implementación del puerto del libro de movimientos sobre
// PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador de persistencia del libro. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.StoreID, &m.UserID, &m.Type, &m.Quantity,
		&m.Notes, &m.ReferenceNumber, &m.PreviousStock, &m.NewStock,
		&m.Source, &m.DeviceInfo, &m.TrackingNumber, &m.CarrierID,
		&m.IsPending, &m.IsSingleUnit, &m.IsLocal, &m.HasPackingList,
		&m.IdempotencyKey, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta una entrada en el libro. Una clave de idempotencia repetida
// viola el índice único (store_id, idempotency_key) -> ErrDuplicate; el caso de
// uso resuelve entonces el movimiento original por la clave.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.StoreID, movement.UserID,
		movement.Type, movement.Quantity, movement.Notes, movement.ReferenceNumber,
		movement.PreviousStock, movement.NewStock, movement.Source, movement.DeviceInfo,
		movement.TrackingNumber, movement.CarrierID, movement.IsPending,
		movement.IsSingleUnit, movement.IsLocal, movement.HasPackingList,
		movement.IdempotencyKey, movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetByIdempotencyKey busca el movimiento original registrado con esa clave en la tienda.
func (r *InventoryMovementRepo) GetByIdempotencyKey(storeID, key string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE store_id = $1 AND idempotency_key = $2`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, storeID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by idempotency key: %w", err)
	}
	return m, nil
}

// movementWhere arma la cláusula WHERE del listado a partir del filtro.
// Devuelve las condiciones (la primera siempre es store_id) y sus argumentos.
func movementWhere(storeID string, f repository.MovementFilter) ([]string, []any) {
	conds := []string{"m.store_id = $1"}
	args := []any{storeID}
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("m.type = $%d", f.Type)
	}
	if f.From != nil {
		add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.created_at <= $%d", *f.To)
	}
	if f.ProductID != "" {
		add("m.product_id = $%d", f.ProductID)
	}
	if f.CarrierID != "" {
		add("m.carrier_id = $%d", f.CarrierID)
	}
	if f.IsPending != nil {
		add("m.is_pending = $%d", *f.IsPending)
	}
	if f.HasPackingList != nil {
		add("m.has_packing_list = $%d", *f.HasPackingList)
	}
	return conds, args
}

// List devuelve una página del libro de la tienda (created_at DESC) y el total
// filtrado. Resuelve nombres con LEFT JOIN: un producto eliminado aparece como
// "Producto eliminado"; la transportadora puede ser nil.
func (r *InventoryMovementRepo) List(storeID string, f repository.MovementFilter, limit, offset int) ([]*entity.MovementWithNames, int, error) {
	conds, args := movementWhere(storeID, f)
	where := strings.Join(conds, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory_movements m WHERE ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.product_id, m.store_id, m.user_id, m.type, m.quantity, m.notes, m.reference_number,
			m.previous_stock, m.new_stock, m.source, m.device_info, m.tracking_number, m.carrier_id,
			m.is_pending, m.is_single_unit, m.is_local, m.has_packing_list, m.idempotency_key, m.created_at,
			COALESCE(p.name, 'Producto eliminado') AS product_name,
			c.name AS carrier_name
		FROM inventory_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN carriers c ON c.id = m.carrier_id
		WHERE %s
		ORDER BY m.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.MovementWithNames
	for rows.Next() {
		var m entity.MovementWithNames
		err := rows.Scan(
			&m.ID, &m.ProductID, &m.StoreID, &m.UserID, &m.Type, &m.Quantity,
			&m.Notes, &m.ReferenceNumber, &m.PreviousStock, &m.NewStock,
			&m.Source, &m.DeviceInfo, &m.TrackingNumber, &m.CarrierID,
			&m.IsPending, &m.IsSingleUnit, &m.IsLocal, &m.HasPackingList,
			&m.IdempotencyKey, &m.CreatedAt,
			&m.ProductName, &m.CarrierName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, total, rows.Err()
}

// UpdateStatus parchea el estado de envío de un movimiento. Solo los campos no
// nil del patch se escriben; cantidad, tipo y snapshots son inmutables.
func (r *InventoryMovementRepo) UpdateStatus(id string, patch repository.MovementStatusPatch) (*entity.InventoryMovement, error) {
	sets := []string{}
	args := []any{id}
	set := func(clause string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}
	if patch.TrackingNumber != nil {
		set("tracking_number = $%d", *patch.TrackingNumber)
	}
	if patch.CarrierID != nil {
		set("carrier_id = $%d", *patch.CarrierID)
	}
	if patch.IsPending != nil {
		set("is_pending = $%d", *patch.IsPending)
	}
	if patch.Notes != nil {
		set("notes = $%d", *patch.Notes)
	}
	if len(sets) == 0 {
		return r.GetByID(id)
	}

	query := fmt.Sprintf(`
		UPDATE inventory_movements SET %s
		WHERE id = $1
		RETURNING `+movementColumns, strings.Join(sets, ", "))
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update movement status: %w", err)
	}
	return m, nil
}

// ListSince devuelve filas mínimas (tipo, cantidad, fecha) desde una fecha, para estadísticas.
func (r *InventoryMovementRepo) ListSince(storeID string, since time.Time) ([]*repository.MovementStatRow, error) {
	query := `
		SELECT type, quantity, created_at
		FROM inventory_movements
		WHERE store_id = $1 AND created_at >= $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("list movements since: %w", err)
	}
	defer rows.Close()

	var result []*repository.MovementStatRow
	for rows.Next() {
		var row repository.MovementStatRow
		if err := rows.Scan(&row.Type, &row.Quantity, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stat row: %w", err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
