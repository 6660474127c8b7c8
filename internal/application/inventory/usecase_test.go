package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: estado compartido + runner transaccional con rollback
// ──────────────────────────────────────────────────────────────────────────────

// memState estado compartido de los fakes. El mutex del runner serializa las
// "transacciones" igual que lo haría el lock de fila en PostgreSQL.
type memState struct {
	mu        sync.Mutex
	stores    map[string]*entity.Store
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
}

func newMemState() *memState {
	return &memState{
		stores:   make(map[string]*entity.Store),
		products: make(map[string]*entity.Product),
	}
}

type memStoreRepo struct{ s *memState }

func (r *memStoreRepo) Create(store *entity.Store) error { r.s.stores[store.ID] = store; return nil }
func (r *memStoreRepo) GetByID(id string) (*entity.Store, error) {
	return r.s.stores[id], nil
}
func (r *memStoreRepo) Update(store *entity.Store) error { r.s.stores[store.ID] = store; return nil }
func (r *memStoreRepo) ListByUser(userID string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.s.stores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (r *memStoreRepo) Delete(id string) error { delete(r.s.stores, id); return nil }

type memProductRepo struct{ s *memState }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetByBarcode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Barcode == code {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) BarcodeExists(code string) (bool, error) {
	p, _ := r.GetByBarcode(code)
	return p != nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) UpdateStock(productID string, stock int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}
func (r *memProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

type memMovementRepo struct{ s *memState }

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	if m.IdempotencyKey != nil && *m.IdempotencyKey != "" {
		for _, existing := range r.s.movements {
			if existing.StoreID == m.StoreID && existing.IdempotencyKey != nil &&
				*existing.IdempotencyKey == *m.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (r *memMovementRepo) GetByIdempotencyKey(storeID, key string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.StoreID == storeID && m.IdempotencyKey != nil && *m.IdempotencyKey == key {
			return m, nil
		}
	}
	return nil, nil
}
func (r *memMovementRepo) List(storeID string, f repository.MovementFilter, limit, offset int) ([]*entity.MovementWithNames, int, error) {
	return nil, 0, nil
}
func (r *memMovementRepo) UpdateStatus(id string, patch repository.MovementStatusPatch) (*entity.InventoryMovement, error) {
	return r.GetByID(id)
}
func (r *memMovementRepo) ListSince(storeID string, since time.Time) ([]*repository.MovementStatRow, error) {
	return nil, nil
}

// memTxRunner serializa las transacciones con un mutex y emula el rollback
// restaurando un snapshot del estado si el callback falla.
type memTxRunner struct{ s *memState }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Snapshot para rollback
	stockBefore := make(map[string]int64, len(r.s.products))
	for id, p := range r.s.products {
		stockBefore[id] = p.Stock
	}
	movementsBefore := len(r.s.movements)

	err := fn(&memMovementRepo{s: r.s}, &memProductRepo{s: r.s})
	if err != nil {
		for id, stock := range stockBefore {
			r.s.products[id].Stock = stock
		}
		r.s.movements = r.s.movements[:movementsBefore]
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	ownerID      = "user-1"
	otherUserID  = "user-2"
	storeID      = "store-1"
	otherStoreID = "store-2"
	productID    = "product-1"
)

func newFixture(initialStock int64) (*RegisterMovementUseCase, *memState) {
	s := newMemState()
	s.stores[storeID] = &entity.Store{ID: storeID, UserID: ownerID, Name: "Principal"}
	s.stores[otherStoreID] = &entity.Store{ID: otherStoreID, UserID: otherUserID, Name: "Ajena"}
	s.products[productID] = &entity.Product{
		ID: productID, StoreID: storeID, Name: "Audífonos", Stock: initialStock,
	}
	uc := NewRegisterMovementUseCase(&memTxRunner{s: s}, &memStoreRepo{s: s}, &memMovementRepo{s: s})
	return uc, s
}

func entrada(q int64) MovementInput {
	return MovementInput{
		StoreID: storeID, UserID: ownerID, ProductID: productID,
		Type: entity.MovementTypeEntrada, Quantity: q,
	}
}

func salidaLocal(q int64) MovementInput {
	return MovementInput{
		StoreID: storeID, UserID: ownerID, ProductID: productID,
		Type: entity.MovementTypeSalida, Quantity: q, IsLocal: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de deltas por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_DeltaPorTipo(t *testing.T) {
	cases := []struct {
		tipo       string
		cantidad   int64
		stockFinal int64
	}{
		{entity.MovementTypeEntrada, 5, 15},    // entrada suma
		{entity.MovementTypeSalida, 4, 6},      // salida resta
		{entity.MovementTypeDevolucion, 3, 13}, // la devolución reingresa al inventario
	}
	for _, tc := range cases {
		t.Run(tc.tipo, func(t *testing.T) {
			uc, s := newFixture(10)
			in := MovementInput{
				StoreID: storeID, UserID: ownerID, ProductID: productID,
				Type: tc.tipo, Quantity: tc.cantidad, IsLocal: true,
			}
			mov, err := uc.RegisterMovement(context.Background(), in)
			require.NoError(t, err)

			assert.Equal(t, int64(10), mov.PreviousStock, "snapshot previo")
			assert.Equal(t, tc.stockFinal, mov.NewStock, "snapshot nuevo")
			assert.Equal(t, tc.stockFinal, s.products[productID].Stock, "stock persistido")
			require.Len(t, s.movements, 1, "debe quedar una entrada en el libro")
		})
	}
}

// Ejemplo completo: 10 → entrada 5 → 15; luego salida 20 se rechaza y nada cambia.
func TestRegisterMovement_EjemploCompleto(t *testing.T) {
	uc, s := newFixture(10)
	ctx := context.Background()

	mov, err := uc.RegisterMovement(ctx, entrada(5))
	require.NoError(t, err)
	assert.Equal(t, int64(15), mov.NewStock)

	_, err = uc.RegisterMovement(ctx, salidaLocal(20))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(15), s.products[productID].Stock, "el rechazo no toca el stock")
	assert.Len(t, s.movements, 1, "el rechazo no deja rastro en el libro")
}

// Una salida que deja el stock exactamente en cero sí es válida.
func TestRegisterMovement_SalidaHastaCero(t *testing.T) {
	uc, s := newFixture(7)
	mov, err := uc.RegisterMovement(context.Background(), salidaLocal(7))
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.NewStock)
	assert.Equal(t, int64(0), s.products[productID].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_CantidadInvalida(t *testing.T) {
	uc, _ := newFixture(10)
	for _, q := range []int64{0, -3} {
		in := entrada(q)
		_, err := uc.RegisterMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", q)
	}
}

func TestRegisterMovement_TipoInvalido(t *testing.T) {
	uc, _ := newFixture(10)
	in := entrada(1)
	in.Type = "ajuste"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Salida no local y no pendiente sin número de guía → ErrTrackingRequired.
func TestRegisterMovement_GuiaRequerida(t *testing.T) {
	uc, _ := newFixture(10)
	in := MovementInput{
		StoreID: storeID, UserID: ownerID, ProductID: productID,
		Type: entity.MovementTypeSalida, Quantity: 1,
	}
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrTrackingRequired)

	// Pendiente: la guía puede llegar después.
	in.IsPending = true
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.NoError(t, err)

	// Con guía: pasa directamente.
	guia := "TRK-001"
	in.IsPending = false
	in.TrackingNumber = &guia
	_, err = uc.RegisterMovement(context.Background(), in)
	assert.NoError(t, err)
}

func TestRegisterMovement_TiendaAjena(t *testing.T) {
	uc, _ := newFixture(10)
	in := entrada(1)
	in.UserID = otherUserID
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_ProductoDeOtraTienda(t *testing.T) {
	uc, s := newFixture(10)
	s.products["product-2"] = &entity.Product{ID: "product-2", StoreID: otherStoreID, Stock: 5}
	in := entrada(1)
	in.ProductID = "product-2"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, _ := newFixture(10)
	in := entrada(1)
	in.ProductID = "no-existe"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

// Reintentar con la misma clave devuelve el movimiento original y aplica el
// cambio de stock una sola vez.
func TestRegisterMovement_Idempotencia(t *testing.T) {
	uc, s := newFixture(10)
	ctx := context.Background()

	key := "retry-abc"
	in := entrada(5)
	in.IdempotencyKey = &key

	first, err := uc.RegisterMovement(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(15), s.products[productID].Stock)

	second, err := uc.RegisterMovement(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "debe devolver el movimiento original")
	assert.Equal(t, int64(15), s.products[productID].Stock, "el stock no se aplica dos veces")
	assert.Len(t, s.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito (batch)
// ──────────────────────────────────────────────────────────────────────────────

// Las líneas son independientes: la línea fallida no revierte las confirmadas
// ni bloquea las siguientes.
func TestRegisterBatch_FalloParcial(t *testing.T) {
	uc, s := newFixture(10)

	results := uc.RegisterBatch(context.Background(), []MovementInput{
		salidaLocal(4),  // 10 → 6
		salidaLocal(50), // rechazada: stock insuficiente
		salidaLocal(6),  // 6 → 0
	})
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, domain.ErrInsufficientStock)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, int64(0), s.products[productID].Stock)
	assert.Len(t, s.movements, 2, "solo las líneas confirmadas quedan en el libro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Movimientos concurrentes sobre el mismo producto no pierden actualizaciones:
// el runner serializa como lo haría SELECT FOR UPDATE.
func TestRegisterMovement_Concurrencia(t *testing.T) {
	const n = 20
	uc, s := newFixture(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(context.Background(), salidaLocal(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), s.products[productID].Stock)
	require.Len(t, s.movements, n)

	// Los snapshots deben encadenarse sin huecos: cada nuevo stock es único.
	seen := make(map[int64]bool, n)
	for _, m := range s.movements {
		assert.Equal(t, m.PreviousStock-1, m.NewStock)
		assert.False(t, seen[m.NewStock], fmt.Sprintf("nuevo stock %d duplicado (lost update)", m.NewStock))
		seen[m.NewStock] = true
	}
}
