package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStoreRepo struct {
	stores    map[string]*entity.Store
	listCalls int
	failNext  int // fuerza fallos en ListByUser para probar reintentos
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[string]*entity.Store)}
}

func (r *fakeStoreRepo) Create(s *entity.Store) error { r.stores[s.ID] = s; return nil }
func (r *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	return r.stores[id], nil
}
func (r *fakeStoreRepo) Update(s *entity.Store) error { r.stores[s.ID] = s; return nil }
func (r *fakeStoreRepo) ListByUser(userID string) ([]*entity.Store, error) {
	r.listCalls++
	if r.failNext > 0 {
		r.failNext--
		return nil, errors.New("conexión rechazada")
	}
	var out []*entity.Store
	for _, s := range r.stores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (r *fakeStoreRepo) Delete(id string) error { delete(r.stores, id); return nil }

// fakeCache caché en memoria con la misma semántica que la implementación Redis.
type fakeCache struct {
	stores  map[string][]*entity.Store
	current map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		stores:  make(map[string][]*entity.Store),
		current: make(map[string]string),
	}
}

func (c *fakeCache) GetStores(_ context.Context, userID string) ([]*entity.Store, bool, error) {
	s, ok := c.stores[userID]
	return s, ok, nil
}
func (c *fakeCache) SetStores(_ context.Context, userID string, stores []*entity.Store) error {
	c.stores[userID] = stores
	return nil
}
func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	delete(c.stores, userID)
	return nil
}
func (c *fakeCache) CurrentStoreID(_ context.Context, userID string) (string, error) {
	return c.current[userID], nil
}
func (c *fakeCache) SetCurrentStoreID(_ context.Context, userID, storeID string) error {
	c.current[userID] = storeID
	return nil
}
func (c *fakeCache) ClearCurrentStore(_ context.Context, userID string) error {
	delete(c.current, userID)
	return nil
}

const userID = "user-1"

func fastRetry() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

func newFixture() (*UseCase, *fakeStoreRepo, *fakeCache) {
	repo := newFakeStoreRepo()
	cache := newFakeCache()
	return NewUseCase(repo, cache, fastRetry()), repo, cache
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché get-or-fetch
// ──────────────────────────────────────────────────────────────────────────────

// La primera lectura va a la BD y puebla el caché; la segunda no toca la BD.
func TestList_CacheGetOrFetch(t *testing.T) {
	uc, repo, _ := newFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)

	first, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	callsAfterFirst := repo.listCalls

	second, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, callsAfterFirst, repo.listCalls, "la segunda lectura debe salir del caché")
}

// Toda mutación invalida el caché: la siguiente lectura ve el dato fresco.
func TestMutaciones_InvalidanCache(t *testing.T) {
	uc, _, cache := newFixture()
	ctx := context.Background()

	s, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)

	_, err = uc.List(ctx, userID)
	require.NoError(t, err)
	_, hit, _ := cache.GetStores(ctx, userID)
	require.True(t, hit, "el listado debe estar cacheado")

	nombre := "Tienda A renombrada"
	_, err = uc.Update(ctx, userID, s.ID, &nombre, nil, nil)
	require.NoError(t, err)
	_, hit, _ = cache.GetStores(ctx, userID)
	assert.False(t, hit, "Update debe invalidar el caché")

	// La lectura posterior ve el nombre nuevo.
	stores, err := uc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, nombre, stores[0].Name)
}

// Lecturas con la BD caída se reintentan; si se recupera dentro del
// presupuesto, la operación completa sin error.
func TestList_ReintentaYRecupera(t *testing.T) {
	uc, repo, _ := newFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)

	repo.failNext = 2 // fallan los dos primeros intentos
	stores, err := uc.List(ctx, userID)
	require.NoError(t, err, "el tercer intento debe recuperar la lectura")
	assert.Len(t, stores, 1)
}

func TestList_AgotaReintentos(t *testing.T) {
	uc, repo, _ := newFixture()
	repo.failNext = 10
	_, err := uc.List(context.Background(), userID)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Validacion(t *testing.T) {
	uc, _, _ := newFixture()
	ctx := context.Background()

	_, err := uc.Create(ctx, userID, "   ", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre vacío")

	_, err = uc.Create(ctx, userID, strings.Repeat("x", 101), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre demasiado largo")

	_, err = uc.Create(ctx, userID, "OK", strings.Repeat("x", 501), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descripción demasiado larga")
}

func TestGet_TiendaAjena(t *testing.T) {
	uc, repo, _ := newFixture()
	repo.stores["ajena"] = &entity.Store{ID: "ajena", UserID: "otro"}
	_, err := uc.Get(userID, "ajena")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tienda actual (selección de sesión)
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrent_SeleccionExplicita(t *testing.T) {
	uc, _, _ := newFixture()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)
	_, err = uc.Create(ctx, userID, "Tienda B", "", "")
	require.NoError(t, err)

	_, err = uc.Select(ctx, userID, a.ID)
	require.NoError(t, err)

	current, err := uc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)
}

// Con exactamente una tienda, se auto-selecciona sin intervención del usuario.
func TestCurrent_AutoSeleccionUnicaTienda(t *testing.T) {
	uc, _, cache := newFixture()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, "Única", "", "")
	require.NoError(t, err)

	current, err := uc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)
	assert.Equal(t, a.ID, cache.current[userID], "la auto-selección debe persistirse")
}

// Si la tienda guardada ya no existe, se limpia la clave y (con varias tiendas)
// se pide selección de nuevo.
func TestCurrent_SeleccionGuardadaDesaparecida(t *testing.T) {
	uc, repo, cache := newFixture()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)
	b, err := uc.Create(ctx, userID, "Tienda B", "", "")
	require.NoError(t, err)
	c, err := uc.Create(ctx, userID, "Tienda C", "", "")
	require.NoError(t, err)
	_ = b
	_ = c

	_, err = uc.Select(ctx, userID, a.ID)
	require.NoError(t, err)

	// La tienda desaparece por fuera del caso de uso (otra sesión la borró).
	require.NoError(t, repo.Delete(a.ID))
	require.NoError(t, cache.Invalidate(ctx, userID))

	_, err = uc.Current(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrNoStoreSelected)
	assert.Empty(t, cache.current[userID], "la selección rota debe limpiarse")
}

func TestCurrent_SinTiendas(t *testing.T) {
	uc, _, _ := newFixture()
	_, err := uc.Current(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNoStoreSelected)
}

func TestDelete_LimpiaSeleccionSiEraLaActual(t *testing.T) {
	uc, _, cache := newFixture()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)
	_, err = uc.Select(ctx, userID, a.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, userID, a.ID))
	assert.Empty(t, cache.current[userID])
}

func TestClearCurrent(t *testing.T) {
	uc, _, cache := newFixture()
	ctx := context.Background()

	a, err := uc.Create(ctx, userID, "Tienda A", "", "")
	require.NoError(t, err)
	_, err = uc.Select(ctx, userID, a.ID)
	require.NoError(t, err)

	require.NoError(t, uc.ClearCurrent(ctx, userID))
	assert.Empty(t, cache.current[userID])
}
