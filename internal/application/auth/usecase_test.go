package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users   map[string]*entity.User // por email
	findErr error                   // fuerza un fallo en FindByEmail
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if _, ok := r.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.users[u.Email] = u
	return nil
}
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.users[email], nil
}

func newFixture() (*AuthUseCase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	uc := NewAuthUseCase(repo, JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "netxel-inventario-test",
	})
	return uc, repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaYPersiste(t *testing.T) {
	uc, repo := newFixture()

	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, out.Role, "rol por defecto: owner")

	stored := repo.users["ana@netxel.co"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreta123", stored.PasswordHash, "nunca se guarda el password plano")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Un fallo al consultar el email debe propagarse, no leerse como "email libre".
func TestRegisterUser_FalloDeLectura(t *testing.T) {
	uc, repo := newFixture()
	boom := errors.New("conexión rechazada")
	repo.findErr = boom

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.users, "no debe intentarse el insert")
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123"})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@netxel.co", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@netxel.co", out.User.Email)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@netxel.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@netxel.co", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@netxel.co", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
