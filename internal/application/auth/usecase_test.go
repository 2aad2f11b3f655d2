package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/jwt"
)

// fakeUsers implementa repository.UserRepository en memoria.
type fakeUsers struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secreto-de-test", Expiration: 60, Issuer: "almacen-api"}
}

func TestRegister_EmiteTokenConRol(t *testing.T) {
	uc := auth.NewUseCase(newFakeUsers(), testJWTConfig())

	resp, err := uc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "contraseña-larga",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, entity.RoleStaff, resp.User.Role, "rol por defecto staff")
	assert.Equal(t, "ana@example.com", resp.User.Email, "email normalizado a minúsculas")

	userID, role, err := jwt.Parse(testJWTConfig().Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleStaff, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	users := newFakeUsers()
	uc := auth.NewUseCase(users, testJWTConfig())

	req := dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "contraseña-larga"}
	_, err := uc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_ValidaEntrada(t *testing.T) {
	uc := auth.NewUseCase(newFakeUsers(), testJWTConfig())

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin nombre")

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Name: "Ana", Email: "a@b.c", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "contraseña de menos de 8 caracteres")

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Name: "Ana", Email: "a@b.c", Password: "12345678", Role: "superadmin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rol desconocido")
}

func TestLogin_CredencialesCorrectasEIncorrectas(t *testing.T) {
	users := newFakeUsers()
	uc := auth.NewUseCase(users, testJWTConfig())

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "contraseña-larga", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@example.com", Password: "contraseña-larga",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@example.com", Password: "otra",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "contraseña incorrecta")

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@example.com", Password: "contraseña-larga",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "email inexistente: misma respuesta")
}
