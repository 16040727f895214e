package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maiar0/inventory-web-backend/internal/application/auth"
	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/infrastructure/sqlite"
	"github.com/Maiar0/inventory-web-backend/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth(t *testing.T) (*auth.AuthUseCase, *sqlite.UserRepo) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := sqlite.NewUserRepository(db)
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}), repo
}

func TestRegisterYLogin(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Example.com ", Password: "contraseña1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "ana@example.com", user.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "contraseña1"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "admin", role)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
	assert.NotEqual(t, "contraseña1", stored.PasswordHash)
}

func TestRegister_Validacion(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "no-es-email", Password: "corta"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "suficiente", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHasRole(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	ids := map[entity.Role]string{}
	for _, r := range []entity.Role{entity.RoleRoot, entity.RoleAdmin, entity.RoleUser} {
		u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: string(r) + "@example.com", Password: "password1", Role: string(r)})
		require.NoError(t, err)
		ids[r] = u.ID
	}

	cases := []struct {
		user     entity.Role
		required entity.Role
		want     bool
	}{
		{entity.RoleRoot, entity.RoleAdmin, true},
		{entity.RoleRoot, entity.RoleUser, true},
		{entity.RoleAdmin, entity.RoleAdmin, true},
		{entity.RoleAdmin, entity.RoleRoot, false},
		{entity.RoleUser, entity.RoleAdmin, false},
		{entity.RoleUser, entity.RoleUser, true},
	}
	for _, tc := range cases {
		ok, err := uc.HasRole(ctx, ids[tc.user], tc.required)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s requiere %s", tc.user, tc.required)
	}

	ok, err := uc.HasRole(ctx, "desconocido", entity.RoleUser)
	require.NoError(t, err)
	assert.False(t, ok)
}
