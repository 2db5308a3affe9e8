package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-inventory/internal/application/auth"
	"github.com/jhoicas/retail-inventory/internal/application/dto"
	"github.com/jhoicas/retail-inventory/internal/domain"
	"github.com/jhoicas/retail-inventory/internal/domain/entity"
	"github.com/jhoicas/retail-inventory/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/retail-inventory/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth() *auth.AuthUseCase {
	cfg := auth.JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "retail-inventory-test"}
	return auth.NewAuthUseCase(memory.NewStore().Users(), cfg).WithHashCost(bcrypt.MinCost)
}

func TestRegisterYLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "s3creta-larga", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "manager", user.Role)
	assert.Contains(t, user.Permissions, entity.PermReportsRead)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3creta-larga"})
	require.NoError(t, err)
	assert.Equal(t, 1800, res.ExpiresIn)

	claims, err := pkgjwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.True(t, claims.HasPermission(entity.PermInvoicesWrite))
}

func TestRegister_RolPorDefectoStaff(t *testing.T) {
	user, err := newAuth().RegisterUser(context.Background(), dto.RegisterRequest{Username: "beto", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, user.Role)
	assert.ElementsMatch(t, []string{entity.PermInventoryRead, entity.PermSalesWrite}, user.Permissions)
}

func TestRegister_Errores(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "12345678"})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   dto.RegisterRequest
		kind error
	}{
		{"duplicado", dto.RegisterRequest{Username: "ana", Password: "12345678"}, domain.ErrDuplicate},
		{"password corto", dto.RegisterRequest{Username: "otro", Password: "123"}, domain.ErrValidation},
		{"rol desconocido", dto.RegisterRequest{Username: "otro", Password: "12345678", Role: "root"}, domain.ErrValidation},
		{"sin username", dto.RegisterRequest{Username: " ", Password: "12345678"}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterUser(ctx, tc.in)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
