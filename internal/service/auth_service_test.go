package service

import (
	"context"
	"testing"
	"time"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testExpiry() time.Time { return time.Now().Add(24 * time.Hour) }

type authTestDeps struct {
	svc          *AuthServiceImpl
	operatorRepo *mocks.MockOperatorRepository
	hashSvc      *mocks.MockHashService
	tokenSvc     *mocks.MockTokenService
	ctrl         *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		operatorRepo: mocks.NewMockOperatorRepository(ctrl),
		hashSvc:      mocks.NewMockHashService(ctrl),
		tokenSvc:     mocks.NewMockTokenService(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewAuthService(d.operatorRepo, d.hashSvc, d.tokenSvc)
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.operatorRepo.EXPECT().GetByUsername(ctx, "teller-01").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("long-enough-password").Return("$argon2id$hash", nil)
	d.operatorRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	operator, err := d.svc.Register(ctx, "teller-01", "long-enough-password")
	require.NoError(t, err)
	require.NotNil(t, operator)
	assert.Equal(t, "teller-01", operator.Username)
	assert.Equal(t, "$argon2id$hash", operator.PasswordHash)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	operator, err := d.svc.Register(context.Background(), "teller-01", "short")
	assert.Nil(t, operator)
	require.Error(t, err)
	assertAppError(t, err, "VAL_001")
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.operatorRepo.EXPECT().GetByUsername(ctx, "teller-01").
		Return(&domain.Operator{ID: uuid.New(), Username: "teller-01"}, nil)

	operator, err := d.svc.Register(ctx, "teller-01", "long-enough-password")
	assert.Nil(t, operator)
	require.Error(t, err)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	operatorID := uuid.New()
	d.operatorRepo.EXPECT().GetByUsername(ctx, "teller-01").Return(&domain.Operator{
		ID:           operatorID,
		Username:     "teller-01",
		PasswordHash: "$argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("password123", "$argon2id$hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(operatorID, "teller-01").Return("jwt-token", testExpiry(), nil)

	token, expiry, err := d.svc.Login(ctx, "teller-01", "password123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.False(t, expiry.IsZero())
}

func TestAuthService_Login_UnknownOperator(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.operatorRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "ghost", "password123")
	require.Error(t, err)
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.operatorRepo.EXPECT().GetByUsername(ctx, "teller-01").Return(&domain.Operator{
		ID:           uuid.New(),
		Username:     "teller-01",
		PasswordHash: "$argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$argon2id$hash").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "teller-01", "wrong")
	require.Error(t, err)
	assertAppError(t, err, "AUTH_001")
}
