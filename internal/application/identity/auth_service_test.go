package identity

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/identity"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ identity.UserRepository = (*MockUserRepository)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "fieldops-test",
	})
}

func newAuthService() (*AuthService, *MockUserRepository, *auth.JWTService) {
	userRepo := new(MockUserRepository)
	jwtService := newTestJWTService()
	service := NewAuthService(userRepo, jwtService)
	return service, userRepo, jwtService
}

func createTestUser(t *testing.T, tenantID uuid.UUID) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, "tech@fieldops.example", "Sam Rivera", "s3cret-pass", identity.RoleStaff)
	require.NoError(t, err)
	return user
}

// =============================================================================
// AuthService Tests
// =============================================================================

func TestAuthService_Login_Success(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)

	userRepo.On("FindByEmail", ctx, tenantID, user.Email).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: user.Email, Password: "s3cret-pass"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", result.Tokens.TokenType)
	assert.Equal(t, user.Email, result.User.Email)
	assert.NotNil(t, user.LastLoginAt)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)

	userRepo.On("FindByEmail", ctx, tenantID, user.Email).Return(user, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: user.Email, Password: "wrong-pass"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	userRepo.On("FindByEmail", ctx, tenantID, "ghost@fieldops.example").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: "ghost@fieldops.example", Password: "whatever1"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Login_DeactivatedUser(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)
	user.Deactivate()

	userRepo.On("FindByEmail", ctx, tenantID, user.Email).Return(user, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: user.Email, Password: "s3cret-pass"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	service, userRepo, jwtService := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)

	tokens, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	require.NoError(t, err)

	userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.Equal(t, user.Email, result.User.Email)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	service, userRepo, _ := newAuthService()

	result, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: "not-a-jwt"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	userRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	service, _, jwtService := newAuthService()

	ctx := context.Background()
	user := createTestUser(t, newTestTenantID())
	tokens, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	require.NoError(t, err)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: tokens.AccessToken})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	service, userRepo, jwtService := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)
	user.Deactivate()

	tokens, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	require.NoError(t, err)

	userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)

	userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	err := service.ChangePassword(ctx, tenantID, user.ID, ChangePasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "new-password-1",
	})

	assert.NoError(t, err)
	assert.True(t, user.CheckPassword("new-password-1"))
	userRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	service, userRepo, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := createTestUser(t, tenantID)

	userRepo.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)

	err := service.ChangePassword(ctx, tenantID, user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "new-password-1",
	})

	assert.Error(t, err)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
