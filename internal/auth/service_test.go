package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwise/parkd/internal/auth"
	"github.com/parkwise/parkd/internal/domain"
)

// mockUserRepo implements domain.UserRepository with func fields.
type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	updateRoleFunc func(ctx context.Context, id uuid.UUID, role string) error
	listFunc       func(ctx context.Context, limit, offset int) ([]*domain.User, error)
	countFunc      func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return m.createFunc(ctx, u) }
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}
func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return m.updateFunc(ctx, u) }
func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return m.updateRoleFunc(ctx, id, role)
}
func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return m.listFunc(ctx, limit, offset)
}
func (m *mockUserRepo) Count(ctx context.Context) (int64, error) { return m.countFunc(ctx) }

const testSecret = "0123456789abcdef0123456789abcdef"

func TestService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	var stored *domain.User
	repo := &mockUserRepo{
		getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			if stored != nil && stored.Email == email {
				return stored, nil
			}
			return nil, domain.ErrNotFound
		},
		createFunc: func(_ context.Context, u *domain.User) error {
			stored = u
			return nil
		},
	}
	svc := auth.NewService(repo, testSecret, 15*time.Minute, 24*time.Hour)

	user, err := svc.Register(context.Background(), "driver@example.com", "hunter2!", "Dana Driver", "+31-6-1234")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter2!", user.PasswordHash, "password must never be stored in the clear")

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "driver@example.com", "other", "Dup", "")
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})

	t.Run("login with right password", func(t *testing.T) {
		got, access, refresh, err := svc.Login(context.Background(), "driver@example.com", "hunter2!")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "driver@example.com", claims.Email)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "driver@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2!")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &mockUserRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			if id == userID {
				// Role was bumped since the refresh token was issued.
				return &domain.User{ID: userID, Email: "ops@example.com", Role: auth.RoleOperator}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := auth.NewService(repo, testSecret, 15*time.Minute, 24*time.Hour)

	refresh, err := auth.IssueRefreshToken(testSecret, userID, "ops@example.com", auth.RoleCustomer, time.Hour)
	require.NoError(t, err)

	access, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(testSecret, access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, auth.RoleOperator, claims.Role, "refresh must pick up the current role")

	t.Run("access token is not a refresh token", func(t *testing.T) {
		access, err := auth.IssueAccessToken(testSecret, userID, "ops@example.com", "customer", time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		refresh, err := auth.IssueRefreshToken(testSecret, uuid.New(), "gone@example.com", "customer", time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
