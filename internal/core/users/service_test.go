package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Vidtube/internal/errs"
)

// MockRepository is a testify mock of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*User), args.Error(1)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(new(MockRepository), nil, 0, nil)

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"short username", RegisterRequest{Username: "ab", FullName: "A", Email: "a@b.co", Password: "longenough"}, "username"},
		{"missing full name", RegisterRequest{Username: "alice", Email: "a@b.co", Password: "longenough"}, "fullName"},
		{"bad email", RegisterRequest{Username: "alice", FullName: "Alice", Email: "nope", Password: "longenough"}, "email"},
		{"short password", RegisterRequest{Username: "alice", FullName: "Alice", Email: "a@b.co", Password: "short"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Equal(t, []string{tt.field}, errs.DetailsOf(err))
		})
	}
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*users.User")).Return(ErrUserTaken)
	svc := NewService(repo, nil, 0, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "Alice", FullName: "Alice", Email: "alice@example.com", Password: "correct horse",
	})

	assert.True(t, errs.IsConflict(err))
	repo.AssertExpectations(t)
}

func TestLogin_UnknownUserFails(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, ErrUserNotFound)
	svc := NewService(repo, nil, 0, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever1"})

	assert.True(t, errs.IsAuthentication(err))
}

func TestLogin_PasswordCheck(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)}

	repo := new(MockRepository)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	svc := NewService(repo, nil, 0, nil)

	got, err := svc.Login(context.Background(), LoginRequest{Email: "Alice@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong horse"})
	assert.True(t, errs.IsAuthentication(err))
}

func TestProfiles_UsesCache(t *testing.T) {
	known := &User{ID: uuid.New(), Username: "alice", FullName: "Alice"}
	missing := uuid.New()

	repo := new(MockRepository)
	repo.On("GetByIDs", mock.Anything, []uuid.UUID{known.ID, missing}).
		Return(map[uuid.UUID]*User{known.ID: known}, nil).Once()

	cache := NewProfileCache(10, 0)
	svc := NewService(repo, cache, 0, nil)

	got, err := svc.Profiles(context.Background(), []uuid.UUID{known.ID, missing, known.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "alice", got[known.ID].Username)

	// Second call for the cached user must not touch the repository.
	got, err = svc.Profiles(context.Background(), []uuid.UUID{known.ID})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got[known.ID].FullName)

	repo.AssertExpectations(t)
	assert.Equal(t, 1, cache.Len())
}

func TestGetProfile_NotFound(t *testing.T) {
	id := uuid.New()
	repo := new(MockRepository)
	repo.On("GetByIDs", mock.Anything, []uuid.UUID{id}).Return(map[uuid.UUID]*User{}, nil)
	svc := NewService(repo, nil, 0, nil)

	_, err := svc.GetProfile(context.Background(), id)
	assert.True(t, errs.IsNotFound(err))
}
