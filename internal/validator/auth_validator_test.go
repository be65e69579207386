package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/validator"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestValidateRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "new@test.com").Return(nil, repository.ErrUserNotFound)

	v := validator.NewAuthValidator(users)

	err := v.ValidateRegister(context.Background(), "new@test.com", "password1")
	assert.NoError(t, err)
}

func TestValidateRegister_BadEmail(t *testing.T) {
	v := validator.NewAuthValidator(new(MockUserRepository))

	for _, email := range []string{"", "not-an-email", "a@b", "a b@c.com"} {
		err := v.ValidateRegister(context.Background(), email, "password1")
		assert.ErrorIs(t, err, validator.ErrInvalidInput, "email=%q", email)
	}
}

func TestValidateRegister_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(MockUserRepository))

	err := v.ValidateRegister(context.Background(), "user@test.com", "short")
	assert.ErrorIs(t, err, validator.ErrInvalidInput)
}

func TestValidateRegister_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "taken@test.com").Return(&model.User{
		ID:    1,
		Email: "taken@test.com",
	}, nil)

	v := validator.NewAuthValidator(users)

	err := v.ValidateRegister(context.Background(), "taken@test.com", "password1")
	assert.ErrorIs(t, err, validator.ErrEmailAlreadyUsed)
}

func TestValidateRefresh_Empty(t *testing.T) {
	v := validator.NewAuthValidator(new(MockUserRepository))

	err := v.ValidateRefresh(context.Background(), "  ", "UA")
	assert.ErrorIs(t, err, validator.ErrInvalidRefresh)
}

func TestValidateForceLogout_InvalidID(t *testing.T) {
	v := validator.NewAuthValidator(new(MockUserRepository))

	assert.ErrorIs(t, v.ValidateForceLogout(context.Background(), 0), validator.ErrInvalidInput)
	assert.NoError(t, v.ValidateForceLogout(context.Background(), 1))
}
