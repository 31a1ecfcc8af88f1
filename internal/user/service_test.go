package user

import (
	"context"
	"errors"
	"testing"

	"messmate/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role, hostelRoom string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, hostelRoom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           RegisterRequest
		setupMock     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful registration",
			req: RegisterRequest{
				Name:       "Test Student",
				Email:      "student@hostel.edu",
				Password:   "password123",
				HostelRoom: "B-214",
			},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "student@hostel.edu").Return(false, nil)
				m.On("Create", mock.Anything, "Test Student", "student@hostel.edu", mock.Anything, RoleStudent, "B-214").Return(&User{
					ID:         1,
					Name:       "Test Student",
					Email:      "student@hostel.edu",
					Role:       RoleStudent,
					HostelRoom: "B-214",
				}, nil)
			},
			expectError: false,
		},
		{
			name: "email already exists",
			req: RegisterRequest{
				Name:     "Test Student",
				Email:    "existing@hostel.edu",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "existing@hostel.edu").Return(true, nil)
			},
			expectError:   true,
			expectedError: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			service := NewService(mockRepo, "test-secret")
			user, accessToken, refreshToken, err := service.Register(context.Background(), tt.req)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedError != nil {
					assert.Equal(t, tt.expectedError, err)
				}
				assert.Nil(t, user)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, RoleStudent, user.Role)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name          string
		req           LoginRequest
		setupMock     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful login",
			req: LoginRequest{
				Email:    "student@hostel.edu",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				// Generate a proper password hash for "password123"
				passwordHash, _ := auth.HashPassword("password123")
				m.On("FindByEmail", mock.Anything, "student@hostel.edu").Return(&User{
					ID:           1,
					Email:        "student@hostel.edu",
					PasswordHash: passwordHash,
					Role:         RoleStudent,
				}, nil)
			},
			expectError: false,
		},
		{
			name: "user not found",
			req: LoginRequest{
				Email:    "notfound@hostel.edu",
				Password: "password123",
			},
			setupMock: func(m *MockRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@hostel.edu").Return(nil, errors.New("not found"))
			},
			expectError:   true,
			expectedError: ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req: LoginRequest{
				Email:    "student@hostel.edu",
				Password: "wrong-password",
			},
			setupMock: func(m *MockRepository) {
				passwordHash, _ := auth.HashPassword("password123")
				m.On("FindByEmail", mock.Anything, "student@hostel.edu").Return(&User{
					ID:           1,
					Email:        "student@hostel.edu",
					PasswordHash: passwordHash,
					Role:         RoleStudent,
				}, nil)
			},
			expectError:   true,
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			service := NewService(mockRepo, "test-secret")
			user, accessToken, refreshToken, err := service.Login(context.Background(), tt.req)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedError != nil {
					assert.Equal(t, tt.expectedError, err)
				}
				assert.Nil(t, user)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_GetByID(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindByID", mock.Anything, 1).Return(&User{
		ID:    1,
		Name:  "Test Student",
		Email: "student@hostel.edu",
		Role:  RoleStudent,
	}, nil)

	service := NewService(mockRepo, "test-secret")
	user, err := service.GetByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_RefreshToken(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindByID", mock.Anything, 1).Return(&User{
		ID:    1,
		Email: "student@hostel.edu",
		Role:  RoleStudent,
	}, nil)

	service := NewService(mockRepo, "test-secret")

	refreshToken, err := auth.GenerateRefreshToken(1, "student@hostel.edu", RoleStudent, "test-secret")
	assert.NoError(t, err)

	accessToken, user, err := service.RefreshToken(context.Background(), refreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, 1, user.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_RefreshToken_RejectsAccessToken(t *testing.T) {
	service := NewService(new(MockRepository), "test-secret")

	accessToken, err := auth.GenerateAccessToken(1, "student@hostel.edu", RoleStudent, "test-secret")
	assert.NoError(t, err)

	_, _, err = service.RefreshToken(context.Background(), accessToken)
	assert.Error(t, err)
}
