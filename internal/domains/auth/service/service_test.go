package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"warehub/config"
	"warehub/infras/jwt"
	jwtMocks "warehub/infras/jwt/mocks"
	"warehub/infras/otel/mocks"
	"warehub/internal/domains/auth/model/dto"
	"warehub/internal/domains/auth/service"
	userMocks "warehub/internal/domains/user/mocks"
	userModel "warehub/internal/domains/user/model"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"
	gModel "warehub/shared/model"
	"warehub/shared/timezone"
)

// bcrypt of "password"
const hashedPassword = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func newUser() userModel.User {
	return userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hashedPassword,
		Role:     constant.RoleFarmer,
		FullName: stringPtr("Test User"),
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func setup(t *testing.T) (*userMocks.MockUser, *jwtMocks.MockJWT, service.Auth) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	return repo, jwtService, service.New(repo, &config.Config{}, mocks.NewOtel(), jwtService)
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "owner@warehub.test", Password: "password123", Role: constant.RoleOwner}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "registers owner",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, constant.RoleOwner, user.Role)
						assert.Equal(t, constant.ContextGuest, user.CreatedBy)
						assert.NotEqual(t, req.Password, user.Password)

						return nil
					})
			},
		},
		{
			name: "email taken",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "email taken concurrently",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (user): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation}))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "exist check fails",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := setup(t)
			tt.setupMock(repo)

			err := svc.Register(context.Background(), req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	validUser := newUser()
	pair := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtService.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, constant.RoleFarmer).
					Return(pair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, req, userModel.FieldLastLogin)
						assert.Equal(t, validUser.ID, req[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "nonexistent@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "lookup error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				inactiveUser := validUser
				inactiveUser.Active = false

				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(inactiveUser, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtService.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtService.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, jwtService, svc := setup(t)
			tt.setupMock(repo, jwtService)

			result, err := svc.Login(context.Background(), tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
			assert.Equal(t, validUser.ID, result.User.ID)
			assert.NotEmpty(t, result.User.LastLogin)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	validUser := newUser()
	claims := &jwt.Claims{UserID: validUser.ID, Email: validUser.Email, Role: constant.RoleOwner, Type: jwt.RefreshToken}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful token refresh uses current role",
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
				jwtService.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, constant.RoleFarmer).
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func(_ *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "user removed",
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "user deactivated",
			setupMock: func(repo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				inactive := validUser
				inactive.Active = false

				jwtService.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, jwtService, svc := setup(t)
			tt.setupMock(repo, jwtService)

			result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access-token", result.AccessToken)
			assert.Equal(t, "new-refresh-token", result.RefreshToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	validUser := newUser()

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "successful password change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (userModel.User, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, validUser.ID, args[userModel.FieldID])

						return validUser, nil
					})
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
						assert.NotEqual(t, "newpassword123", req[userModel.FieldPassword])
						assert.Equal(t, validUser.ID, req[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "lookup error",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update password error",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(validUser, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := setup(t)
			tt.setupMock(repo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, validUser.ID)

			err := svc.ChangePassword(ctx, tt.req)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
