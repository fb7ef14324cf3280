package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest(userRepo *stubUserRepo, sessionRepo *stubAuthSessionRepo) *authService {
	uow := &stubUow{userRepo: userRepo, authSessionRepo: sessionRepo}
	return &authService{
		uowFactory:     stubFactory{uow: uow},
		sessionService: &stubSessionService{},
		userCache:      memory.NewUserCache(time.Minute, time.Minute),
		emailService:   nopMailer{},
		logger:         nopLogger{},
		cfg: config.AuthConfig{
			JwtSecret:          "test-secret",
			AccessTokenTTLMin:  15,
			RefreshTokenTTLDay: 30,
			BcryptCost:         bcrypt.MinCost,
		},
	}
}

func TestSignupCreatesVerifiedUser(t *testing.T) {
	userRepo := &stubUserRepo{}
	sessionRepo := &stubAuthSessionRepo{}
	svc := newAuthServiceForTest(userRepo, sessionRepo)

	res, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Email:    "new@uigen.local",
		Password: "longenough",
		Name:     "New User",
	})
	require.NoError(t, err)
	require.NotNil(t, userRepo.created)

	// There is no confirmation step, so the account must be born verified.
	assert.True(t, userRepo.created.IsVerified)
	assert.True(t, res.User.IsVerified)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	require.Len(t, sessionRepo.sessions, 1)
	assert.Equal(t, userRepo.created.Id, sessionRepo.sessions[0].UserId)

	err = bcrypt.CompareHashAndPassword([]byte(userRepo.created.PasswordHash), []byte("longenough"))
	assert.NoError(t, err)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	userRepo := &stubUserRepo{users: []*entity.User{
		{Id: uuid.New(), Email: "taken@uigen.local", IsVerified: true},
	}}
	svc := newAuthServiceForTest(userRepo, &stubAuthSessionRepo{})

	_, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Email:    "taken@uigen.local",
		Password: "longenough",
		Name:     "Second User",
	})
	require.Error(t, err)
	assert.Nil(t, userRepo.created)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, serverutils.CodeConflict, appErr.Code)
}
