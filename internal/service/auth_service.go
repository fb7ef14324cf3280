package service

import (
	"context"
	"time"

	"ai-uigen-be/internal/config"
	"ai-uigen-be/internal/dto"
	"ai-uigen-be/internal/entity"
	"ai-uigen-be/internal/pkg/logger"
	"ai-uigen-be/internal/pkg/mailer"
	"ai-uigen-be/internal/pkg/serverutils"
	"ai-uigen-be/internal/repository/memory"
	"ai-uigen-be/internal/repository/specification"
	"ai-uigen-be/internal/repository/unitofwork"
	"ai-uigen-be/pkg/events"
	pktNats "ai-uigen-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, userId, sessionId uuid.UUID) error
	Verify(ctx context.Context, userId uuid.UUID) (*dto.VerifyResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	userCache      *memory.UserCache
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	cfg            config.AuthConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	userCache *memory.UserCache,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	cfg config.AuthConfig,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		userCache:      userCache,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
		cfg:            cfg,
	}
}

func (s *authService) signAccessToken(user *entity.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.AccessTokenTTLMin) * time.Minute)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	return signed, expiresAt, err
}

func (s *authService) signRefreshToken(user *entity.User, sessionId uuid.UUID) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDay) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"user_id":    user.Id.String(),
		"session_id": sessionId.String(),
		"type":       "refresh",
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	return signed, expiresAt, err
}

func (s *authService) issueSession(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, deviceInfo *string) (*dto.AuthResponse, error) {
	accessToken, accessExp, err := s.signAccessToken(user)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	sessionId := uuid.New()
	refreshToken, refreshExp, err := s.signRefreshToken(user, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	session := entity.AuthSession{
		Id:           sessionId,
		UserId:       user.Id,
		RefreshToken: refreshToken,
		ExpiresAt:    refreshExp,
		DeviceInfo:   deviceInfo,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := uow.AuthSessionRepository().Create(ctx, &session); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	s.sessionService.CacheSession(ctx, &session)

	return &dto.AuthResponse{
		User:         toProfileResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionId:    session.Id,
		ExpiresAt:    accessExp,
	}, nil
}

func toProfileResponse(user *entity.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		Id:         user.Id,
		Email:      user.Email,
		Name:       user.Name,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail(req.Email))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if existing != nil {
		return nil, serverutils.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	// No email confirmation flow: accounts are usable immediately.
	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		IsVerified:   true,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	res, err := s.issueSession(ctx, uow, &user, nil)
	if err != nil {
		return nil, err
	}

	// Welcome email is best effort, never blocks the signup response.
	go func(email, name string) {
		if err := s.emailService.SendWelcome(email, name); err != nil {
			s.logger.Warn("auth", "Welcome email failed", map[string]interface{}{"error": err.Error()})
		}
	}(user.Email, user.Name)

	return res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.findUserByEmail(ctx, uow, req.Email)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if user == nil {
		return nil, serverutils.NewUnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.NewUnauthorizedError("Invalid email or password")
	}

	res, err := s.issueSession(ctx, uow, user, req.DeviceInfo)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewUserLoginEvent(user.Id, user.Email)); err != nil {
			s.logger.Warn("auth", "Failed to publish login event", map[string]interface{}{"error": err.Error()})
		}
	}

	return res, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, serverutils.NewUnauthorizedError("Invalid or expired refresh token")
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return nil, serverutils.NewUnauthorizedError("Not a refresh token")
	}

	sessionIdStr, _ := claims["session_id"].(string)
	sessionId, err := uuid.Parse(sessionIdStr)
	if err != nil {
		return nil, serverutils.NewUnauthorizedError("Invalid refresh token claims")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.AuthSessionRepository().FindOne(ctx, specification.ByID(sessionId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if session == nil || !session.IsActive || session.Expired(time.Now()) {
		return nil, serverutils.NewUnauthorizedError("Session expired or revoked")
	}
	if session.RefreshToken != req.RefreshToken {
		// An old token for this session means it was already rotated.
		return nil, serverutils.NewUnauthorizedError("Refresh token superseded")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID(session.UserId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if user == nil {
		return nil, serverutils.NewUnauthorizedError("Account no longer exists")
	}

	accessToken, accessExp, err := s.signAccessToken(user)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}

	// Rotate the refresh token: the old one stops working immediately.
	newRefresh, refreshExp, err := s.signRefreshToken(user, session.Id)
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	session.RefreshToken = newRefresh
	session.ExpiresAt = refreshExp
	if err := uow.AuthSessionRepository().Update(ctx, session); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	s.sessionService.CacheSession(ctx, session)

	return &dto.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userId, sessionId uuid.UUID) error {
	return s.sessionService.RevokeSession(ctx, userId, sessionId)
}

func (s *authService) Verify(ctx context.Context, userId uuid.UUID) (*dto.VerifyResponse, error) {
	user, err := s.findUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{
		Valid:  true,
		UserId: user.Id,
		Email:  user.Email,
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	user, err := s.findUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	res := toProfileResponse(user)
	return &res, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID(userId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}

	user.Name = req.Name
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	s.userCache.Invalidate(user)

	res := toProfileResponse(user)
	return &res, nil
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID(userId))
	if err != nil {
		return serverutils.NewInternalError(err)
	}
	if user == nil {
		return serverutils.NewNotFoundError("User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return serverutils.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return serverutils.NewInternalError(err)
	}
	user.PasswordHash = string(hash)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return serverutils.NewInternalError(err)
	}
	s.userCache.Invalidate(user)

	// Every existing session is revoked, clients must log in again with
	// the new password.
	if _, err := s.sessionService.RevokeAllExcept(ctx, userId, uuid.Nil); err != nil {
		s.logger.Warn("auth", "Failed to revoke sessions after password change", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *authService) findUserById(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	if cached, ok := s.userCache.GetById(userId); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID(userId))
	if err != nil {
		return nil, serverutils.NewInternalError(err)
	}
	if user == nil {
		return nil, serverutils.NewNotFoundError("User not found")
	}
	s.userCache.SetById(user)
	return user, nil
}

func (s *authService) findUserByEmail(ctx context.Context, uow unitofwork.UnitOfWork, email string) (*entity.User, error) {
	if cached, ok := s.userCache.GetByEmail(email); ok {
		return cached, nil
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail(email))
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.userCache.SetByEmail(user)
	}
	return user, nil
}
