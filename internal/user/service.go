// File: internal/user/service.go
package user

import (
	"context"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, *shared.TokenResponse, error)
	Authenticate(ctx context.Context, email, password string) (*User, *shared.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*shared.TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error)
}

// ServiceImplementation implements the user Service interface.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	cfg          *config.Config
	logger       *zap.Logger
}

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger.Named("user-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// Register creates a new user account and issues an initial token pair.
func (s *ServiceImplementation) Register(ctx context.Context, req CreateUserRequest) (*User, *shared.TokenResponse, error) {
	cost := s.cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not process password.")
	}

	newUser := &User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         shared.RoleUser,
	}
	if req.FirstName != "" {
		newUser.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		newUser.LastName = &req.LastName
	}
	// First configured admin email gets the admin role on registration.
	if s.cfg.AdminBootstrapMail != "" && req.Email == s.cfg.AdminBootstrapMail {
		newUser.Role = shared.RoleAdmin
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(newUser)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered",
		zap.String("userID", newUser.ID.String()),
		zap.String("role", newUser.Role))
	newUser.Sanitize()
	return newUser, tokens, nil
}

// Authenticate verifies credentials and issues a token pair on success.
func (s *ServiceImplementation) Authenticate(ctx context.Context, email, password string) (*User, *shared.TokenResponse, error) {
	usr, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrNotFound.Code {
			// Same response as a bad password so the endpoint does not leak
			// which emails exist.
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Password mismatch on login", zap.String("userID", usr.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	usr.LastLoginAt = &now
	if err := s.repo.Update(ctx, usr); err != nil {
		// A failed last-login stamp should not block the login itself.
		s.logger.Warn("Failed to update last login timestamp", zap.Error(err))
	}

	tokens, err := s.issueTokens(usr)
	if err != nil {
		return nil, nil, err
	}

	usr.Sanitize()
	return usr, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (s *ServiceImplementation) RefreshToken(ctx context.Context, refreshToken string) (*shared.TokenResponse, error) {
	claims, err := s.tokenService.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token.")
	}

	usr, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("User for this token no longer exists.")
	}

	return s.issueTokens(usr)
}

// GetUserByID returns a single user.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	usr.Sanitize()
	return usr, nil
}

// UpdateProfile applies partial profile changes for a user.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		usr.FirstName = req.FirstName
	}
	if req.LastName != nil {
		usr.LastName = req.LastName
	}
	if req.PhoneNumber != nil {
		usr.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		usr.Address = req.Address
	}

	if err := s.repo.Update(ctx, usr); err != nil {
		return nil, err
	}

	usr.Sanitize()
	return usr, nil
}

func (s *ServiceImplementation) issueTokens(usr *User) (*shared.TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(usr)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}
	refreshToken, _, err := s.tokenService.GenerateRefreshToken(usr)
	if err != nil {
		return nil, common.ErrInternalServer.WithDetails("Could not generate refresh token.")
	}
	return &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// SharedServiceAdapter exposes user lookups through the shared.Service
// interface without leaking the repository model to other domains.
type SharedServiceAdapter struct {
	repo Repository
}

// NewSharedServiceAdapter creates a shared.Service backed by the user repository.
func NewSharedServiceAdapter(repo Repository) shared.Service {
	return &SharedServiceAdapter{repo: repo}
}

func (a *SharedServiceAdapter) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	usr, err := a.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSharedUser(usr), nil
}

func (a *SharedServiceAdapter) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	usr, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toSharedUser(usr), nil
}

func toSharedUser(usr *User) *shared.User {
	return &shared.User{
		ID:          usr.ID,
		Email:       usr.Email,
		FirstName:   usr.FirstName,
		LastName:    usr.LastName,
		Role:        usr.Role,
		CreatedAt:   usr.CreatedAt,
		UpdatedAt:   usr.UpdatedAt,
		LastLoginAt: usr.LastLoginAt,
	}
}
