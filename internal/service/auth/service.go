package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/pkg/auth"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/security"
)

// PermissionDeniedMessage is shown when a signed-in address is not on the allow-list.
const PermissionDeniedMessage = "Brak uprawnień: ten adres e-mail nie ma dostępu do panelu."

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAllowed         = errors.New("email not on allow-list")
	ErrRevoked            = errors.New("token revoked")
)

type Service struct {
	operators repository.OperatorRepository
	hasher    security.PasswordHasher
	jwtSvc    auth.JWTService
	allow     *AllowList
	// revoked holds "jti:<id>" for logged out tokens and "email:<addr>" with the
	// revocation time for forced sign-outs.
	revoked  *cache.Cache
	tokenTTL time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(
	operators repository.OperatorRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	allow *AllowList,
	tokenTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		operators: operators,
		hasher:    hasher,
		jwtSvc:    jwtSvc,
		allow:     allow,
		revoked:   cache.New(tokenTTL, 10*time.Minute),
		tokenTTL:  tokenTTL,
		logger:    log.With("auth"),
		now:       time.Now,
	}
}

func invalidCredentials() *apperrors.AppError {
	return &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: ErrInvalidCredentials.Error(), Err: ErrInvalidCredentials}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	op, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	if err := s.hasher.Compare(op.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}
	if s.hasher.NeedsRehash(op.PasswordHash) {
		s.rehash(ctx, op, password)
	}

	if !s.allow.Allowed(op.Email) {
		s.revokeEmail(op.Email)
		s.logger.Warn("Sign-in refused, email not on allow-list", "email", op.Email)
		return nil, apperrors.Forbidden(PermissionDeniedMessage, ErrNotAllowed)
	}

	token, claims, err := s.jwtSvc.GenerateAccessToken(op.ID.String(), op.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Operator signed in", "operator_id", op.ID.String())
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Operator:    op,
	}, nil
}

// Authorize validates a bearer token and re-checks allow-list membership.
// A token whose email has left the list is revoked on the spot.
func (s *Service) Authorize(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	if _, found := s.revoked.Get("jti:" + claims.ID); found {
		return nil, apperrors.Unauthorized(ErrRevoked)
	}
	if v, found := s.revoked.Get("email:" + normalizeEmail(claims.Email)); found {
		if at, ok := v.(time.Time); ok && claims.IssuedAt != nil && !claims.IssuedAt.Time.After(at) {
			return nil, apperrors.Unauthorized(ErrRevoked)
		}
	}

	if !s.allow.Allowed(claims.Email) {
		s.revokeToken(claims)
		return nil, apperrors.Forbidden(PermissionDeniedMessage, ErrNotAllowed)
	}

	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(claims *auth.Claims) {
	s.revokeToken(claims)
}

// Session returns the operator behind claims.
func (s *Service) Session(ctx context.Context, claims *auth.Claims) (*model.Operator, error) {
	id, err := uuid.Parse(claims.OperatorID)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	op, err := s.operators.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return op, nil
}

// CheckEmail reports allow-list membership without signing in.
func (s *Service) CheckEmail(email string) bool {
	return s.allow.Allowed(email)
}

// CreateOperator stores a new operator account with a hashed password.
func (s *Service) CreateOperator(ctx context.Context, email, displayName, password string) (*model.Operator, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	op := &model.Operator{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	if !s.allow.Allowed(email) {
		s.logger.Warn("Operator created but email is not on the allow-list", "email", email)
	}
	return op, nil
}

// rehash upgrades a stored hash after the configured cost changed. Failure
// only costs the upgrade, never the sign-in.
func (s *Service) rehash(ctx context.Context, op *model.Operator, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.operators.UpdatePassword(ctx, op.ID, hash)
	}
	if err != nil {
		s.logger.Warn("Password rehash failed", "operator_id", op.ID.String(), "error", err.Error())
		return
	}
	op.PasswordHash = hash
}

func (s *Service) revokeToken(claims *auth.Claims) {
	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Time.Sub(s.now()); left > 0 {
			ttl = left
		}
	}
	s.revoked.Set("jti:"+claims.ID, struct{}{}, ttl)
}

func (s *Service) revokeEmail(email string) {
	s.revoked.Set("email:"+normalizeEmail(email), s.now(), s.tokenTTL)
}
