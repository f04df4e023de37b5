// Package service contains application services for authentication and cases.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/harmwatch/server/internal/crypto"
	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/limiter"
	"github.com/harmwatch/server/internal/model"
	"github.com/harmwatch/server/internal/repository"
)

// DefaultTokenTTL is the credential lifetime used when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// AuthService defines account registration and credential operations.
type AuthService interface {
	// Register creates a new viewer account and issues a credential.
	Register(ctx context.Context, username, email, password string) (model.User, string, error)
	// Login authenticates by email/password with rate limiting by (email, ip).
	Login(ctx context.Context, email, password, ip string) (model.User, string, error)
	// Verify validates a bearer token and resolves it to the stored user.
	Verify(ctx context.Context, token string) (*model.User, error)
}

// Claims is the credential payload: subject carries the user ID.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	signKey  []byte
	tokenTTL time.Duration
	hashCost int
	lim      limiter.Limiter

	now func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, tokenTTL time.Duration, hashCost int, lim limiter.Limiter) *AuthServiceImpl {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthServiceImpl{
		users:    users,
		signKey:  signKey,
		tokenTTL: tokenTTL,
		hashCost: hashCost,
		lim:      lim,
		now:      time.Now,
	}
}

// Register creates a new user with a hashed password and issues a credential.
// Duplicate emails surface as errs.ErrAlreadyExists; the check runs inside
// the repository under the collection lock.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (model.User, string, error) {
	if username == "" || email == "" || password == "" {
		return model.User{}, "", errs.Validation("Username, email, and password are required")
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, "", err
	}
	hash, err := pkgcrypto.HashPassword(password, s.hashCost)
	if err != nil {
		return model.User{}, "", err
	}

	now := s.now().UTC()
	u := &model.User{
		ID:                uid,
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Role:              model.RoleViewer,
		ContributionScore: 0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, "", err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return model.User{}, "", err
	}
	return u.Public(), token, nil
}

// Login authenticates with rate limiting by (email, ip). Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.User, string, error) {
	if email == "" || password == "" {
		return model.User{}, "", errs.Validation("Email and password are required")
	}

	ipHash := limiter.HashIP(ip)
	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.User{}, "", err
	}
	if !allowed {
		return model.User{}, "", errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.User{}, "", errs.ErrRateLimited
		}
		return model.User{}, "", errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	token, err := s.issueToken(u)
	if err != nil {
		return model.User{}, "", err
	}
	return u.Public(), token, nil
}

// Verify parses and validates a bearer token and resolves the subject to an
// existing user. Any failure is errs.ErrUnauthorized.
func (s *AuthServiceImpl) Verify(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errs.ErrUnauthorized
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	uid, err := uuid.FromString(claims.Subject)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// issueToken creates a signed HS256 JWT encoding {id, email, role}.
func (s *AuthServiceImpl) issueToken(u *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}
