package services

//go:generate mockgen -source=auth.go -destination=auth_mock_test.go -package=services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
	"github.com/sbilibin2017/gw-app-reviews/internal/passwords"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.UserDB) (bool, error)
	UpdatePassword(ctx context.Context, username, password string) error
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, subject string) (string, error)
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithPasswordHasher replaces the hash function used for new passwords.
func WithPasswordHasher(hash func(password string) (string, error)) AuthOption {
	return func(s *AuthService) { s.hash = hash }
}

// WithClock replaces the clock used for creation timestamps.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// AuthService handles registration, credential checks and token issuance.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    JWTGenerator
	hash   func(password string) (string, error)
	now    func() time.Time
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, opts ...AuthOption) *AuthService {
	svc := &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		hash:   passwords.Hash,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register stores a new user and returns its id.
func (svc *AuthService) Register(ctx context.Context, username, password string) (uuid.UUID, error) {
	hashed, err := svc.hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return uuid.Nil, err
	}

	user := models.UserDB{
		ID:        uuid.New(),
		Username:  username,
		Password:  hashed,
		CreatedAt: models.FormatTimestamp(svc.now()),
	}

	created, err := svc.writer.Save(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return uuid.Nil, err
	}
	if !created {
		logger.Log.Warnw("user already exists", "username", username)
		return uuid.Nil, ErrUserAlreadyExists
	}

	return user.ID, nil
}

// Verify reports whether password matches the stored credentials of username.
// A successful check against an outdated hash scheme upgrades the stored hash.
func (svc *AuthService) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return false, err
	}
	if user == nil {
		return false, nil
	}

	ok, err := passwords.Verify(password, user.Password)
	if err != nil {
		logger.Log.Errorw("stored password hash is unusable", "username", username, "err", err)
		return false, nil
	}
	if !ok {
		return false, nil
	}

	if passwords.NeedsRehash(user.Password) {
		svc.upgradeHash(ctx, username, password)
	}
	return true, nil
}

func (svc *AuthService) upgradeHash(ctx context.Context, username, password string) {
	hashed, err := svc.hash(password)
	if err != nil {
		logger.Log.Errorw("failed to rehash password", "username", username, "err", err)
		return
	}
	if err := svc.writer.UpdatePassword(ctx, username, hashed); err != nil {
		logger.Log.Errorw("failed to upgrade password hash", "username", username, "err", err)
		return
	}
	logger.Log.Infow("password hash upgraded", "username", username)
}

// Login authenticates a user and returns a JWT token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := svc.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		logger.Log.Warnw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	return svc.IssueToken(ctx, username)
}

// IssueToken returns an access token for subject.
func (svc *AuthService) IssueToken(ctx context.Context, subject string) (string, error) {
	token, err := svc.jwt.Generate(ctx, subject)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}
