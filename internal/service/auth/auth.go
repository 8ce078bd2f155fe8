// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kynix-service/internal/domain/auth"
	xerrors "kynix-service/internal/pkg/errors"
	"kynix-service/internal/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
)

// Defaults for self-registered users.
const (
	defaultRole = "user"
)

var defaultPermissions = []string{"read"}

// AccountStore is the authoritative account source consumed by the service.
type AccountStore interface {
	FindByID(ctx context.Context, id int64) (*auth.Account, error)
	FindByEmail(ctx context.Context, email string) (*auth.Account, error)
	Create(ctx context.Context, a *auth.Account) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

type AuthService struct {
	accounts AccountStore
	tokens   *token.Manager
	logger   *zap.Logger
}

func NewAuthService(accounts AccountStore, tokens *token.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account with the default role and permission set
// and issues its first token.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.AuthResponse, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &auth.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         defaultRole,
		Permissions:  defaultPermissions,
		IsActive:     true,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account registered",
		zap.Int64("user_id", account.ID),
		zap.String("email", account.Email),
	)

	return s.issueFor(account)
}

// Login authenticates credentials against the account store and issues a
// token carrying the stored role, permissions and activity flag.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthResponse, error) {
	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Int64("user_id", account.ID), zap.Error(err))
	}

	return s.issueFor(account)
}

// Refresh re-establishes a session from an expired-but-signed token. Only
// the user id is taken from the old token; role, permissions and the active
// flag are re-read from the store so stale authorization data is never
// propagated by a re-sign.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (*auth.AuthResponse, error) {
	claims, err := s.tokens.Verifier.DecodeExpired(tokenString)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueFor(account)
}

// ValidateToken verifies a token and returns its claims. Pure check; the
// authorization policy decides what the claims may do.
func (s *AuthService) ValidateToken(tokenString string) (*token.Claims, error) {
	return s.tokens.Verifier.Verify(tokenString)
}

// GetProfile returns the current account from the store.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*auth.Account, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return account, nil
}

func (s *AuthService) issueFor(account *auth.Account) (*auth.AuthResponse, error) {
	claims := &token.Claims{
		UserID:      account.ID,
		Email:       account.Email,
		Role:        account.Role,
		Permissions: account.Permissions,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		IsActive:    account.IsActive,
	}

	signed, err := s.tokens.Generator.Issue(claims, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &auth.AuthResponse{
		Token: signed,
		User: auth.UserPayload{
			ID:          account.ID,
			Email:       account.Email,
			Role:        account.Role,
			Permissions: account.Permissions,
			FirstName:   account.FirstName,
			LastName:    account.LastName,
			IsActive:    account.IsActive,
			LoginTime:   time.Now().UTC(),
		},
	}, nil
}
