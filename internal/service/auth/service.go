// Package auth registers and signs in accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/postgres"
	pkgauth "github.com/iamasit07/tic-tac-toe/backend/pkg/auth"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidNickname    = errors.New("nickname must be between 2 and 32 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password too weak")
	ErrAccountExists      = errors.New("nickname or email already taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type UserStore interface {
	CreateUser(ctx context.Context, nickname, email, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetUserByID(ctx context.Context, userID int64) (*domain.Account, error)
}

type Service struct {
	users      UserStore
	tokens     *pkgauth.TokenIssuer
	bcryptCost int
	log        *zap.SugaredLogger
}

func NewService(users UserStore, tokens *pkgauth.TokenIssuer, bcryptCost int, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost, log: logger}
}

// Register creates an account with a zeroed stats record and signs it in.
func (s *Service) Register(ctx context.Context, nickname, email, password string) (*domain.Account, string, error) {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 32 {
		return nil, "", ErrInvalidNickname
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hash, err := pkgauth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.CreateUser(ctx, nickname, email, hash)
	if errors.Is(err, postgres.ErrDuplicateAccount) {
		return nil, "", ErrAccountExists
	}
	if err != nil {
		return nil, "", err
	}

	account := &domain.Account{ID: userID, Nickname: nickname, Email: email}
	token, err := s.tokens.GenerateAccessToken(userID, nickname)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	s.log.Infow("[AUTH] account registered", "user", userID, "nickname", nickname)
	return account, token, nil
}

// Login checks the password and issues a fresh access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if account == nil || !pkgauth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(account.ID, account.Nickname)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	s.log.Infow("[AUTH] login", "user", account.ID)
	return account, token, nil
}

// Authenticate validates an access token.
func (s *Service) Authenticate(token string) (*pkgauth.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) Account(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.users.GetUserByID(ctx, userID)
}
