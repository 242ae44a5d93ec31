package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/RicardoValus/tasks-project/internal/store"
	"github.com/RicardoValus/tasks-project/types"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL matches the source system: tokens always expire.
const DefaultTokenTTL = 2 * time.Hour

const tokenBytes = 32 // 256 bits, rendered as 64 hex chars

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match. Callers must not distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a presented token is unknown or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenRepository defines persistence operations for bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token types.Token) (types.Token, error)
	GetByValue(ctx context.Context, value string) (types.Token, error)
}

// AuthService issues and validates bearer tokens.
type AuthService struct {
	users  UserRepository
	tokens TokenRepository
	now    func() time.Time
	ttl    time.Duration
}

func NewAuthService(users UserRepository, tokens TokenRepository, now func() time.Time, ttl time.Duration) *AuthService {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{users: users, tokens: tokens, now: now, ttl: ttl}
}

// Login verifies the credentials and, on success, mints and persists a fresh
// random token. Every successful call produces a distinct token; there is no
// cap on live tokens per user.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.Token, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Token{}, ErrInvalidCredentials
		}
		return types.Token{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.Token{}, ErrInvalidCredentials
	}

	value, err := generateToken()
	if err != nil {
		return types.Token{}, err
	}

	now := s.now()
	token := types.Token{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	return s.tokens.Create(ctx, token)
}

// Authenticate resolves an opaque token string to its owning user id.
// A token is valid only while expires_at is strictly in the future.
func (s *AuthService) Authenticate(ctx context.Context, value string) (int, error) {
	token, err := s.tokens.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	if !token.ExpiresAt.After(s.now()) {
		return 0, ErrInvalidToken
	}

	return token.UserID, nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
