package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RicardoValus/tasks-project/types"
)

// TokenRepository handles persistence for bearer tokens.
type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token types.Token) (types.Token, error) {
	const query = `
		INSERT INTO tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID); err != nil {
		return types.Token{}, err
	}
	return token, nil
}

// GetByValue fetches the row for an opaque token string. Expiry is not
// checked here; the caller compares ExpiresAt against its own clock.
func (r *TokenRepository) GetByValue(ctx context.Context, value string) (types.Token, error) {
	const query = `
		SELECT id, user_id, token, expires_at, created_at
		FROM tokens
		WHERE token = $1`
	var token types.Token
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Token{}, ErrNotFound
		}
		return types.Token{}, err
	}
	return token, nil
}
