package db

import (
	"context"
	"time"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (db *Postgres) InsertRefreshToken(ctx context.Context, userID uuid.UUID, tokenValue string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := db.Pool.Exec(ctx, query, tokenValue, userID, expiresAt)
	return err
}

func (db *Postgres) GetRefreshToken(ctx context.Context, tokenValue string) (*model.RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, tokenValue).Scan(
		&token.ID,
		&token.Token,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteRefreshToken removes a token row and reports how many rows were
// deleted. Zero means the token was already gone; callers must not treat
// that as a successful redemption.
func (db *Postgres) DeleteRefreshToken(ctx context.Context, tokenValue string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenValue)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RotateRefreshToken redeems oldToken and persists newToken in one
// transaction. If the old row is already gone (concurrent redemption or
// replay) the transaction aborts with pgx.ErrNoRows and nothing is
// inserted, so a given token value can never be redeemed twice.
func (db *Postgres) RotateRefreshToken(ctx context.Context, oldToken string, userID uuid.UUID, newToken string, expiresAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, newToken, userID, expiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteExpiredRefreshTokens is invoked by the hourly sweep. It is safe
// to run alongside login/refresh traffic: rows are independent and the
// expiry predicate commutes with other deletes.
func (db *Postgres) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
