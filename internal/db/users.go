package db

import (
	"context"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

const userColumns = `id, email, password, name, google_id, email_verified, image, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.GoogleID,
		&user.EmailVerified,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type NewUser struct {
	Email         string
	PasswordHash  *string
	Name          *string
	GoogleID      *string
	EmailVerified bool
	Image         *string
}

func (db *Postgres) CreateUser(ctx context.Context, u NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (email, password, name, google_id, email_verified, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.GoogleID, u.EmailVerified, u.Image))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

// GetUserByEmailOrGoogleID matches a federated login against existing
// accounts: either the provider-asserted email or a previously linked
// google id identifies the user.
func (db *Postgres) GetUserByEmailOrGoogleID(ctx context.Context, email, googleID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR google_id = $2`
	return scanUser(db.Pool.QueryRow(ctx, query, email, googleID))
}

// LinkGoogleAccount attaches a google id to an existing password-based
// account on first federated login.
func (db *Postgres) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, emailVerified bool, image *string) (*model.User, error) {
	query := `
		UPDATE users
		SET google_id = $2,
		    email_verified = email_verified OR $3,
		    image = COALESCE($4, image),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, googleID, emailVerified, image))
}
