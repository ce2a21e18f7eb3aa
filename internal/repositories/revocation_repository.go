package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevocationRepository is the access-token blacklist. Presence of a token
// makes it unusable; entries may be pruned once the token itself expires.
type RevocationRepository interface {
	// Revoke records token. Recording the same token twice is allowed.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// CleanupExpired removes entries whose tokens have expired and returns
	// how many were removed.
	CleanupExpired(ctx context.Context) (int64, error)
}

type revocationRepository struct {
	db DB
}

// NewRevocationRepository stores the blacklist in the revoked_tokens table.
func NewRevocationRepository(db DB) RevocationRepository {
	return &revocationRepository{db: db}
}

func (r *revocationRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (id, token, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), token, expiresAt)
	return err
}

func (r *revocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_tokens
			WHERE md5(token) = md5($1) AND token = $1
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, token).Scan(&exists)
	return exists, err
}

func (r *revocationRepository) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
