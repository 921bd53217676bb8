package postgres

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

// IdentityRepository stores authenticatable accounts and their password reset tokens.
type IdentityRepository struct {
	db           *Connection
	resetBaseURL string
	resetTTL     time.Duration
}

func NewIdentityRepository(db *Connection, resetBaseURL string, resetTTL time.Duration) *IdentityRepository {
	return &IdentityRepository{
		db:           db,
		resetBaseURL: resetBaseURL,
		resetTTL:     resetTTL,
	}
}

func (r *IdentityRepository) Create(ctx context.Context, params model.NewIdentity) (model.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := params.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `INSERT INTO identities (id, email, display_name, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, email, display_name, created_at`

	var identity model.Identity
	err = r.db.QueryRow(ctx, query,
		id, normalizeEmail(params.Email), params.DisplayName, hash,
	).Scan(&identity.ID, &identity.Email, &identity.DisplayName, &identity.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Identity{}, model.ErrAlreadyExists
		}
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// GeneratePasswordResetLink issues a single reset token for the identity with
// the given email. Only the token hash is persisted.
func (r *IdentityRepository) GeneratePasswordResetLink(ctx context.Context, email string) (string, error) {
	var identityID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM identities WHERE email = $1`, normalizeEmail(email)).Scan(&identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get identity by email: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}

	query := `INSERT INTO password_reset_tokens (token_hash, identity_id, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, hashResetToken(token), identityID, time.Now().Add(r.resetTTL)); err != nil {
		return "", fmt.Errorf("failed to store password reset token: %w", err)
	}

	return resetLink(r.resetBaseURL, token)
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashResetToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func resetLink(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse reset base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
