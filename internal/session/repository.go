package session

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
)

const (
	keyToken   = "auth_token"
	keyProfile = "user_profile"
)

// Repository persists the session in the local sqlite store as key/value
// rows. There are no concurrent writers: the token is written on OTP
// verification and deleted on logout.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveSession(ctx context.Context, s *Session) error {
	if err := r.set(ctx, keyToken, s.Token); err != nil {
		return err
	}

	data, err := json.Marshal(s.Profile)
	if err != nil {
		return err
	}
	return r.set(ctx, keyProfile, string(data))
}

// LoadSession returns the persisted session, or nil when no one is logged
// in. A missing profile row is tolerated; a missing token is not a session.
func (r *Repository) LoadSession(ctx context.Context) (*Session, error) {
	token, err := r.get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	s := &Session{Token: token}

	raw, err := r.get(ctx, keyProfile)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Profile); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyProfile)
	return err
}

func (r *Repository) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}

func (r *Repository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM session WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
