package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/pkg/database"
)

// CredentialStore keeps the delegated credential as an opaque JSONB document
// in users.google_tokens. The column is never selected by profile reads.
type CredentialStore struct {
	db  database.DBTX
	now func() time.Time
}

// NewCredentialStore creates a new PostgreSQL-backed credential store.
func NewCredentialStore(db database.DBTX) *CredentialStore {
	return &CredentialStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the stored credential, or nil when none is stored.
func (s *CredentialStore) Get(ctx context.Context, userID string) (_ *domain.Credential, err error) {
	query := `SELECT google_tokens FROM users WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetCredential", query)
	defer func() { end(err) }()

	var raw []byte
	if err = s.db.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var cred domain.Credential
	if err = json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	return &cred, nil
}

// Save upserts the credential. A user row is created when the callback
// arrives before any profile sync.
func (s *CredentialStore) Save(ctx context.Context, userID string, cred *domain.Credential) (err error) {
	query := `
		INSERT INTO users (id, google_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET
			google_tokens = EXCLUDED.google_tokens,
			updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "SaveCredential", query)
	defer func() { end(err) }()

	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if _, err = s.db.Exec(ctx, query, userID, raw, s.now()); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent one is not an error.
func (s *CredentialStore) Clear(ctx context.Context, userID string) (err error) {
	query := `UPDATE users SET google_tokens = NULL, updated_at = $1 WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "ClearCredential", query)
	defer func() { end(err) }()

	if _, err = s.db.Exec(ctx, query, s.now(), userID); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
