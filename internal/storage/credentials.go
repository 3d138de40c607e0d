// Package storage keeps signed-in sessions in a local SQLite database, one
// row per profile.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"expensedash/internal/credentials"
	applog "expensedash/internal/log"
)

// ErrNotFound is returned when a profile has no saved credential.
var ErrNotFound = errors.New("credential not found")

// Credential is a saved login.
type Credential struct {
	Profile  string
	Token    string
	UserID   string
	Username string
	SavedAt  time.Time
}

type CredentialStore struct {
	db     *sql.DB
	logger *applog.Logger
}

func NewCredentialStore(dbPath string, logger *applog.Logger) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = applog.Discard()
	}
	return &CredentialStore{db: db, logger: logger.WithComponent(applog.ComponentStorage)}, nil
}

func (s *CredentialStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save stores c, replacing any credential already saved for the profile.
func (s *CredentialStore) Save(ctx context.Context, c Credential) error {
	if strings.TrimSpace(c.Profile) == "" {
		return errors.New("profile is required")
	}
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("token is required")
	}
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (profile, token, user_id, username, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			username = excluded.username,
			saved_at = excluded.saved_at`,
		c.Profile, c.Token, c.UserID, c.Username, c.SavedAt.Unix())
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	s.logger.InfoContext(ctx, "Credential saved",
		applog.FieldProfile, c.Profile,
		applog.FieldOperation, applog.OpCreate)
	return nil
}

func (s *CredentialStore) Load(ctx context.Context, profile string) (Credential, error) {
	var (
		c       Credential
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT profile, token, user_id, username, saved_at FROM credentials WHERE profile = ?`,
		profile,
	).Scan(&c.Profile, &c.Token, &c.UserID, &c.Username, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	if err != nil {
		return Credential{}, fmt.Errorf("load credential: %w", err)
	}
	c.SavedAt = time.Unix(savedAt, 0)
	return c, nil
}

// Delete removes the profile's credential. Deleting a missing profile is not an error.
func (s *CredentialStore) Delete(ctx context.Context, profile string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.logger.InfoContext(ctx, "Credential deleted",
		applog.FieldProfile, profile,
		applog.FieldOperation, applog.OpDelete)
	return nil
}

// List returns every saved credential ordered by profile name.
func (s *CredentialStore) List(ctx context.Context) ([]Credential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile, token, user_id, username, saved_at FROM credentials ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	out := []Credential{}
	for rows.Next() {
		var (
			c       Credential
			savedAt int64
		)
		if err := rows.Scan(&c.Profile, &c.Token, &c.UserID, &c.Username, &savedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		c.SavedAt = time.Unix(savedAt, 0)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}

// Provider returns a credentials.Provider reading the profile's token on
// every call, so a later login or logout is picked up.
func (s *CredentialStore) Provider(profile string) credentials.Provider {
	return credentials.ProviderFunc(func(ctx context.Context) (string, error) {
		c, err := s.Load(ctx, profile)
		if errors.Is(err, ErrNotFound) {
			return "", credentials.ErrNoCredential
		}
		if err != nil {
			return "", err
		}
		return c.Token, nil
	})
}
