package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.uber.org/zap"
)

// PostgresSchema creates the profile table. Handles live in a JSONB object
// keyed by platform name.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		uid          TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		avatar_url   TEXT NOT NULL DEFAULT '',
		handles      JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// PostgresStore is the raw-SQL profile store.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}

	query := `
		SELECT uid, display_name, avatar_url, handles, created_at, updated_at
		FROM user_profiles
		WHERE uid = $1
	`
	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, uid))
	if err == sql.ErrNoRows {
		return nil, errors.NewProfileNotFoundError(uid)
	}
	if err != nil {
		return nil, errors.NewServiceError("profile lookup failed", "profile", "get", err)
	}
	return profile, nil
}

func (s *PostgresStore) UpdateUserProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewServiceError("failed to begin transaction", "profile", "update", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT uid, display_name, avatar_url, handles, created_at, updated_at
		FROM user_profiles
		WHERE uid = $1
		FOR UPDATE
	`
	profile, err := scanProfile(tx.QueryRowContext(ctx, selectQuery, uid))
	if err == sql.ErrNoRows {
		return nil, errors.NewProfileNotFoundError(uid)
	}
	if err != nil {
		return nil, errors.NewServiceError("profile lookup failed", "profile", "update", err)
	}

	update.Apply(profile)
	profile.UpdatedAt = time.Now().UTC()

	handlesJSON, err := marshalHandles(profile.Handles)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE user_profiles
		SET display_name = $2, avatar_url = $3, handles = $4, updated_at = $5
		WHERE uid = $1
	`
	if _, err := tx.ExecContext(ctx, updateQuery, uid, profile.DisplayName, profile.AvatarURL, handlesJSON, profile.UpdatedAt); err != nil {
		return nil, errors.NewServiceError("profile update failed", "profile", "update", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewServiceError("failed to commit transaction", "profile", "update", err)
	}

	s.logger.Info("Profile updated", zap.String("uid", uid), zap.Int("handles", len(profile.Handles)))
	return profile, nil
}

func (s *PostgresStore) EnsureProfile(ctx context.Context, uid, displayName, avatarURL string) (*domain.UserProfile, error) {
	if err := validateUID(uid); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO user_profiles (uid, display_name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, uid, displayName, avatarURL)
	if err != nil {
		return nil, errors.NewServiceError("profile create failed", "profile", "ensure", err)
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		s.logger.Info("Profile created", zap.String("uid", uid))
	}

	return s.GetUserProfile(ctx, uid)
}

func scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var (
		profile     domain.UserProfile
		handlesJSON []byte
	)
	if err := row.Scan(&profile.UID, &profile.DisplayName, &profile.AvatarURL, &handlesJSON,
		&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		return nil, err
	}

	handles := make(map[domain.Platform]string)
	if len(handlesJSON) > 0 {
		if err := json.Unmarshal(handlesJSON, &handles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal handles: %w", err)
		}
	}
	profile.Handles = domain.CleanHandles(handles)
	return &profile, nil
}

func marshalHandles(handles map[domain.Platform]string) ([]byte, error) {
	data, err := json.Marshal(domain.CleanHandles(handles))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal handles: %w", err)
	}
	return data, nil
}
