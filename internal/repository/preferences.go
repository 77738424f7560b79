package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PreferenceRepository stores per-profile key/value preferences.
type PreferenceRepository interface {
	EnsureSchema(ctx context.Context) error
	Get(ctx context.Context, profile, key string) (value string, ok bool, err error)
	Set(ctx context.Context, profile, key, value string) error
	// ValuesByKey returns the value of key for every profile that has it.
	ValuesByKey(ctx context.Context, key string) ([]string, error)
}

const schema = `
        CREATE TABLE IF NOT EXISTS preferences (
            profile    TEXT      NOT NULL,
            key        TEXT      NOT NULL,
            value      TEXT      NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (profile, key)
        );
    `

type sqlRepo struct {
	db     *sqlx.DB
	logger *zap.Logger

	getQ   string
	setQ   string
	byKeyQ string
}

// NewPreferenceRepository works with both the "pgx" and "sqlite" drivers;
// placeholders are rebound for the driver the db was opened with.
func NewPreferenceRepository(db *sqlx.DB, logger *zap.Logger) PreferenceRepository {
	return &sqlRepo{
		db:     db,
		logger: logger,
		getQ:   db.Rebind(`SELECT value FROM preferences WHERE profile = ? AND key = ?;`),
		setQ: db.Rebind(`
        INSERT INTO preferences (profile, key, value, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT (profile, key) DO UPDATE
        SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;
    `),
		byKeyQ: db.Rebind(`SELECT value FROM preferences WHERE key = ? ORDER BY profile;`),
	}
}

func (r *sqlRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		r.logger.Error("failed to create preferences table", zap.Error(err))
		return err
	}
	return nil
}

func (r *sqlRepo) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	if err := r.db.GetContext(ctx, &value, r.getQ, profile, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		r.logger.Error("failed to read preference",
			zap.String("profile", profile),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, err
	}
	return value, true, nil
}

func (r *sqlRepo) Set(ctx context.Context, profile, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.setQ, profile, key, value); err != nil {
		r.logger.Error("failed to write preference",
			zap.String("profile", profile),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	r.logger.Debug("preference saved", zap.String("profile", profile), zap.String("key", key))
	return nil
}

func (r *sqlRepo) ValuesByKey(ctx context.Context, key string) ([]string, error) {
	var values []string
	if err := r.db.SelectContext(ctx, &values, r.byKeyQ, key); err != nil {
		r.logger.Error("failed to list preferences", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed preferences", zap.String("key", key), zap.Int("count", len(values)))
	return values, nil
}
