package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rodr499/kardo/pkg/models"
)

const settingsRowID = "app"

type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the single application settings row. A missing row (fresh
// database before the seed migration ran) reads as defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	query := `SELECT * FROM settings WHERE id = $1`
	err := r.db.GetContext(ctx, &settings, query, settingsRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.AppSettings{ID: settingsRowID, RegistrationEnabled: true}, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) SetRegistrationEnabled(ctx context.Context, enabled bool) error {
	query := `
		INSERT INTO settings (id, registration_enabled)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET registration_enabled = EXCLUDED.registration_enabled, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, settingsRowID, enabled)
	return err
}
