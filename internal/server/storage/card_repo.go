package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rodr499/kardo/pkg/models"
)

type CardRepository struct {
	db *DB
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) GetByCode(ctx context.Context, code string) (*models.Card, error) {
	var card models.Card
	query := `SELECT * FROM cards WHERE code = $1`
	err := r.db.GetContext(ctx, &card, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE code = $1)`
	err := r.db.GetContext(ctx, &exists, query, code)
	return exists, err
}

// CreateBatch inserts all codes as unclaimed cards in a single transaction.
// A unique violation (a concurrent generator won the race on some code)
// rolls back the whole batch and returns ErrDuplicateCode, so either every
// code is persisted or none is.
func (r *CardRepository) CreateBatch(ctx context.Context, codes []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cards (code, status, nfc_tag_assigned)
		VALUES ($1, $2, $3)
	`
	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, query, code, models.CardStatusUnclaimed, false); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCode
			}
			return err
		}
	}

	return tx.Commit()
}

func (r *CardRepository) ListAll(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	query := `SELECT * FROM cards ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &cards, query)
	return cards, err
}

func (r *CardRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Card, error) {
	var cards []models.Card
	query := `SELECT * FROM cards WHERE profile_id = $1 ORDER BY claimed_at DESC`
	err := r.db.SelectContext(ctx, &cards, query, profileID)
	return cards, err
}

func (r *CardRepository) Claim(ctx context.Context, code string, profileID uuid.UUID) error {
	query := `
		UPDATE cards
		SET status = $1, profile_id = $2, claimed_at = NOW()
		WHERE code = $3
	`
	_, err := r.db.ExecContext(ctx, query, models.CardStatusActive, profileID, code)
	return err
}

func (r *CardRepository) Unclaim(ctx context.Context, code string) error {
	query := `
		UPDATE cards
		SET status = $1, profile_id = NULL, claimed_at = NULL
		WHERE code = $2
	`
	_, err := r.db.ExecContext(ctx, query, models.CardStatusUnclaimed, code)
	return err
}

// UnclaimByProfile releases every card owned by the profile. Used by
// account deletion.
func (r *CardRepository) UnclaimByProfile(ctx context.Context, profileID uuid.UUID) error {
	query := `
		UPDATE cards
		SET status = $1, profile_id = NULL, claimed_at = NULL
		WHERE profile_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, models.CardStatusUnclaimed, profileID)
	return err
}

func (r *CardRepository) SetStatus(ctx context.Context, code, status string) error {
	query := `UPDATE cards SET status = $1 WHERE code = $2`
	_, err := r.db.ExecContext(ctx, query, status, code)
	return err
}

func (r *CardRepository) SetNfcTag(ctx context.Context, code string, assigned bool) error {
	query := `UPDATE cards SET nfc_tag_assigned = $1 WHERE code = $2`
	_, err := r.db.ExecContext(ctx, query, assigned, code)
	return err
}

func (r *CardRepository) Delete(ctx context.Context, code string) error {
	query := `DELETE FROM cards WHERE code = $1`
	_, err := r.db.ExecContext(ctx, query, code)
	return err
}
