package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/rodr499/kardo/pkg/models"
)

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT * FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByHandle looks a profile up by handle, case-insensitively.
func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT * FROM profiles WHERE lower(handle) = lower($1)`
	err := r.db.GetContext(ctx, &profile, query, handle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// HandleTaken reports whether another profile already uses the handle.
func (r *ProfileRepository) HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM profiles WHERE lower(handle) = lower($1) AND id <> $2)`
	err := r.db.GetContext(ctx, &taken, query, handle, excludeID)
	return taken, err
}

// Create inserts a minimal profile row (lazy creation on first claim or
// first profile visit). Display fields are filled in later via Upsert.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, handle, display_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.ID, profile.Handle, profile.DisplayName, profile.Email,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateHandle
	}
	return err
}

// Upsert writes the full editable field set. Ownership fields that are
// managed elsewhere (avatar_url, qr_code_url, user_type) are deliberately
// not touched so an update cannot clobber them.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (
			id, handle, display_name, title, phone, country_code, email, website,
			searchable, show_qr_code,
			linkedin, twitter, instagram, facebook, tiktok, youtube, github,
			office_address, office_city, maps_link,
			best_time_to_contact, preferred_contact_method,
			department, team_name, manager,
			pronouns, name_pronunciation, bio,
			whatsapp, signal, telegram, sms_link,
			calendar_link, timezone,
			podcast_link, youtube_channel, sermon_series, featured_talk,
			company_name, division, office_phone, work_phone, personal_phone,
			primary_cta_type, primary_cta_value
		) VALUES (
			:id, :handle, :display_name, :title, :phone, :country_code, :email, :website,
			:searchable, :show_qr_code,
			:linkedin, :twitter, :instagram, :facebook, :tiktok, :youtube, :github,
			:office_address, :office_city, :maps_link,
			:best_time_to_contact, :preferred_contact_method,
			:department, :team_name, :manager,
			:pronouns, :name_pronunciation, :bio,
			:whatsapp, :signal, :telegram, :sms_link,
			:calendar_link, :timezone,
			:podcast_link, :youtube_channel, :sermon_series, :featured_talk,
			:company_name, :division, :office_phone, :work_phone, :personal_phone,
			:primary_cta_type, :primary_cta_value
		)
		ON CONFLICT (id) DO UPDATE SET
			handle = EXCLUDED.handle,
			display_name = EXCLUDED.display_name,
			title = EXCLUDED.title,
			phone = EXCLUDED.phone,
			country_code = EXCLUDED.country_code,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			searchable = EXCLUDED.searchable,
			show_qr_code = EXCLUDED.show_qr_code,
			linkedin = EXCLUDED.linkedin,
			twitter = EXCLUDED.twitter,
			instagram = EXCLUDED.instagram,
			facebook = EXCLUDED.facebook,
			tiktok = EXCLUDED.tiktok,
			youtube = EXCLUDED.youtube,
			github = EXCLUDED.github,
			office_address = EXCLUDED.office_address,
			office_city = EXCLUDED.office_city,
			maps_link = EXCLUDED.maps_link,
			best_time_to_contact = EXCLUDED.best_time_to_contact,
			preferred_contact_method = EXCLUDED.preferred_contact_method,
			department = EXCLUDED.department,
			team_name = EXCLUDED.team_name,
			manager = EXCLUDED.manager,
			pronouns = EXCLUDED.pronouns,
			name_pronunciation = EXCLUDED.name_pronunciation,
			bio = EXCLUDED.bio,
			whatsapp = EXCLUDED.whatsapp,
			signal = EXCLUDED.signal,
			telegram = EXCLUDED.telegram,
			sms_link = EXCLUDED.sms_link,
			calendar_link = EXCLUDED.calendar_link,
			timezone = EXCLUDED.timezone,
			podcast_link = EXCLUDED.podcast_link,
			youtube_channel = EXCLUDED.youtube_channel,
			sermon_series = EXCLUDED.sermon_series,
			featured_talk = EXCLUDED.featured_talk,
			company_name = EXCLUDED.company_name,
			division = EXCLUDED.division,
			office_phone = EXCLUDED.office_phone,
			work_phone = EXCLUDED.work_phone,
			personal_phone = EXCLUDED.personal_phone,
			primary_cta_type = EXCLUDED.primary_cta_type,
			primary_cta_value = EXCLUDED.primary_cta_value,
			updated_at = NOW()
	`
	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateHandle
	}
	return err
}

func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url *string) error {
	query := `UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, url, id)
	return err
}

func (r *ProfileRepository) UpdateQRCodeURL(ctx context.Context, id uuid.UUID, url *string) error {
	query := `UPDATE profiles SET qr_code_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, url, id)
	return err
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
