package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rodr499/kardo/internal/server/storage"
	"github.com/rodr499/kardo/pkg/models"
	"github.com/rodr499/kardo/pkg/utils"
)

// profileRepo and cardReleaser are the storage surfaces the profile
// service consumes; *storage.ProfileRepository and *storage.CardRepository
// satisfy them.
type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, url *string) error
	UpdateQRCodeURL(ctx context.Context, id uuid.UUID, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cardReleaser interface {
	UnclaimByProfile(ctx context.Context, profileID uuid.UUID) error
}

type ProfileService struct {
	profiles profileRepo
	cards    cardReleaser
	bucket   *BucketService   // optional; nil disables image uploads
	qr       *QRService
	supabase *SupabaseService // optional; nil skips auth user deletion
}

func NewProfileService(
	profiles profileRepo,
	cards cardReleaser,
	bucket *BucketService,
	qr *QRService,
	supabase *SupabaseService,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cards:    cards,
		bucket:   bucket,
		qr:       qr,
		supabase: supabase,
	}
}

func (s *ProfileService) GetByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// GetPublicProfile resolves a handle case-insensitively to its profile.
func (s *ProfileService) GetPublicProfile(ctx context.Context, handle string) (*models.Profile, error) {
	profile, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// SaveProfile writes the caller's editable fields. The handle is
// lowercased and validated, then checked against other profiles; the
// unique index backs the pre-check, so a lost race still surfaces as
// ErrHandleTaken rather than a stored duplicate.
func (s *ProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.Profile, error) {
	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if !utils.IsValidHandle(handle) {
		return nil, ErrInvalidHandle
	}

	taken, err := s.profiles.HandleTaken(ctx, handle, userID)
	if err != nil {
		return nil, fmt.Errorf("handle check failed: %w", err)
	}
	if taken {
		return nil, ErrHandleTaken
	}

	profile := profileFromRequest(userID, handle, req)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		if errors.Is(err, storage.ErrDuplicateHandle) {
			return nil, ErrHandleTaken
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	saved, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	return saved, nil
}

// UploadAvatar replaces the caller's avatar image and returns its URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, contentType, ext string, data []byte) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	objectName := fmt.Sprintf("%s-avatar%s", userID, ext)
	publicURL, err := s.bucket.Upload(objectName, contentType, data)
	if err != nil {
		return "", err
	}

	// The object name embeds the extension, so switching formats leaves
	// the old object behind unless it is removed here.
	if profile, perr := s.profiles.GetByID(ctx, userID); perr == nil && profile != nil {
		if old := objectNameFromURL(profile.AvatarURL); old != "" && old != objectName {
			_ = s.bucket.Remove([]string{old})
		}
	}

	if err := s.profiles.UpdateAvatarURL(ctx, userID, &publicURL); err != nil {
		return "", fmt.Errorf("failed to store avatar URL: %w", err)
	}
	return publicURL, nil
}

// GenerateQRCode renders the caller's public profile URL as a PNG, stores
// it, and records the image URL on the profile.
func (s *ProfileService) GenerateQRCode(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	profile, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	png, err := s.qr.RenderPNG(profile.Handle)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("qr-%s.png", userID)
	publicURL, err := s.bucket.Upload(objectName, "image/png", png)
	if err != nil {
		return "", err
	}

	if err := s.profiles.UpdateQRCodeURL(ctx, userID, &publicURL); err != nil {
		return "", fmt.Errorf("failed to store QR code URL: %w", err)
	}
	return publicURL, nil
}

// DeleteAccount removes everything tied to the user: claimed cards are
// released, stored images and the profile row are deleted, and finally
// the auth user itself. Image and auth cleanup are best effort; a partial
// failure is reported as a warning rather than aborting the deletion.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.cards.UnclaimByProfile(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to release cards: %w", err)
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("profile lookup failed: %w", err)
	}

	if profile != nil && s.bucket != nil {
		var objects []string
		if name := objectNameFromURL(profile.AvatarURL); name != "" {
			objects = append(objects, name)
		}
		if name := objectNameFromURL(profile.QRCodeURL); name != "" {
			objects = append(objects, name)
		}
		_ = s.bucket.Remove(objects)
	}

	if profile != nil {
		if err := s.profiles.Delete(ctx, userID); err != nil {
			return "", fmt.Errorf("failed to delete profile: %w", err)
		}
	}

	if s.supabase == nil {
		return "auth user not deleted: Supabase admin access not configured", nil
	}
	if err := s.supabase.AdminDeleteUser(userID); err != nil {
		return fmt.Sprintf("auth user not deleted: %v", err), nil
	}

	return "", nil
}

// objectNameFromURL extracts the storage object name (last path segment)
// from a stored public URL.
func objectNameFromURL(u *string) string {
	if u == nil || *u == "" {
		return ""
	}
	parts := strings.Split(*u, "/")
	return parts[len(parts)-1]
}

func profileFromRequest(userID uuid.UUID, handle string, req *models.UpdateProfileRequest) *models.Profile {
	return &models.Profile{
		ID:          userID,
		Handle:      handle,
		DisplayName: trimmed(req.DisplayName),
		Title:       trimmed(req.Title),
		Phone:       trimmed(req.Phone),
		CountryCode: trimmed(req.CountryCode),
		Email:       trimmed(req.Email),
		Website:     trimmed(req.Website),
		Searchable:  req.Searchable,
		ShowQRCode:  req.ShowQRCode,

		Linkedin:  trimmed(req.Linkedin),
		Twitter:   trimmed(req.Twitter),
		Instagram: trimmed(req.Instagram),
		Facebook:  trimmed(req.Facebook),
		Tiktok:    trimmed(req.Tiktok),
		Youtube:   trimmed(req.Youtube),
		Github:    trimmed(req.Github),

		OfficeAddress: trimmed(req.OfficeAddress),
		OfficeCity:    trimmed(req.OfficeCity),
		MapsLink:      trimmed(req.MapsLink),

		BestTimeToContact:      trimmed(req.BestTimeToContact),
		PreferredContactMethod: trimmed(req.PreferredContactMethod),

		Department: trimmed(req.Department),
		TeamName:   trimmed(req.TeamName),
		Manager:    trimmed(req.Manager),

		Pronouns:          trimmed(req.Pronouns),
		NamePronunciation: trimmed(req.NamePronunciation),
		Bio:               trimmed(req.Bio),

		Whatsapp: trimmed(req.Whatsapp),
		Signal:   trimmed(req.Signal),
		Telegram: trimmed(req.Telegram),
		SmsLink:  trimmed(req.SmsLink),

		CalendarLink: trimmed(req.CalendarLink),
		Timezone:     trimmed(req.Timezone),

		PodcastLink:    trimmed(req.PodcastLink),
		YoutubeChannel: trimmed(req.YoutubeChannel),
		SermonSeries:   trimmed(req.SermonSeries),
		FeaturedTalk:   trimmed(req.FeaturedTalk),

		CompanyName:   trimmed(req.CompanyName),
		Division:      trimmed(req.Division),
		OfficePhone:   trimmed(req.OfficePhone),
		WorkPhone:     trimmed(req.WorkPhone),
		PersonalPhone: trimmed(req.PersonalPhone),

		PrimaryCtaType:  trimmed(req.PrimaryCtaType),
		PrimaryCtaValue: trimmed(req.PrimaryCtaValue),
	}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	if t == "" {
		return nil
	}
	return &t
}
