package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rodr499/kardo/pkg/models"
)

// cardStore and profileStore are the storage surfaces the card service
// consumes; *storage.CardRepository and *storage.ProfileRepository satisfy
// them.
type cardStore interface {
	GetByCode(ctx context.Context, code string) (*models.Card, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CreateBatch(ctx context.Context, codes []string) error
	ListAll(ctx context.Context) ([]models.Card, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Card, error)
	Claim(ctx context.Context, code string, profileID uuid.UUID) error
	Unclaim(ctx context.Context, code string) error
	SetStatus(ctx context.Context, code, status string) error
	SetNfcTag(ctx context.Context, code string, assigned bool) error
	Delete(ctx context.Context, code string) error
}

type profileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type CardService struct {
	cards     cardStore
	profiles  profileStore
	generator *CodeGenerator
	email     *EmailService // optional; nil disables claim emails
}

func NewCardService(cards cardStore, profiles profileStore, generator *CodeGenerator, email *EmailService) *CardService {
	return &CardService{
		cards:     cards,
		profiles:  profiles,
		generator: generator,
		email:     email,
	}
}

// Outcome enumerates the routing results of code resolution.
type Outcome int

const (
	// OutcomeUnknown covers both malformed codes and codes with no card row.
	OutcomeUnknown Outcome = iota
	OutcomeDisabled
	OutcomeNeedsClaim
	OutcomeResolved
)

// Resolution is the result of resolving a card code. Code is set for
// OutcomeNeedsClaim (to pre-fill the claim form), Handle for
// OutcomeResolved.
type Resolution struct {
	Outcome Outcome
	Code    string
	Handle  string
}

// ResolveCode translates an inbound card code into a routing outcome. It
// never mutates anything. Format validation strictly precedes any store
// access, and a disabled status overrides claim state: a disabled card
// never resolves to its profile.
func (s *CardService) ResolveCode(ctx context.Context, rawCode string) (*Resolution, error) {
	code := NormalizeCode(rawCode)
	if !IsValidCode(code) {
		return &Resolution{Outcome: OutcomeUnknown}, nil
	}

	card, err := s.cards.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("card lookup failed: %w", err)
	}
	if card == nil {
		return &Resolution{Outcome: OutcomeUnknown}, nil
	}

	if card.Status == models.CardStatusDisabled {
		return &Resolution{Outcome: OutcomeDisabled}, nil
	}

	if card.Status == models.CardStatusUnclaimed || card.ProfileID == nil {
		return &Resolution{Outcome: OutcomeNeedsClaim, Code: code}, nil
	}

	profile, err := s.profiles.GetByID(ctx, *card.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	// A claimed card pointing at a missing or handle-less profile is a
	// data-integrity gap; route it back through the claim form instead of
	// failing the visit.
	if profile == nil || profile.Handle == "" {
		return &Resolution{Outcome: OutcomeNeedsClaim, Code: code}, nil
	}

	return &Resolution{Outcome: OutcomeResolved, Handle: profile.Handle}, nil
}

// ClaimCard attaches an unclaimed card to the caller, lazily creating
// their profile. Claiming a card you already own is idempotent.
func (s *CardService) ClaimCard(ctx context.Context, userID uuid.UUID, userEmail, rawCode string) (*models.Profile, string, error) {
	code := NormalizeCode(rawCode)
	if !IsValidCode(code) {
		return nil, "", ErrInvalidCode
	}

	card, err := s.cards.GetByCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("card lookup failed: %w", err)
	}
	if card == nil {
		return nil, "", ErrCardNotFound
	}
	if card.Status == models.CardStatusDisabled {
		return nil, "", ErrCardDisabled
	}

	if card.Status != models.CardStatusUnclaimed && card.ProfileID != nil {
		if *card.ProfileID != userID {
			return nil, "", ErrCardClaimed
		}
		profile, err := s.profiles.GetByID(ctx, userID)
		if err != nil {
			return nil, "", fmt.Errorf("profile lookup failed: %w", err)
		}
		if profile == nil {
			return nil, "", ErrProfileNotFound
		}
		return profile, code, nil
	}

	profile, err := s.EnsureProfile(ctx, userID, userEmail)
	if err != nil {
		return nil, "", err
	}

	if err := s.cards.Claim(ctx, code, userID); err != nil {
		return nil, "", fmt.Errorf("failed to claim card: %w", err)
	}

	// Best effort: the claim stands even if the confirmation email fails.
	if s.email != nil {
		_ = s.email.SendClaimConfirmation(userEmail, code, profile.Handle)
	}

	return profile, code, nil
}

// EnsureProfile returns the user's profile, creating a minimal one on
// first contact. The default handle comes from the email local part; on a
// collision a short random suffix is appended.
func (s *CardService) EnsureProfile(ctx context.Context, userID uuid.UUID, userEmail string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	handle := DefaultHandle(userEmail, userID)
	displayName := handle

	profile = &models.Profile{
		ID:          userID,
		Handle:      handle,
		DisplayName: &displayName,
		UserType:    models.UserTypeRegular,
	}
	if userEmail != "" {
		profile.Email = &userEmail
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if suffix, serr := randomCode(4); serr == nil {
			profile.Handle = handle + "-" + strings.ToLower(suffix)
			if retryErr := s.profiles.Create(ctx, profile); retryErr == nil {
				return profile, nil
			}
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

// DefaultHandle derives a starting handle from the email local part,
// reduced to the allowed slug characters, falling back to a user ID stub.
func DefaultHandle(email string, userID uuid.UUID) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToLower(local)

	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	handle := b.String()
	if len(handle) < 3 {
		return "user-" + userID.String()[:8]
	}
	if len(handle) > 30 {
		handle = handle[:30]
	}
	return handle
}

// GenerateCards produces and persists a batch of fresh unclaimed cards.
// Returns the codes plus the effective (clamped) count and length.
func (s *CardService) GenerateCards(ctx context.Context, count, length int) ([]string, int, error) {
	count, length = ClampBatchParams(count, length)

	codes, err := s.generator.Generate(ctx, count, length)
	if err != nil {
		return nil, length, err
	}

	if err := s.cards.CreateBatch(ctx, codes); err != nil {
		return nil, length, fmt.Errorf("failed to insert cards: %w", err)
	}

	return codes, length, nil
}

func (s *CardService) ListCards(ctx context.Context) ([]models.Card, error) {
	return s.cards.ListAll(ctx)
}

func (s *CardService) ListCardsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Card, error) {
	return s.cards.ListByProfile(ctx, profileID)
}

// getExistingCard normalizes and fetches a card for the admin mutations.
func (s *CardService) getExistingCard(ctx context.Context, rawCode string) (*models.Card, string, error) {
	code := NormalizeCode(rawCode)
	if !IsValidCode(code) {
		return nil, "", ErrInvalidCode
	}
	card, err := s.cards.GetByCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("card lookup failed: %w", err)
	}
	if card == nil {
		return nil, "", ErrCardNotFound
	}
	return card, code, nil
}

// UnclaimCard forcibly resets a card to unclaimed. The caller is expected
// to have passed the re-auth gate first.
func (s *CardService) UnclaimCard(ctx context.Context, rawCode string) error {
	_, code, err := s.getExistingCard(ctx, rawCode)
	if err != nil {
		return err
	}
	return s.cards.Unclaim(ctx, code)
}

// DisableCard puts a card in the disabled state. There is no admin path
// back to active.
func (s *CardService) DisableCard(ctx context.Context, rawCode string) error {
	_, code, err := s.getExistingCard(ctx, rawCode)
	if err != nil {
		return err
	}
	return s.cards.SetStatus(ctx, code, models.CardStatusDisabled)
}

func (s *CardService) DeleteCard(ctx context.Context, rawCode string) error {
	_, code, err := s.getExistingCard(ctx, rawCode)
	if err != nil {
		return err
	}
	return s.cards.Delete(ctx, code)
}

func (s *CardService) SetNfcTag(ctx context.Context, rawCode string, assigned bool) error {
	_, code, err := s.getExistingCard(ctx, rawCode)
	if err != nil {
		return err
	}
	return s.cards.SetNfcTag(ctx, code, assigned)
}
