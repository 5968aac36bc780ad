package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rodr499/kardo/pkg/models"
)

// fakeCardStore is an in-memory cardStore that counts lookups.
type fakeCardStore struct {
	cards    map[string]*models.Card
	getCalls int
	failWith error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[string]*models.Card)}
}

func (f *fakeCardStore) GetByCode(ctx context.Context, code string) (*models.Card, error) {
	f.getCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	card, ok := f.cards[code]
	if !ok {
		return nil, nil
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardStore) CodeExists(ctx context.Context, code string) (bool, error) {
	_, ok := f.cards[code]
	return ok, nil
}

func (f *fakeCardStore) CreateBatch(ctx context.Context, codes []string) error {
	for _, code := range codes {
		f.cards[code] = &models.Card{
			Code:      code,
			Status:    models.CardStatusUnclaimed,
			CreatedAt: time.Now(),
		}
	}
	return nil
}

func (f *fakeCardStore) ListAll(ctx context.Context) ([]models.Card, error) {
	var out []models.Card
	for _, card := range f.cards {
		out = append(out, *card)
	}
	return out, nil
}

func (f *fakeCardStore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Card, error) {
	var out []models.Card
	for _, card := range f.cards {
		if card.ProfileID != nil && *card.ProfileID == profileID {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Claim(ctx context.Context, code string, profileID uuid.UUID) error {
	card, ok := f.cards[code]
	if !ok {
		return errors.New("no such card")
	}
	now := time.Now()
	card.Status = models.CardStatusActive
	card.ProfileID = &profileID
	card.ClaimedAt = &now
	return nil
}

func (f *fakeCardStore) Unclaim(ctx context.Context, code string) error {
	card, ok := f.cards[code]
	if !ok {
		return errors.New("no such card")
	}
	card.Status = models.CardStatusUnclaimed
	card.ProfileID = nil
	card.ClaimedAt = nil
	return nil
}

func (f *fakeCardStore) SetStatus(ctx context.Context, code, status string) error {
	card, ok := f.cards[code]
	if !ok {
		return errors.New("no such card")
	}
	card.Status = status
	return nil
}

func (f *fakeCardStore) SetNfcTag(ctx context.Context, code string, assigned bool) error {
	card, ok := f.cards[code]
	if !ok {
		return errors.New("no such card")
	}
	card.NfcTagAssigned = assigned
	return nil
}

func (f *fakeCardStore) Delete(ctx context.Context, code string) error {
	delete(f.cards, code)
	return nil
}

// fakeProfileStore is an in-memory profileStore.
type fakeProfileStore struct {
	profiles  map[uuid.UUID]*models.Profile
	takenHand map[string]bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles:  make(map[uuid.UUID]*models.Profile),
		takenHand: make(map[string]bool),
	}
}

func (f *fakeProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	if f.takenHand[profile.Handle] {
		return errors.New("duplicate handle")
	}
	copied := *profile
	f.profiles[profile.ID] = &copied
	f.takenHand[profile.Handle] = true
	return nil
}

func (f *fakeCardStore) addCard(code, status string, profileID *uuid.UUID) {
	f.cards[code] = &models.Card{
		Code:      code,
		Status:    status,
		ProfileID: profileID,
		CreatedAt: time.Now(),
	}
}

func (f *fakeProfileStore) addProfile(id uuid.UUID, handle string) {
	f.profiles[id] = &models.Profile{ID: id, Handle: handle}
	f.takenHand[handle] = true
}

func newTestCardService(cards *fakeCardStore, profiles *fakeProfileStore) *CardService {
	return NewCardService(cards, profiles, NewCodeGenerator(cards), nil)
}

func TestResolveCode_InvalidFormatSkipsStore(t *testing.T) {
	cards := newFakeCardStore()
	svc := newTestCardService(cards, newFakeProfileStore())
	ctx := context.Background()

	for _, raw := range []string{"", "abc", "with space", "AB0K9Q", "way-too-long-for-a-card-code"} {
		res, err := svc.ResolveCode(ctx, raw)
		if err != nil {
			t.Fatalf("ResolveCode(%q) failed: %v", raw, err)
		}
		if res.Outcome != OutcomeUnknown {
			t.Errorf("ResolveCode(%q) outcome = %v, want OutcomeUnknown", raw, res.Outcome)
		}
	}

	if cards.getCalls != 0 {
		t.Errorf("Store was queried %d times for malformed codes, want 0", cards.getCalls)
	}
}

func TestResolveCode_UnknownCode(t *testing.T) {
	svc := newTestCardService(newFakeCardStore(), newFakeProfileStore())

	res, err := svc.ResolveCode(context.Background(), "ZZ99ZZ99")
	if err != nil {
		t.Fatalf("ResolveCode failed: %v", err)
	}
	if res.Outcome != OutcomeUnknown {
		t.Errorf("Outcome = %v, want OutcomeUnknown", res.Outcome)
	}
}

func TestResolveCode_CaseInsensitiveResolved(t *testing.T) {
	cards := newFakeCardStore()
	profiles := newFakeProfileStore()
	userID := uuid.New()
	profiles.addProfile(userID, "jane-doe")
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &userID)

	svc := newTestCardService(cards, profiles)

	for _, raw := range []string{"AB7K9Q2M", "ab7k9q2m", " ab7K9q2M "} {
		res, err := svc.ResolveCode(context.Background(), raw)
		if err != nil {
			t.Fatalf("ResolveCode(%q) failed: %v", raw, err)
		}
		if res.Outcome != OutcomeResolved {
			t.Fatalf("ResolveCode(%q) outcome = %v, want OutcomeResolved", raw, res.Outcome)
		}
		if res.Handle != "jane-doe" {
			t.Errorf("ResolveCode(%q) handle = %q, want jane-doe", raw, res.Handle)
		}
	}
}

func TestResolveCode_DisabledOverridesClaim(t *testing.T) {
	cards := newFakeCardStore()
	profiles := newFakeProfileStore()
	userID := uuid.New()
	profiles.addProfile(userID, "jane-doe")
	cards.addCard("AB7K9Q2M", models.CardStatusDisabled, &userID)

	svc := newTestCardService(cards, profiles)

	res, err := svc.ResolveCode(context.Background(), "AB7K9Q2M")
	if err != nil {
		t.Fatalf("ResolveCode failed: %v", err)
	}
	if res.Outcome != OutcomeDisabled {
		t.Errorf("Outcome = %v, want OutcomeDisabled", res.Outcome)
	}
}

func TestResolveCode_UnclaimedNeedsClaim(t *testing.T) {
	cards := newFakeCardStore()
	cards.addCard("AB7K9Q2M", models.CardStatusUnclaimed, nil)

	svc := newTestCardService(cards, newFakeProfileStore())

	res, err := svc.ResolveCode(context.Background(), "ab7k9q2m")
	if err != nil {
		t.Fatalf("ResolveCode failed: %v", err)
	}
	if res.Outcome != OutcomeNeedsClaim {
		t.Fatalf("Outcome = %v, want OutcomeNeedsClaim", res.Outcome)
	}
	if res.Code != "AB7K9Q2M" {
		t.Errorf("Code = %q, want canonical AB7K9Q2M", res.Code)
	}
}

func TestResolveCode_MissingProfileNeedsClaim(t *testing.T) {
	cards := newFakeCardStore()
	ghostID := uuid.New()
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &ghostID)

	svc := newTestCardService(cards, newFakeProfileStore())

	res, err := svc.ResolveCode(context.Background(), "AB7K9Q2M")
	if err != nil {
		t.Fatalf("ResolveCode failed: %v", err)
	}
	if res.Outcome != OutcomeNeedsClaim {
		t.Errorf("Outcome = %v, want OutcomeNeedsClaim for orphaned card", res.Outcome)
	}
}

func TestResolveCode_StoreErrorPropagates(t *testing.T) {
	cards := newFakeCardStore()
	cards.failWith = errors.New("connection refused")

	svc := newTestCardService(cards, newFakeProfileStore())

	if _, err := svc.ResolveCode(context.Background(), "AB7K9Q2M"); err == nil {
		t.Fatal("Expected store error to propagate, got nil")
	}
}

func TestClaimCard(t *testing.T) {
	cards := newFakeCardStore()
	cards.addCard("AB7K9Q2M", models.CardStatusUnclaimed, nil)

	svc := newTestCardService(cards, newFakeProfileStore())
	userID := uuid.New()

	profile, code, err := svc.ClaimCard(context.Background(), userID, "jane.doe@example.com", "ab7k9q2m")
	if err != nil {
		t.Fatalf("ClaimCard failed: %v", err)
	}
	if code != "AB7K9Q2M" {
		t.Errorf("code = %q, want AB7K9Q2M", code)
	}
	if profile.Handle != "janedoe" {
		t.Errorf("handle = %q, want janedoe", profile.Handle)
	}

	card := cards.cards["AB7K9Q2M"]
	if card.Status != models.CardStatusActive {
		t.Errorf("card status = %q, want active", card.Status)
	}
	if card.ProfileID == nil || *card.ProfileID != userID {
		t.Error("card not attached to the claiming user")
	}
	if card.ClaimedAt == nil {
		t.Error("claimed_at not set")
	}
}

func TestClaimCard_OwnCardIsIdempotent(t *testing.T) {
	cards := newFakeCardStore()
	profiles := newFakeProfileStore()
	userID := uuid.New()
	profiles.addProfile(userID, "jane-doe")
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &userID)

	svc := newTestCardService(cards, profiles)

	profile, code, err := svc.ClaimCard(context.Background(), userID, "jane@example.com", "AB7K9Q2M")
	if err != nil {
		t.Fatalf("Re-claiming own card failed: %v", err)
	}
	if code != "AB7K9Q2M" || profile.Handle != "jane-doe" {
		t.Errorf("got (%q, %q), want existing card and profile back", code, profile.Handle)
	}
}

func TestClaimCard_OwnCardMissingProfile(t *testing.T) {
	cards := newFakeCardStore()
	profiles := newFakeProfileStore()
	userID := uuid.New()
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &userID)

	svc := newTestCardService(cards, profiles)

	profile, _, err := svc.ClaimCard(context.Background(), userID, "jane@example.com", "AB7K9Q2M")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Re-claiming a card whose profile row is gone: got err %v, want ErrProfileNotFound", err)
	}
	if profile != nil {
		t.Errorf("Expected nil profile alongside the error, got %+v", profile)
	}
}

func TestClaimCard_Errors(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		setup   func(*fakeCardStore, *fakeProfileStore)
		rawCode string
		wantErr error
	}{
		{
			name:    "malformed code",
			setup:   func(c *fakeCardStore, p *fakeProfileStore) {},
			rawCode: "bad!",
			wantErr: ErrInvalidCode,
		},
		{
			name:    "unknown code",
			setup:   func(c *fakeCardStore, p *fakeProfileStore) {},
			rawCode: "ZZ99ZZ99",
			wantErr: ErrCardNotFound,
		},
		{
			name: "disabled card",
			setup: func(c *fakeCardStore, p *fakeProfileStore) {
				c.addCard("AB7K9Q2M", models.CardStatusDisabled, nil)
			},
			rawCode: "AB7K9Q2M",
			wantErr: ErrCardDisabled,
		},
		{
			name: "claimed by someone else",
			setup: func(c *fakeCardStore, p *fakeProfileStore) {
				p.addProfile(owner, "owner")
				c.addCard("AB7K9Q2M", models.CardStatusActive, &owner)
			},
			rawCode: "AB7K9Q2M",
			wantErr: ErrCardClaimed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := newFakeCardStore()
			profiles := newFakeProfileStore()
			tt.setup(cards, profiles)

			svc := newTestCardService(cards, profiles)
			_, _, err := svc.ClaimCard(context.Background(), other, "other@example.com", tt.rawCode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ClaimCard error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureProfile_HandleCollisionGetsSuffix(t *testing.T) {
	cards := newFakeCardStore()
	profiles := newFakeProfileStore()
	profiles.addProfile(uuid.New(), "janedoe")

	svc := newTestCardService(cards, profiles)
	userID := uuid.New()

	profile, err := svc.EnsureProfile(context.Background(), userID, "jane.doe@example.com")
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if profile.Handle == "janedoe" {
		t.Error("Expected a suffixed handle on collision")
	}
	if len(profile.Handle) <= len("janedoe") {
		t.Errorf("Suffixed handle %q is not longer than the base", profile.Handle)
	}
}

func TestDefaultHandle(t *testing.T) {
	userID := uuid.MustParse("12345678-0000-0000-0000-000000000000")

	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"plain local part", "jane@example.com", "jane"},
		{"dots and case stripped", "Jane.Doe@example.com", "janedoe"},
		{"plus and underscores stripped", "jane+test_42@example.com", "janetest42"},
		{"too short falls back to user id", "j@example.com", "user-12345678"},
		{"empty falls back to user id", "", "user-12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultHandle(tt.email, userID)
			if got != tt.expected {
				t.Errorf("DefaultHandle(%q) = %q, want %q", tt.email, got, tt.expected)
			}
		})
	}

	t.Run("long local part truncated to 30", func(t *testing.T) {
		got := DefaultHandle("abcdefghijklmnopqrstuvwxyz0123456789@example.com", userID)
		if len(got) != 30 {
			t.Errorf("len = %d, want 30 (%q)", len(got), got)
		}
	})
}

func TestGenerateCards_PersistsBatch(t *testing.T) {
	cards := newFakeCardStore()
	svc := newTestCardService(cards, newFakeProfileStore())

	codes, length, err := svc.GenerateCards(context.Background(), 5, 3)
	if err != nil {
		t.Fatalf("GenerateCards failed: %v", err)
	}
	if length != MinCodeLength {
		t.Errorf("effective length = %d, want clamped %d", length, MinCodeLength)
	}
	if len(codes) != 5 {
		t.Fatalf("got %d codes, want 5", len(codes))
	}
	for _, code := range codes {
		card, ok := cards.cards[code]
		if !ok {
			t.Errorf("code %s not persisted", code)
			continue
		}
		if card.Status != models.CardStatusUnclaimed {
			t.Errorf("persisted card %s status = %q, want unclaimed", code, card.Status)
		}
	}
}

func TestAdminMutationsRequireExistingCard(t *testing.T) {
	svc := newTestCardService(newFakeCardStore(), newFakeProfileStore())
	ctx := context.Background()

	if err := svc.UnclaimCard(ctx, "ZZ99ZZ99"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("UnclaimCard error = %v, want ErrCardNotFound", err)
	}
	if err := svc.DisableCard(ctx, "bad!"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("DisableCard error = %v, want ErrInvalidCode", err)
	}
	if err := svc.DeleteCard(ctx, "ZZ99ZZ99"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("DeleteCard error = %v, want ErrCardNotFound", err)
	}
	if err := svc.SetNfcTag(ctx, "ZZ99ZZ99", true); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("SetNfcTag error = %v, want ErrCardNotFound", err)
	}
}

func TestDisableCard(t *testing.T) {
	cards := newFakeCardStore()
	userID := uuid.New()
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &userID)

	svc := newTestCardService(cards, newFakeProfileStore())

	if err := svc.DisableCard(context.Background(), "ab7k9q2m"); err != nil {
		t.Fatalf("DisableCard failed: %v", err)
	}
	if cards.cards["AB7K9Q2M"].Status != models.CardStatusDisabled {
		t.Error("card not disabled")
	}
}

func TestUnclaimCard_ResetsCard(t *testing.T) {
	cards := newFakeCardStore()
	userID := uuid.New()
	cards.addCard("AB7K9Q2M", models.CardStatusActive, &userID)

	svc := newTestCardService(cards, newFakeProfileStore())

	if err := svc.UnclaimCard(context.Background(), "AB7K9Q2M"); err != nil {
		t.Fatalf("UnclaimCard failed: %v", err)
	}

	card := cards.cards["AB7K9Q2M"]
	if card.Status != models.CardStatusUnclaimed || card.ProfileID != nil || card.ClaimedAt != nil {
		t.Errorf("card not fully reset: %+v", card)
	}
}
