package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateTestProfile inserts a minimal profile row and returns its ID.
func (tdb *TestDB) CreateTestProfile(ctx context.Context, handle string) uuid.UUID {
	tdb.t.Helper()

	id := uuid.New()
	_, err := tdb.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, handle, display_name, email)
		VALUES ($1, $2, $3, $4)
	`, id, handle, "Test User", GenerateTestEmail())
	if err != nil {
		tdb.t.Fatalf("Failed to create test profile: %v", err)
	}
	return id
}

// DeleteTestProfile removes a test profile and any cards attached to it.
func (tdb *TestDB) DeleteTestProfile(ctx context.Context, profileID uuid.UUID) {
	tdb.t.Helper()
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM cards WHERE profile_id = $1", profileID)
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", profileID)
}

// CreateTestCard inserts an unclaimed card with the given code.
func (tdb *TestDB) CreateTestCard(ctx context.Context, code string) {
	tdb.t.Helper()
	_, err := tdb.DB.ExecContext(ctx, `
		INSERT INTO cards (code, status, nfc_tag_assigned)
		VALUES ($1, 'unclaimed', false)
	`, code)
	if err != nil {
		tdb.t.Fatalf("Failed to create test card: %v", err)
	}
}

// DeleteTestCard removes a test card from the database
func (tdb *TestDB) DeleteTestCard(ctx context.Context, code string) {
	tdb.t.Helper()
	_, _ = tdb.DB.ExecContext(ctx, "DELETE FROM cards WHERE code = $1", code)
}

// GenerateTestEmail generates a unique test email
func GenerateTestEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}

// GenerateTestHandle generates a unique handle for test profiles
func GenerateTestHandle() string {
	return "test-" + uuid.New().String()[:8]
}

// GenerateTestCode generates a unique card code in the inventory alphabet
func GenerateTestCode() string {
	// UUIDs can contain characters outside the card alphabet, so map the
	// first 8 hex chars onto safe letters instead.
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	id := uuid.New()
	code := make([]byte, 8)
	for i := 0; i < 8; i++ {
		code[i] = alphabet[int(id[i])%len(alphabet)]
	}
	return string(code)
}
