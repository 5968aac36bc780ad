package models

import (
	"time"

	"github.com/google/uuid"
)

// Card statuses. A disabled card never resolves to a profile.
const (
	CardStatusUnclaimed = "unclaimed"
	CardStatusActive    = "active"
	CardStatusDisabled  = "disabled"
)

type Card struct {
	Code           string     `json:"code" db:"code"`
	Status         string     `json:"status" db:"status"`
	ProfileID      *uuid.UUID `json:"profile_id,omitempty" db:"profile_id"`
	NfcTagAssigned bool       `json:"nfc_tag_assigned" db:"nfc_tag_assigned"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`
}
