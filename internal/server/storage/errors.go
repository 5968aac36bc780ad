package storage

import (
	"errors"

	"github.com/lib/pq"
)

// Typed errors for constraint violations. The unique indexes on cards.code
// and lower(profiles.handle) are the source of truth for uniqueness;
// application-level pre-checks only improve error messages.
var (
	ErrDuplicateCode   = errors.New("card code already exists")
	ErrDuplicateHandle = errors.New("handle already exists")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
