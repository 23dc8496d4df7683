// Package uuid provides id generation for records and queued operations.
package uuid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/lmazzini/ecoponto/internal/models"
)

// UUID v4 format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
// where y is one of [8, 9, a, b] (variant bits)
var uuidV4Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// New generates a new UUID v4. Used for queued-operation ids: random
// generation keeps rapid successive enqueues collision-free without
// depending on wall-clock resolution.
func New() string {
	return uuid.New().String()
}

// NewProvisional generates a client-side placeholder id for a record
// created while offline. The reserved prefix keeps it distinguishable
// from server-assigned ids until the drain replaces it.
func NewProvisional() models.PointID {
	return models.PointID(models.ProvisionalPrefix + uuid.New().String())
}

// IsValid checks if a string is a valid UUID v4.
// Enforces strict format with dashes and correct variant bits.
func IsValid(s string) bool {
	return uuidV4Regex.MatchString(s)
}

// Validate returns an error if the string is neither a valid UUID v4 nor
// a provisional id wrapping one.
func Validate(s string) error {
	if IsValid(strings.TrimPrefix(s, models.ProvisionalPrefix)) {
		return nil
	}
	return fmt.Errorf("invalid id format: %q", s)
}
