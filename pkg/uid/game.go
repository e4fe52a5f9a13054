package uid

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateMatchID returns a random match identifier.
func GenerateMatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateGuestID returns the identifier stored in a guest's cookie.
func GenerateGuestID() string {
	return uuid.NewString()
}

// IsGuestID reports whether s looks like an id from GenerateGuestID.
func IsGuestID(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 4
}
