package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new time-ordered identifier. Identifiers generated by
// one process sort lexically in creation order.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
