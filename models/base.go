package models

import (
	"github.com/google/uuid"
)

// ensureID fills an empty string primary key with a fresh UUID.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
