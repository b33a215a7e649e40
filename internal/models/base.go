package models

import "github.com/google/uuid"

// EnsureID assigns a fresh UUID when id is unset. Models call it from BeforeCreate
// so inserts work on databases without gen_random_uuid().
func EnsureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
