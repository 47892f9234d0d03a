package harness

import "github.com/google/uuid"

// UUIDv7Generator produces time-ordered UUIDv7 run identifiers.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
