package session

import "github.com/google/uuid"

// NewID mints an opaque, collision-resistant session identifier
// (spec.md §3: "SessionId: opaque, supervisor-minted, collision-resistant").
func NewID() string {
	return uuid.NewString()
}
