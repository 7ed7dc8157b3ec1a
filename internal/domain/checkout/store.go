package checkout

import (
	"context"

	"github.com/google/uuid"
)

// Store persists checkout sessions for the duration of a checkout.
// Sessions are short-lived and keyed by session ID; implementations
// may expire abandoned sessions, since payment truth lives on the
// order, not the session.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
