package member

import (
	"context"
)

// UpdateFunc mutates a subscriber record inside the store's per-email
// critical section. rec is nil when no record exists yet. The returned
// record is persisted; returning nil (with a nil error) leaves the store
// untouched. Returning an error aborts without persisting.
type UpdateFunc func(rec *Record) (*Record, error)

// Store persists subscriber records keyed by normalized email.
//
// Update MUST serialize concurrent calls for the same email for the whole
// load-mutate-persist span: two claims racing for one subscriber must not
// both read the same prior binding. Implementations use a row lock
// (Postgres), a lease (Redis) or a keyed mutex (memory). Unrelated emails
// must not block each other.
type Store interface {
	// Get returns the record for the normalized email, or nil when none exists.
	Get(ctx context.Context, email string) (*Record, error)

	// Update runs fn under the per-email lock and persists its result.
	Update(ctx context.Context, email string, fn UpdateFunc) error
}
