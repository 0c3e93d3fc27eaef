// Package gateway abstracts membership operations against the chat
// platform. Implementations manage exactly one group, fixed at
// construction time.
package gateway

import "context"

// Gateway drives the side effects of entitlement decisions: letting a
// subscriber in, invalidating old invites, and evicting replaced or
// lapsed members.
type Gateway interface {
	// CreateInvite mints a single-use invite link labelled for audit
	// (the subscriber's email). This is the only gateway call whose
	// failure is surfaced to a claiming user.
	CreateInvite(ctx context.Context, label string) (string, error)

	// RevokeInvite invalidates a previously issued link. Revoking a link
	// that was already consumed or revoked succeeds silently.
	RevokeInvite(ctx context.Context, inviteLink string) error

	// RemoveMember kicks the user out of the group without blocklisting
	// them, so a fresh invite can bring them back later. Removing someone
	// who is not a member succeeds silently.
	RemoveMember(ctx context.Context, memberID int64) error
}
