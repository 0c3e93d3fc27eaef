package access

import (
	"context"
	"fmt"
	"sync"
)

// fakeGateway records membership side effects and can be primed to fail.
type fakeGateway struct {
	mu      sync.Mutex
	created []string
	revoked []string
	removed []int64

	createErr error
	revokeErr error
	removeErr error

	nextInvite int
}

func (g *fakeGateway) CreateInvite(ctx context.Context, label string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	g.nextInvite++
	g.created = append(g.created, label)
	return fmt.Sprintf("https://t.me/+invite%d", g.nextInvite), nil
}

func (g *fakeGateway) RevokeInvite(ctx context.Context, inviteLink string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revoked = append(g.revoked, inviteLink)
	return g.revokeErr
}

func (g *fakeGateway) RemoveMember(ctx context.Context, memberID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removed = append(g.removed, memberID)
	return g.removeErr
}

func (g *fakeGateway) snapshot() (created, revoked []string, removed []int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.created...),
		append([]string(nil), g.revoked...),
		append([]int64(nil), g.removed...)
}
