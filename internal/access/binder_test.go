package access

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/member"
)

func TestClaimDeniedForUnknownEmail(t *testing.T) {
	store := member.NewMemoryStore()
	b := NewBinder(store, &fakeGateway{})

	result, err := b.Claim(context.Background(), "nobody@x.com", 111)
	require.NoError(t, err)
	assert.Equal(t, Denied, result.Status)
}

func TestClaimDeniedWithoutActiveProducts(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{}})

	result, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)
	assert.Equal(t, Denied, result.Status)

	created, _, _ := gw.snapshot()
	assert.Empty(t, created, "denied claims never mint invites")
}

func TestClaimEmptyEmailDenied(t *testing.T) {
	b := NewBinder(member.NewMemoryStore(), &fakeGateway{})

	result, err := b.Claim(context.Background(), "   ", 111)
	require.NoError(t, err)
	assert.Equal(t, Denied, result.Status)
}

func TestClaimFreshBind(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	result, err := b.Claim(context.Background(), "A@X.com", 111)
	require.NoError(t, err)
	assert.Equal(t, Granted, result.Status)
	assert.NotEmpty(t, result.InviteLink)

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, rec.TelegramID)
	assert.Equal(t, int64(111), *rec.TelegramID)
	assert.Equal(t, result.InviteLink, rec.InviteLink)

	created, revoked, removed := gw.snapshot()
	assert.Equal(t, []string{"Aluno a@x.com"}, created)
	assert.Empty(t, revoked)
	assert.Empty(t, removed)
}

func TestClaimAlreadyBoundIsNoOp(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	first, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)
	require.Equal(t, Granted, first.Status)

	second, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)
	assert.Equal(t, AlreadyBound, second.Status)
	assert.Empty(t, second.InviteLink)

	created, revoked, removed := gw.snapshot()
	assert.Len(t, created, 1, "no second invite for the same user")
	assert.Empty(t, revoked)
	assert.Empty(t, removed)

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.InviteLink, rec.InviteLink, "record untouched by re-claim")
}

func TestClaimRebindEvictsPreviousHolder(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	first, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)

	second, err := b.Claim(context.Background(), "a@x.com", 222)
	require.NoError(t, err)
	assert.Equal(t, Granted, second.Status)
	assert.NotEqual(t, first.InviteLink, second.InviteLink)

	created, revoked, removed := gw.snapshot()
	assert.Equal(t, []int64{111}, removed)
	assert.Equal(t, []string{first.InviteLink}, revoked)
	assert.Len(t, created, 2)

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(222), *rec.TelegramID)
	assert.Equal(t, second.InviteLink, rec.InviteLink)
}

func TestClaimByEvictedIdentityIsFreshBindNotAlreadyBound(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	_, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)
	_, err = b.Claim(context.Background(), "a@x.com", 222)
	require.NoError(t, err)

	// The original holder comes back: the binding now points at 222, so
	// this is a rebind that evicts 222, not an AlreadyBound no-op.
	result, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)
	assert.Equal(t, Granted, result.Status)

	_, _, removed := gw.snapshot()
	assert.Equal(t, []int64{111, 222}, removed)
}

func TestClaimInviteFailureLeavesRecordUntouched(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	first, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)

	gw.createErr = assert.AnError
	_, err = b.Claim(context.Background(), "a@x.com", 222)
	require.Error(t, err, "invite failure is the one user-visible error")

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(111), *rec.TelegramID, "failed rebind must not move the binding")
	assert.Equal(t, first.InviteLink, rec.InviteLink)
}

func TestClaimBestEffortCleanupFailuresDoNotAbort(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{
		removeErr: assert.AnError,
		revokeErr: assert.AnError,
	}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	_, err := b.Claim(context.Background(), "a@x.com", 111)
	require.NoError(t, err)

	result, err := b.Claim(context.Background(), "a@x.com", 222)
	require.NoError(t, err)
	assert.Equal(t, Granted, result.Status)

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(222), *rec.TelegramID)
}

func TestConcurrentClaimsSerializePerEmail(t *testing.T) {
	store := member.NewMemoryStore()
	gw := &fakeGateway{}
	b := NewBinder(store, gw)
	seedRecord(t, store, "a@x.com", member.Record{ActiveProducts: []string{"P1"}})

	var wg sync.WaitGroup
	for _, id := range []int64{111, 222} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := b.Claim(context.Background(), "a@x.com", id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	created, _, removed := gw.snapshot()
	assert.Len(t, created, 2, "both claims serialize and each mints once")
	require.Len(t, removed, 1, "exactly one eviction, of the first winner")

	rec, err := store.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, rec.TelegramID)
	assert.NotEqual(t, removed[0], *rec.TelegramID, "the evicted identity cannot hold the final binding")
}
