package access

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/gateway"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/member"
)

// Result tells the caller whether an event changed (or could have
// changed) subscriber state.
type Result int

const (
	// Ignored means the event carried nothing to apply: empty email,
	// unknown kind, or a revoke for an email never seen.
	Ignored Result = iota
	// Applied means the record was loaded and persisted.
	Applied
)

// Processor applies normalized commerce events to subscriber records.
// Grants are set unions, so redelivered webhooks are harmless; a revoke
// that empties the product set triggers the revocation workflow.
type Processor struct {
	store member.Store
	gw    gateway.Gateway
}

func NewProcessor(store member.Store, gw gateway.Gateway) *Processor {
	return &Processor{store: store, gw: gw}
}

func (p *Processor) Apply(ctx context.Context, email, productID string, kind EventKind) (Result, error) {
	email = member.NormalizeEmail(email)
	if email == "" || kind == KindUnknown {
		return Ignored, nil
	}

	switch kind {
	case KindGrant:
		return p.applyGrant(ctx, email, productID)
	default:
		return p.applyRevoke(ctx, email, productID)
	}
}

func (p *Processor) applyGrant(ctx context.Context, email, productID string) (Result, error) {
	err := p.store.Update(ctx, email, func(rec *member.Record) (*member.Record, error) {
		if rec == nil {
			rec = &member.Record{}
		}
		rec.AddProduct(productID)
		return rec, nil
	})
	if err != nil {
		return Ignored, err
	}

	log.Info().
		Str("email", email).
		Str("product_id", productID).
		Msg("product granted")
	return Applied, nil
}

func (p *Processor) applyRevoke(ctx context.Context, email, productID string) (Result, error) {
	var (
		teardown *bindingSnapshot
		applied  bool
	)

	err := p.store.Update(ctx, email, func(rec *member.Record) (*member.Record, error) {
		if rec == nil {
			// Cancellation for an email we never granted anything to.
			return nil, nil
		}
		applied = true

		rec.RemoveProduct(productID)
		if !rec.HasAccess() {
			// Snapshot and clear the binding in the same atomic write as
			// the emptied product set, so a racing claim can only observe
			// a clean, unbound, inactive record.
			teardown = snapshotBinding(rec)
			rec.TelegramID = nil
			rec.InviteLink = ""
		}
		return rec, nil
	})
	if err != nil {
		return Ignored, err
	}
	if !applied {
		return Ignored, nil
	}

	log.Info().
		Str("email", email).
		Str("product_id", productID).
		Bool("access_lost", teardown != nil).
		Msg("product revoked")

	if teardown != nil {
		p.runTeardown(ctx, email, teardown)
	}
	return Applied, nil
}
