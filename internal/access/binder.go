package access

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/gateway"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/member"
)

// ClaimStatus classifies the outcome of an identity claim.
type ClaimStatus int

const (
	// Denied: no record, or no active product for the email.
	Denied ClaimStatus = iota
	// AlreadyBound: the claiming user already holds the binding; no new
	// invite is minted so the invite quota is not burned on re-checks.
	AlreadyBound
	// Granted: the binding now points at the claiming user and a fresh
	// single-use invite was issued.
	Granted
)

// ClaimResult carries the status plus the invite link on Granted.
type ClaimResult struct {
	Status     ClaimStatus
	InviteLink string
}

// Binder enforces one-active-Telegram-user-per-entitlement. A claim by a
// new user evicts the previous holder (last writer wins), rotates the
// invite link and rebinds, all inside the store's per-email critical
// section so racing claims cannot both win.
type Binder struct {
	store member.Store
	gw    gateway.Gateway
}

func NewBinder(store member.Store, gw gateway.Gateway) *Binder {
	return &Binder{store: store, gw: gw}
}

// Claim binds telegramID to the subscriber identified by email.
// The returned error is the one failure a claiming user must hear about:
// invite creation failed and they should retry. Everything else resolves
// to a ClaimStatus.
func (b *Binder) Claim(ctx context.Context, email string, telegramID int64) (ClaimResult, error) {
	email = member.NormalizeEmail(email)
	if email == "" {
		return ClaimResult{Status: Denied}, nil
	}

	var result ClaimResult

	err := b.store.Update(ctx, email, func(rec *member.Record) (*member.Record, error) {
		if rec == nil || !rec.HasAccess() {
			result = ClaimResult{Status: Denied}
			return nil, nil
		}

		if rec.BoundTo(telegramID) {
			result = ClaimResult{Status: AlreadyBound}
			return nil, nil
		}

		// Evict the previous holder first. Failure here means they were
		// already gone, which is the state we want anyway.
		if rec.TelegramID != nil {
			if err := b.gw.RemoveMember(ctx, *rec.TelegramID); err != nil {
				log.Warn().
					Err(err).
					Str("email", email).
					Int64("old_telegram_id", *rec.TelegramID).
					Msg("failed to remove previous holder")
			} else {
				log.Info().
					Str("email", email).
					Int64("old_telegram_id", *rec.TelegramID).
					Int64("new_telegram_id", telegramID).
					Msg("previous holder evicted for rebind")
			}
		}

		if rec.InviteLink != "" {
			if err := b.gw.RevokeInvite(ctx, rec.InviteLink); err != nil {
				log.Warn().
					Err(err).
					Str("email", email).
					Msg("failed to revoke superseded invite")
			}
		}

		// Invite creation is the point of no return: if it fails, the
		// record must keep its previous binding untouched.
		link, err := b.gw.CreateInvite(ctx, "Aluno "+email)
		if err != nil {
			return nil, fmt.Errorf("create invite for %s: %w", email, err)
		}

		rec.TelegramID = &telegramID
		rec.InviteLink = link
		result = ClaimResult{Status: Granted, InviteLink: link}
		return rec, nil
	})
	if err != nil {
		return ClaimResult{}, err
	}

	if result.Status == Granted {
		log.Info().
			Str("email", email).
			Int64("telegram_id", telegramID).
			Msg("access granted")
	}
	return result, nil
}
