package access

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/member"
)

// bindingSnapshot captures who held access at the moment the product set
// emptied. The record itself is already persisted clean by then; the
// snapshot only drives outbound side effects.
type bindingSnapshot struct {
	telegramID *int64
	inviteLink string
}

func snapshotBinding(rec *member.Record) *bindingSnapshot {
	if rec.TelegramID == nil && rec.InviteLink == "" {
		return nil
	}
	return &bindingSnapshot{
		telegramID: rec.TelegramID,
		inviteLink: rec.InviteLink,
	}
}

// runTeardown evicts the previous holder and kills the outstanding
// invite. Both actions are best-effort and independent: one failing must
// not stop the other, and neither failure reaches the webhook sender. A
// crash before either call is recoverable because both are no-ops once
// the member is absent and the link dead.
func (p *Processor) runTeardown(ctx context.Context, email string, snap *bindingSnapshot) {
	if snap.telegramID != nil {
		if err := p.gw.RemoveMember(ctx, *snap.telegramID); err != nil {
			log.Warn().
				Err(err).
				Str("email", email).
				Int64("telegram_id", *snap.telegramID).
				Msg("failed to remove lapsed member")
		} else {
			log.Info().
				Str("email", email).
				Int64("telegram_id", *snap.telegramID).
				Msg("lapsed member removed")
		}
	}

	if snap.inviteLink != "" {
		if err := p.gw.RevokeInvite(ctx, snap.inviteLink); err != nil {
			log.Warn().
				Err(err).
				Str("email", email).
				Msg("failed to revoke outstanding invite")
		}
	}
}
