package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/telegram"
)

// Telegram implements Gateway against one Telegram group.
//
// Removal is ban-then-unban: the ban kicks the member, the immediate
// unban takes them off the block list so a future invite still works.
type Telegram struct {
	client *telegram.Client
	chatID int64
}

func NewTelegram(client *telegram.Client, chatID int64) *Telegram {
	return &Telegram{client: client, chatID: chatID}
}

func (t *Telegram) CreateInvite(ctx context.Context, label string) (string, error) {
	link, err := t.client.CreateChatInviteLink(ctx, t.chatID, label, 1)
	if err != nil {
		return "", fmt.Errorf("gateway: create invite: %w", err)
	}
	return link.InviteLink, nil
}

func (t *Telegram) RevokeInvite(ctx context.Context, inviteLink string) error {
	err := t.client.RevokeChatInviteLink(ctx, t.chatID, inviteLink)
	if alreadyClean(err) {
		log.Debug().Str("invite_link", inviteLink).Msg("invite already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("gateway: revoke invite: %w", err)
	}
	return nil
}

func (t *Telegram) RemoveMember(ctx context.Context, memberID int64) error {
	if err := t.client.BanChatMember(ctx, t.chatID, memberID); err != nil {
		if alreadyClean(err) {
			log.Debug().Int64("member_id", memberID).Msg("member already absent")
			return nil
		}
		return fmt.Errorf("gateway: remove member %d: %w", memberID, err)
	}

	if err := t.client.UnbanChatMember(ctx, t.chatID, memberID); err != nil {
		// The kick itself worked; a failed unban only leaves the user on
		// the block list until the next removal attempt.
		return fmt.Errorf("gateway: unban member %d: %w", memberID, err)
	}
	return nil
}

// alreadyClean matches Bot API rejections that mean the target state is
// already what we wanted (member absent, link consumed or revoked).
func alreadyClean(err error) bool {
	var apiErr *telegram.APIError
	return errors.As(err, &apiErr) && apiErr.Code == 400
}
