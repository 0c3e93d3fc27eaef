// Package bot runs the identity-claim channel: a long-polling Telegram
// bot that takes a purchase email in a private chat and answers with a
// single-use group invite or a denial.
package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/access"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/telegram"
)

const (
	pollTimeout = 30 * time.Second
	pollBackoff = 3 * time.Second

	// ClaimTimeout bounds one claim end to end, gateway calls included.
	// It must stay below member.LockTTL: a claim still running when its
	// store lease expires would let a rival claim read stale binding
	// state.
	ClaimTimeout = time.Minute
)

type Bot struct {
	client *telegram.Client
	binder *access.Binder
}

func New(client *telegram.Client, binder *access.Binder) *Bot {
	return &Bot{client: client, binder: binder}
}

// Run polls for updates until ctx is canceled, then waits for in-flight
// claim handlers to finish so no claim is dropped mid-mutation.
func (b *Bot) Run(ctx context.Context) error {
	var (
		wg     sync.WaitGroup
		offset int64
	)
	defer wg.Wait()

	log.Info().Msg("bot polling started")

	for {
		updates, err := b.client.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("bot polling stopped")
				return nil
			}
			log.Error().Err(err).Msg("getUpdates failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollBackoff):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			msg := u.Message
			if msg == nil || msg.From == nil || msg.From.IsBot || msg.Chat.Type != "private" {
				continue
			}

			// Claims for distinct emails must not queue behind each
			// other; the store serializes per email where it matters.
			// Handlers get a context detached from the poll loop so a
			// shutdown drains in-flight claims instead of tearing them
			// apart mid-mutation.
			wg.Add(1)
			go func(msg *telegram.Message) {
				defer wg.Done()
				hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ClaimTimeout)
				defer cancel()
				b.handleMessage(hctx, msg)
			}(msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		if text == "/start" || strings.HasPrefix(text, "/start ") {
			b.reply(ctx, msg.Chat.ID, msgWelcome)
		}
		return
	}

	b.handleClaim(ctx, msg, text)
}

func (b *Bot) handleClaim(ctx context.Context, msg *telegram.Message, email string) {
	result, err := b.binder.Claim(ctx, email, msg.From.ID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("telegram_id", msg.From.ID).
			Msg("claim failed")
		b.reply(ctx, msg.Chat.ID, msgTechnicalError)
		return
	}

	switch result.Status {
	case access.Granted:
		b.reply(ctx, msg.Chat.ID, msgGranted(result.InviteLink))
	case access.AlreadyBound:
		b.reply(ctx, msg.Chat.ID, msgAlreadyBound)
	default:
		b.reply(ctx, msg.Chat.ID, msgDenied)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
	}
}
