package app

import (
	"context"
	"net/http"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/access"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/bot"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/config"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/gateway"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/telegram"
)

// App bundles the two inbound surfaces (Hotmart webhook server, Telegram
// claim poller) over the shared store.
type App struct {
	httpServer *http.Server
	bot        *bot.Bot
	botDone    chan struct{}
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, cleanup, err := setupStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tgClient := telegram.NewClient(cfg.TelegramToken)
	gw := gateway.NewTelegram(tgClient, cfg.GroupID)

	processor := access.NewProcessor(store, gw)
	binder := access.NewBinder(store, gw)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: setupRouter(processor),
	}

	return &App{
		httpServer: server,
		bot:        bot.New(tgClient, binder),
		botDone:    make(chan struct{}),
		cleanup:    cleanup,
	}, nil
}

// Run serves the webhook endpoint. It blocks like http.ListenAndServe.
func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// RunBot polls Telegram until ctx is canceled, draining in-flight claims
// before returning.
func (a *App) RunBot(ctx context.Context) error {
	defer close(a.botDone)
	return a.bot.Run(ctx)
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	select {
	case <-a.botDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
