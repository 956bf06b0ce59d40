package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/leaguehub/internal/news"
	"github.com/omarshaarawi/leaguehub/internal/service"
)

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, leagueService *service.LeagueService, gate *news.Gate) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(leagueService, gate),
		chatID:  chatID,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	serve(ctx, updates, t.handler, t.bot)
	return nil
}

type commandHandler interface {
	HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// slowCommands reach the upstream API on demand and are answered off the
// update loop. Everything else is answered in arrival order.
var slowCommands = map[string]bool{"ledger": true}

// serve answers commands until updates closes or ctx is done, then waits for
// in-flight slow commands.
func serve(ctx context.Context, updates <-chan tgbotapi.Update, h commandHandler, out sender) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !slowCommands[update.Message.Command()] {
				answer(ctx, update, h, out)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				answer(ctx, update, h, out)
			}()
		case <-ctx.Done():
			return
		}
	}
}

func answer(ctx context.Context, update tgbotapi.Update, h commandHandler, out sender) {
	msg := h.HandleCommand(ctx, update)
	if _, err := out.Send(msg); err != nil {
		slog.Error("Error sending message", "command", update.Message.Command(), "error", err)
	}
}

// SendMessage posts Markdown text to the league chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		slog.Error("Chat ID not set")
		return fmt.Errorf("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Error sending message", "error", err)
	}
	return err
}
