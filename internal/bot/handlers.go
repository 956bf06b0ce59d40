package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/leaguehub/internal/news"
	"github.com/omarshaarawi/leaguehub/internal/service"
	"github.com/omarshaarawi/leaguehub/internal/stats"
)

const homeRankings = 5

const helpText = `Available commands:
/power - Power rankings
/standings [rank|team|record|pf|pa|avg] [asc|desc] - Standings by division
/playoffs - Playoff picture
/scores - Latest final scores and trophies
/rivalries - All-time rivalry records
/records - League records
/champions - Champions and best regular seasons
/ledger [from] [to] - Transaction fees (YYYY-MM-DD)
/recap - Weekly recap
/dates - Key dates countdown
/week - Current NFL week
/team <name> - Team summary
/news - League news

Admin: /login <password>, /post <text>, /archive <id>, /clear, /logout`

type Handler struct {
	leagueService *service.LeagueService
	gate          *news.Gate
}

func NewHandler(leagueService *service.LeagueService, gate *news.Gate) *Handler {
	return &Handler{leagueService: leagueService, gate: gate}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to LeagueHub! Use /help to see available commands.\n\n" + h.leagueService.PowerRankings(homeRankings)
	case "help":
		msg.Text = helpText
		msg.ParseMode = ""
	case "power":
		msg.Text = h.leagueService.PowerRankings(0)
	case "standings":
		h.handleStandings(&msg, args)
	case "playoffs":
		msg.Text = h.leagueService.Playoffs()
	case "scores":
		msg.Text = h.leagueService.Results()
	case "rivalries":
		msg.Text = h.leagueService.Rivalries()
	case "records":
		msg.Text = h.leagueService.Records()
	case "champions":
		msg.Text = h.leagueService.Champions()
	case "ledger":
		h.handleLedger(ctx, &msg, args)
	case "recap":
		msg.Text = h.leagueService.Recap()
	case "dates":
		msg.Text = h.leagueService.Dates()
	case "week":
		msg.Text = h.leagueService.Week()
	case "team":
		h.handleTeam(&msg, args)
	case "news":
		msg.Text = h.leagueService.News()
	case "login":
		h.handleLogin(&msg, update.Message, args)
	case "logout":
		h.gate.Logout(userID(update.Message))
		msg.Text = "Logged out."
	case "post":
		h.handlePost(ctx, &msg, update.Message, args)
	case "archive":
		h.handleArchive(ctx, &msg, update.Message, args)
	case "clear":
		h.handleClear(ctx, &msg, update.Message)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func userID(m *tgbotapi.Message) int64 {
	if m.From == nil {
		return 0
	}
	return m.From.ID
}

func (h *Handler) handleStandings(msg *tgbotapi.MessageConfig, args string) {
	key, dir := stats.SortRank, stats.Asc
	fields := strings.Fields(args)
	if len(fields) > 0 {
		k, ok := stats.ParseSortKey(fields[0])
		if !ok {
			msg.Text = "Unknown sort key. Use one of: rank, team, record, pf, pa, avg"
			msg.ParseMode = ""
			return
		}
		key, dir = k, stats.DefaultDirection(k)
	}
	if len(fields) > 1 {
		d, ok := stats.ParseDirection(fields[1])
		if !ok {
			msg.Text = "Sort direction must be asc or desc"
			msg.ParseMode = ""
			return
		}
		dir = d
	}
	msg.Text = h.leagueService.Standings(key, dir)
}

func (h *Handler) handleLedger(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	fields := strings.Fields(args)
	var from, to string
	if len(fields) > 0 {
		from = fields[0]
	}
	if len(fields) > 1 {
		to = fields[1]
	}

	r, err := h.leagueService.ParseLedgerRange(from, to)
	if err != nil {
		msg.Text = fmt.Sprintf("Error reading dates: %v. Usage: /ledger [YYYY-MM-DD] [YYYY-MM-DD]", err)
		msg.ParseMode = ""
		return
	}
	if _, err := h.leagueService.SyncLedger(ctx, r); err != nil && ctx.Err() != nil {
		msg.Text = "Ledger sync was interrupted."
		return
	}
	msg.Text = h.leagueService.Ledger()
}

func (h *Handler) handleTeam(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	result, err := h.leagueService.TeamReport(args)
	if err != nil {
		msg.Text = fmt.Sprintf("Error finding team: %v", err)
		msg.ParseMode = ""
	} else {
		msg.Text = result
	}
}

func (h *Handler) handleLogin(msg *tgbotapi.MessageConfig, m *tgbotapi.Message, args string) {
	if !m.Chat.IsPrivate() {
		msg.Text = "Send /login in a private chat with the bot."
		return
	}
	if args == "" {
		msg.Text = "Usage: /login <password>"
		return
	}
	switch err := h.gate.Login(userID(m), args); {
	case errors.Is(err, news.ErrBadPassword):
		msg.Text = "Incorrect password."
	case err != nil:
		msg.Text = fmt.Sprintf("Login unavailable: %v", err)
	default:
		msg.Text = "Logged in. You can now /post, /archive and /clear league news."
	}
}

// requireAdmin reports whether the sender has an admin session, answering
// msg when they do not.
func (h *Handler) requireAdmin(msg *tgbotapi.MessageConfig, m *tgbotapi.Message) bool {
	if h.gate.IsAdmin(userID(m)) {
		return true
	}
	msg.Text = "Admin only. Use /login <password> in a private chat first."
	return false
}

func (h *Handler) handlePost(ctx context.Context, msg *tgbotapi.MessageConfig, m *tgbotapi.Message, args string) {
	if !h.requireAdmin(msg, m) {
		return
	}
	item, err := h.leagueService.AddNews(ctx, args)
	switch {
	case errors.Is(err, news.ErrEmptyContent):
		msg.Text = "Usage: /post <news text>"
	case err != nil:
		msg.Text = fmt.Sprintf("Error posting news: %v", err)
	default:
		msg.Text = fmt.Sprintf("Posted news #%d.", item.ID)
	}
}

func (h *Handler) handleArchive(ctx context.Context, msg *tgbotapi.MessageConfig, m *tgbotapi.Message, args string) {
	if !h.requireAdmin(msg, m) {
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args, "#"), 10, 64)
	if err != nil {
		msg.Text = "Usage: /archive <id> (ids are shown in /news)"
		return
	}
	switch err := h.leagueService.ArchiveNews(ctx, id); {
	case errors.Is(err, news.ErrNotFound):
		msg.Text = fmt.Sprintf("No news item #%d.", id)
	case err != nil:
		msg.Text = fmt.Sprintf("Error archiving news: %v", err)
	default:
		msg.Text = fmt.Sprintf("Archived news #%d.", id)
	}
}

func (h *Handler) handleClear(ctx context.Context, msg *tgbotapi.MessageConfig, m *tgbotapi.Message) {
	if !h.requireAdmin(msg, m) {
		return
	}
	removed, err := h.leagueService.ClearArchivedNews(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error clearing archived news: %v", err)
		return
	}
	msg.Text = fmt.Sprintf("Deleted %d archived news items.", removed)
}
