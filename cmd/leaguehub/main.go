package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/omarshaarawi/leaguehub/internal/api/fantasy"
	"github.com/omarshaarawi/leaguehub/internal/api/sleeper"
	"github.com/omarshaarawi/leaguehub/internal/bot"
	"github.com/omarshaarawi/leaguehub/internal/config"
	"github.com/omarshaarawi/leaguehub/internal/history"
	"github.com/omarshaarawi/leaguehub/internal/news"
	"github.com/omarshaarawi/leaguehub/internal/repository/memory"
	"github.com/omarshaarawi/leaguehub/internal/repository/sqlite"
	"github.com/omarshaarawi/leaguehub/internal/scheduler"
	"github.com/omarshaarawi/leaguehub/internal/service"
	"github.com/omarshaarawi/leaguehub/internal/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	league, err := config.LoadLeague(cfg.LeagueFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sleeperClient := sleeper.NewClient(cfg.SleeperAPI)
	sleeperAPI := sleeper.NewAPI(sleeperClient)
	fantasyAPI := fantasy.NewAPI(sleeperAPI)

	db, err := sqlite.Open(cfg.Storage.NewsDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	clock := clockwork.NewRealClock()
	feed := news.NewFeed(sqlite.NewNewsStore(db), clock)
	feed.Open(ctx)
	gate := news.NewGate(cfg.Admin.PasswordHash)

	repo := memory.NewRepository()
	leagueService := service.NewLeagueService(league, fantasyAPI, repo, feed, service.Options{
		Fees:     cfg.Fees,
		Policy:   history.Policy{MaxInFlight: cfg.Polling.MatchupConcurrency, MaxWeek: league.MaxWeek},
		Clock:    clock,
		Location: cfg.Location(),
	})

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, leagueService, gate)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(leagueService, telegramBot.SendMessage, scheduler.Config{
		PollInterval:   cfg.Polling.Interval,
		LedgerSchedule: cfg.Polling.LedgerSchedule,
		Location:       cfg.Location(),
		Clock:          clock,
	})
	if err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()
	slog.Info("Scheduler started", "jobs", sched.JobNames(), "league_id", league.LeagueID)

	server := web.NewServer(cfg.HTTP.Addr, leagueService)
	go func() {
		if err := server.ListenAndServe(ctx); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}
