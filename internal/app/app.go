package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/config"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/dispatch"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/domain"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/plan"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/scheduler"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/store"
	"github.com/reckel-jm/telegram-biblereadingschedulebot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server

	loc     *time.Location
	sendAtM int

	repo   store.Repo
	router *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	sendAtM, err := domain.ParseSendTime(cfg.SendAt)
	if err != nil {
		return nil, fmt.Errorf("send time %q: %w", cfg.SendAt, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv, loc: loc, sendAtM: sendAtM}, nil
}

func (a *App) loadPlan() (*plan.Plan, error) {
	if a.cfg.PlanPath != "" {
		return plan.LoadFile(a.cfg.PlanPath)
	}
	return plan.LoadDefault()
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting bible reading bot",
		zap.String("sendAt", a.cfg.SendAt),
		zap.String("tz", a.cfg.Timezone),
		zap.Bool("catchUp", a.cfg.CatchUp),
		zap.String("http", a.cfg.HTTPAddr),
	)

	readingPlan, err := a.loadPlan()
	if err != nil {
		a.log.Error("load reading plan failed", zap.Error(err))
		return err
	}
	a.log.Info("reading plan loaded", zap.Int("days", readingPlan.Len()))

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	dayOfYear := func() int { return time.Now().In(a.loc).YearDay() }
	a.router = telegram.NewRouter(a.bot, a.log, a.repo, dayOfYear)

	dispatcher := dispatch.New(a.repo, readingPlan, a.router, a.log, a.cfg.SendPoll)
	a.router.SetToday(dispatcher)

	sched := scheduler.New(a.repo, dispatcher, a.log, a.loc, a.sendAtM, a.cfg.CatchUp)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()
	go sched.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
