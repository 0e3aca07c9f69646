package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/go-telegram/bot"
	"github.com/smith3v/dove-bot/pkg/bot/handlers"
	"github.com/smith3v/dove-bot/pkg/bot/onboarding"
	"github.com/smith3v/dove-bot/pkg/bot/reminders"
	"github.com/smith3v/dove-bot/pkg/config"
	"github.com/smith3v/dove-bot/pkg/db"
	"github.com/smith3v/dove-bot/pkg/deck"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/quotes"
	"gorm.io/gorm"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"config.json" env:"DOVE_CONFIG"`
	Token   string `help:"Telegram bot token, overrides the config file." env:"DOVE_TELEGRAM_TOKEN"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("dove-bot"),
		kong.Description("Daily scripture quotes with favorites and prayer reminders"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := config.LoadConfig(CLI.Config); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.AppConfig
	if CLI.Token != "" {
		cfg.Telegram.Token = CLI.Token
	}
	if err := logger.Configure(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	gdb, err := db.Open(cfg.Database, cfg.Logging.GormLevel)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	catalog, err := quotes.Load(cfg.Quotes.File)
	if err != nil {
		logger.Error("failed to load quote catalog", "file", cfg.Quotes.File, "error", err)
		os.Exit(1)
	}
	logger.Info("quote catalog loaded", "quotes", catalog.Count())

	store := openStore(cfg.Store, gdb)
	writer := prefs.NewWriter(store, 0)
	defer writer.Close()

	defaultOffset := cfg.Reminders.DefaultTimezoneOffsetHours
	settings := reminders.NewSettings(gdb, defaultOffset)
	manager := deck.NewManager(deck.Options{
		Catalog:       catalog,
		Reader:        store,
		Writer:        writer,
		Offsets:       settings,
		DefaultOffset: defaultOffset,
	})
	h := handlers.New(handlers.Options{
		Deck:       manager,
		Prefs:      store,
		Writer:     writer,
		Settings:   settings,
		Scheduler:  reminders.NewScheduler(gdb, nil),
		Onboarding: onboarding.NewService(gdb, writer),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(cfg.Telegram.Token, bot.WithDefaultHandler(h.DefaultHandler))
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	h.Register(b)

	go reminders.StartPeriodicMessages(ctx, gdb, b, defaultOffset)
	go manager.StartSweeper(ctx)
	go db.StartOnboardingCleanup(ctx, gdb)

	logger.Info("Starting bot...")
	b.Start(ctx)
}

func openStore(cfg config.StoreConfig, gdb *gorm.DB) prefs.Store {
	if cfg.Driver == config.StoreDriverDiskv {
		logger.Info("using diskv preference store", "path", cfg.Path)
		return prefs.NewDiskvStore(cfg.Path, cfg.CacheSizeBytes)
	}
	return prefs.NewGormStore(gdb)
}
