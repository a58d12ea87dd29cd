package main

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"slfo/internal/application"
	"slfo/internal/delivery/discord"
	"slfo/internal/delivery/httpapi"
	"slfo/internal/delivery/telegram"
	"slfo/internal/observability"
	"slfo/internal/repository"
	"slfo/pkg/config"
	"slfo/pkg/logger"
	service "slfo/pkg/services"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&cfg.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Error("failed to init tracing: %s", err.Error())
		return
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("failed to flush traces: %s", err.Error())
		}
	}()

	repos, err := openRepository(&cfg.Repo, log)
	if err != nil {
		log.Error("failed to init storage: %s", err.Error())
		return
	}
	defer repos.Close()

	var (
		session         *discordgo.Session
		discordPlatform *discord.Platform
		platform        application.Platform
	)
	if cfg.DiscordToken != "" {
		session, err = discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			log.Error("failed to create discord session: %s", err.Error())
			return
		}
		discordPlatform = discord.NewPlatform(session)
		platform = discordPlatform
	} else {
		log.Warn("DISCORD_TOKEN is empty, running without Discord")
	}

	services := application.NewService(repos, platform, cfg.App, log)

	gin.SetMode(cfg.API.GinMode)
	tracing := ""
	if cfg.OTEL.Enabled {
		tracing = cfg.OTEL.ServiceName
	}
	router := httpapi.NewRouter(
		httpapi.NewHandlers(services.LinkService, services.CommandService, services.ProfileService),
		httpapi.RouterOptions{
			Config:  cfg.API,
			APIKey:  cfg.RobloxAPIKey,
			Logger:  log.Zerolog(),
			Tracing: tracing,
		},
	)

	manager := service.NewManager(log)
	manager.AddService(httpapi.NewServer(cfg.API, router, log))

	if session != nil {
		services.Hooks.Subscribe(discord.NewNotifier(discordPlatform, services.SettingsService, cfg.App.GuildID, log))
		manager.AddService(discord.NewBot(session, &cfg, services, log))
	}

	if cfg.Telegram.Enabled() {
		tg := telegram.NewBot(cfg.Telegram, services, log)
		services.Hooks.Subscribe(tg)
		manager.AddService(tg)
	}

	if err := manager.Run(ctx); err != nil {
		log.Error("failed to run services: %s", err.Error())
	}
	log.Info("Stopped")
}

func openRepository(cfg *repository.Config, log *logger.Logger) (*repository.Repository, error) {
	if cfg.Driver == repository.DriverMemory {
		log.Warn("Using in-memory storage, nothing survives a restart")
		return repository.NewMemoryRepository(), nil
	}

	db, err := repository.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("Running migrations...")
	if err := repository.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Migrations applied successfully")

	return repository.NewRepository(db), nil
}
