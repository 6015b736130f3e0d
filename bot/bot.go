package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"status-board/command"
	"status-board/config"
	"status-board/database"
	"status-board/grpc"
	"status-board/models"
	"status-board/status"
	"status-board/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Bot encapsulates the bot's state.
type Bot struct {
	Session    *discordgo.Session
	Config     *models.Config
	Controller *status.Controller
	Auth       *utils.Auth
	Commands   map[string]command.Command
	StartedAt  time.Time

	store     database.BoardStore
	health    *grpc.HealthServer
	scheduler *cron.Cron
	logger    *zap.Logger
}

// NewBot loads the configuration and wires the session, persistence, health endpoint and
// status controller together.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	utils.SetLogger(logger)

	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildPresences

	store, err := database.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("error opening board storage: %w", err)
	}

	opts := []status.Option{status.WithLogger(logger.Named("status"))}
	var health *grpc.HealthServer
	if cfg.GRPC.Address != "" {
		health = grpc.NewHealthServer(cfg.GRPC.Address, logger.Named("health"))
		opts = append(opts, status.WithReporter(health))
	}

	controller := status.NewController(NewDiscordPlatform(dg), store, opts...)
	if err := controller.Load(); err != nil {
		store.Close()
		return nil, err
	}

	return &Bot{
		Session:    dg,
		Config:     cfg,
		Controller: controller,
		Auth:       utils.NewAuth(cfg.Commands.Auth),
		Commands:   make(map[string]command.Command),
		store:      store,
		health:     health,
		logger:     logger,
	}, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []command.Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	b.StartedAt = time.Now()
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	utils.InitLogger(b.Session, b.Config.Bot.AdminChannelID)

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			utils.Warn("bot", "register command", fmt.Sprintf("cannot create '%v' command: %v", cmd.Definition().Name, err))
		}
	}

	if b.health != nil {
		if err := b.health.Start(); err != nil {
			utils.Error("bot", "health server", err.Error())
		}
	}

	if err := b.startScheduler(); err != nil {
		return err
	}

	b.logger.Info("bot is now running, press CTRL-C to exit")
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	b.stopScheduler()
	if err := b.Controller.Persist(); err != nil {
		b.logger.Error("final persist failed", zap.Error(err))
	}
	if b.store != nil {
		b.store.Close()
	}
	if b.health != nil {
		b.health.Stop()
	}
	if b.Session != nil {
		b.Session.Close()
	}
	b.logger.Info("bot stopped gracefully")
	_ = b.logger.Sync()
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []command.Command) {
	bot, err := NewBot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing bot: %v\n", err)
		os.Exit(1)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		bot.logger.Fatal("error starting bot", zap.Error(err))
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
