package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"status-board/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

// embedSender is the part of a discordgo session the admin-channel mirror needs.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	mu        sync.RWMutex
	logger    = zap.NewNop()
	session   embedSender
	channelID string
)

// NewLogger builds a zap logger from the logging configuration.
func NewLogger(cfg models.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the process-wide logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// InitLogger mirrors warnings and errors into the admin channel through the session.
func InitLogger(s embedSender, adminChannelID string) {
	mu.Lock()
	session = s
	channelID = adminChannelID
	mu.Unlock()

	if adminChannelID == "" {
		L().Warn("bot.adminChannelId is not set, logging to channel will be disabled")
	}
}

// Log writes the entry through zap and, for WARN and ERROR, posts it to the admin channel.
func Log(level, module, operation, details string) {
	fields := []zap.Field{
		zap.String("module", module),
		zap.String("operation", operation),
	}

	var color int
	switch level {
	case "WARN":
		color = ColorWarn
		L().Warn(details, fields...)
	case "ERROR":
		color = ColorError
		L().Error(details, fields...)
	default:
		L().Info(details, fields...)
		return
	}

	mu.RLock()
	s, ch := session, channelID
	mu.RUnlock()
	if s == nil || ch == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module, Inline: true},
			{Name: "Operation", Value: operation, Inline: true},
			{Name: "Details", Value: details},
		},
	}

	if _, err := s.ChannelMessageSendEmbed(ch, embed); err != nil {
		L().Error("sending log message to Discord failed", zap.Error(err))
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
