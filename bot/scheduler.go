package bot

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// sweep refreshes every bound guild, bounded by one refresh interval.
func (b *Bot) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), b.Config.Bot.RefreshInterval)
	defer cancel()
	b.Controller.RefreshAll(ctx)
}

// startScheduler starts the periodic status sweep.
func (b *Bot) startScheduler() error {
	b.logger.Info("initializing scheduler")
	clog := cronLogger{s: b.logger.Named("cron").Sugar()}
	b.scheduler = cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	schedule := "@every " + b.Config.Bot.RefreshInterval.String()
	if _, err := b.scheduler.AddFunc(schedule, b.sweep); err != nil {
		return fmt.Errorf("could not set up status sweep %q: %w", schedule, err)
	}
	b.scheduler.Start()
	b.logger.Info("status sweep scheduled", zap.Duration("interval", b.Config.Bot.RefreshInterval))

	if b.Config.Bot.RefreshAtStartup {
		go func() {
			b.logger.Info("performing initial status sweep")
			b.sweep()
		}()
	} else {
		b.logger.Info("skipping initial sweep as per configuration")
	}
	return nil
}

// stopScheduler stops the sweep and waits for a running one to finish.
func (b *Bot) stopScheduler() {
	if b.scheduler != nil {
		<-b.scheduler.Stop().Done()
		b.logger.Info("scheduler stopped")
	}
}
