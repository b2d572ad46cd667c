package botclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"botops-svc/app/domains"
)

// CommandHandler executes one dispatched command and returns its result.
// A returned error acknowledges the command as failed.
type CommandHandler func(ctx context.Context, cmd domains.Command) (map[string]interface{}, error)

// Runner drives the bot side of the command loop: poll, execute,
// acknowledge, plus a periodic status report.
type Runner struct {
	client   *Client
	cfg      *Config
	handlers map[string]CommandHandler
}

// NewRunner creates a runner around a registered client.
func NewRunner(client *Client, cfg *Config) *Runner {
	return &Runner{
		client:   client,
		cfg:      cfg,
		handlers: make(map[string]CommandHandler),
	}
}

// Handle registers a handler for a command type. Commands with no handler
// are acknowledged as failed with an unknown-type result.
func (r *Runner) Handle(commandType string, handler CommandHandler) {
	r.handlers[commandType] = handler
}

// Run polls and reports until the context is cancelled. It reports the bot
// offline on the way out, best-effort.
func (r *Runner) Run(ctx context.Context) error {
	pollTicker := time.NewTicker(time.Duration(r.cfg.PollIntervalSec) * time.Second)
	defer pollTicker.Stop()
	statusTicker := time.NewTicker(time.Duration(r.cfg.StatusIntervalSec) * time.Second)
	defer statusTicker.Stop()

	if err := r.client.ReportStatus(ctx, domains.BotStatusOnline, r.cfg.Metadata); err != nil {
		log.Printf("initial status report failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := r.client.ReportStatus(shutdownCtx, domains.BotStatusOffline, nil); err != nil {
				log.Printf("offline status report failed: %v", err)
			}
			return ctx.Err()
		case <-statusTicker.C:
			if err := r.client.ReportStatus(ctx, domains.BotStatusOnline, nil); err != nil {
				log.Printf("status report failed: %v", err)
			}
		case <-pollTicker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	commands, err := r.client.PollCommands(ctx, r.cfg.PollLimit)
	if err != nil {
		log.Printf("poll failed: %v", err)
		return
	}

	for _, cmd := range commands {
		status := domains.CommandCompleted
		result, err := r.execute(ctx, cmd)
		if err != nil {
			status = domains.CommandFailed
			result = map[string]interface{}{"error": err.Error()}
		}
		if err := r.client.Acknowledge(ctx, cmd.ID, status, result); err != nil {
			log.Printf("ack failed for %s: %v", cmd.ID, err)
		}
	}
}

func (r *Runner) execute(ctx context.Context, cmd domains.Command) (map[string]interface{}, error) {
	handler, ok := r.handlers[cmd.Type]
	if !ok {
		return nil, fmt.Errorf("unknown command type: %s", cmd.Type)
	}
	return handler(ctx, cmd)
}
