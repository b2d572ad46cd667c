package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"botops-svc/app/domains"
	"botops-svc/botclient"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := botclient.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := botclient.NewClient(cfg.ServerURL, cfg.BotID)
	if err := client.Register(ctx, cfg.Name, cfg.Metadata); err != nil {
		log.Fatalf("failed to register bot: %v", err)
	}
	log.Printf("bot %s registered with %s", cfg.BotID, cfg.ServerURL)

	runner := botclient.NewRunner(client, cfg)

	runner.Handle("send_message", func(ctx context.Context, cmd domains.Command) (map[string]interface{}, error) {
		text, _ := cmd.Payload["text"].(string)
		log.Printf("send_message: %q", text)
		return map[string]interface{}{"delivered": true}, nil
	})

	runner.Handle("restart", func(ctx context.Context, cmd domains.Command) (map[string]interface{}, error) {
		log.Printf("restart requested")
		return map[string]interface{}{"restarting": true}, nil
	})

	runner.Handle("stop", func(ctx context.Context, cmd domains.Command) (map[string]interface{}, error) {
		log.Printf("stop requested")
		go func() {
			time.Sleep(time.Second)
			stop()
		}()
		return map[string]interface{}{"stopping": true}, nil
	})

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runner stopped: %v", err)
	}
}
