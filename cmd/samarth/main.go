package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/projectsamarth/samarth/internal/app"
	samarthcli "github.com/projectsamarth/samarth/internal/cli/samarth"
	"github.com/projectsamarth/samarth/internal/config"
	"github.com/projectsamarth/samarth/internal/conversation"
	"github.com/projectsamarth/samarth/internal/observability"
)

type appSession struct {
	app *app.App
}

func (s appSession) Submit(ctx context.Context, conversationID, question string) (conversation.Reply, error) {
	return s.app.Surface.Submit(ctx, conversationID, question)
}

func (s appSession) Schema() string { return s.app.Schema() }

func (s appSession) Close() error { return s.app.Close() }

func main() {
	_ = godotenv.Load()

	samarthcli.Execute(samarthcli.Options{
		Open: func(ctx context.Context) (samarthcli.Session, error) {
			cfg, err := config.LoadFromEnv("samarth")
			if err != nil {
				return nil, err
			}
			// Logs go to stderr so answers stay clean on stdout.
			logger := observability.NewLogger(cfg, os.Stderr)
			a, err := app.Bootstrap(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return appSession{app: a}, nil
		},
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: true,
	})
}
