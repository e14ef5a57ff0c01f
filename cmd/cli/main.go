package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/parallaxhq/parallax/internal/buildinfo"
	"github.com/parallaxhq/parallax/internal/client/cli"
	"github.com/parallaxhq/parallax/internal/client/config"
	"github.com/parallaxhq/parallax/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	sl := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(sl)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
