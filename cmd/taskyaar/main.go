package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mjunaidk/taskyaar/common/environment"
	"github.com/mjunaidk/taskyaar/common/version"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/app"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	slog.Info("starting taskyaar", "version", version.Info())

	cfg, err := config.Load(environment.StringOr("CONFIG_PATH", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	assistant, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize taskyaar: %v\n", err)
		os.Exit(1)
	}
	defer assistant.Stop()

	if err := assistant.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running taskyaar: %v\n", err)
		os.Exit(1)
	}
}
