package main

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/turbot/flowpipe-form/internal/cache"
	"github.com/turbot/flowpipe-form/internal/cmd"
	"github.com/turbot/flowpipe-form/internal/log"
)

var (
	// These variables will be set by GoReleaser.
	version = "0.0.1-local.1"
	commit  = "none"
	date    = "unknown"
	builtBy = "local"
)

func main() {
	// Create a single, global context for the application
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic", "recovered", r)
		}
	}()

	log.SetDefaultLogger()
	cache.InMemoryInitialize(nil)

	viper.SetDefault("main.version", version)
	viper.SetDefault("main.commit", commit)
	viper.SetDefault("main.date", date)
	viper.SetDefault("main.builtBy", builtBy)

	// Run the CLI
	cmd.RunCLI(ctx)
}
