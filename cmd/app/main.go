package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// loadConfig builds the effective configuration: defaults, then the optional
// YAML config file, then CLI flag / env overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if dir := cmd.String("dir"); dir != "" {
		cfg.Store.Path = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Personal note manager with per-note JSON files and a summary index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("ANSUZ_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "Path to the shared note store directory",
				DefaultText: "$HOME/Agentic/shared/notes",
				Sources:     cli.EnvVars("ANSUZ_NOTES_DIR"),
			},
		},
		Commands: []*cli.Command{
			createCommand(),
			listCommand(),
			viewCommand(),
			updateCommand(),
			deleteCommand(),
			searchCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
