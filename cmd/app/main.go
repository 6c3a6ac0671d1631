package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notetasks/internal"
	"github.com/starford/notetasks/internal/llm"
	pkgconfig "github.com/starford/notetasks/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

// loadConfig layers defaults, the YAML file and command-line overrides.
// A missing file is only an error when its path was given explicitly.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.LoadOptional[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("dir") {
		cfg.Notes.BaseDir = cmd.String("dir")
	}
	if cmd.IsSet("days") {
		cfg.Notes.MaxAgeDays = int(cmd.Int("days"))
	}
	if cmd.IsSet("dry-run") {
		cfg.Notes.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("model") {
		cfg.LLM.Model = cmd.String("model")
	}
	if cmd.IsSet("gemini-model") {
		cfg.LLM.GeminiModel = cmd.String("gemini-model")
	}
	if cmd.IsSet("ollama-url") {
		cfg.LLM.OllamaURL = cmd.String("ollama-url")
	}
	if cmd.IsSet("gemini") && cmd.Bool("gemini") {
		cfg.LLM.Provider = llm.ProviderGemini
	}
	if cmd.IsSet("provider") {
		cfg.LLM.Provider = cmd.String("provider")
	}

	if err := pkgconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func watch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app watch error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func history(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.History(ctx, int(cmd.Int("limit")), internal.WithConfig(cfg))
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "notetasks",
		Usage:   "Extract pending tasks from recent dated Markdown notes with a local or hosted chat model",
		Version: internal.Version,
		Action:  run,
		Flags:   rootFlags(),
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Scan once and print the task report (default)",
				Action: run,
			},
			{
				Name:   "watch",
				Usage:  "Keep rescanning on a schedule and when notes change",
				Action: watch,
			},
			{
				Name:   "mcp",
				Usage:  "Serve note selection and task extraction over MCP on stdio",
				Action: serveMCP,
			},
			{
				Name:   "history",
				Usage:  "Print recent runs from the journal",
				Action: history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of runs to show",
						Value: 20,
					},
				},
			},
		},
	}
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: defaultConfigPath,
			Value:       defaultConfigPath,
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Base directory with one subdirectory per subject",
			Sources: cli.EnvVars("NOTES_DIR", "DIRECTORIO_NOTAS"),
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Only process notes dated within this many days",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Summarize without stamping the processed marker",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Ollama model name",
			Sources: cli.EnvVars("OLLAMA_MODEL"),
		},
		&cli.StringFlag{
			Name:    "ollama-url",
			Usage:   "Ollama chat endpoint",
			Sources: cli.EnvVars("OLLAMA_URL"),
		},
		&cli.BoolFlag{
			Name:    "gemini",
			Usage:   "Use the Gemini backend",
			Sources: cli.EnvVars("USE_GEMINI"),
		},
		&cli.StringFlag{
			Name:    "gemini-model",
			Usage:   "Gemini model name",
			Sources: cli.EnvVars("GEMINI_MODEL"),
		},
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Chat backend: ollama or gemini",
			Sources: cli.EnvVars("LLM_PROVIDER"),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
