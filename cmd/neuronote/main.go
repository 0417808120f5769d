// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	neuronote "github.com/Rzhan16/neuronote-ai"
	"github.com/Rzhan16/neuronote-ai/api"
	"github.com/Rzhan16/neuronote-ai/config"
	"github.com/Rzhan16/neuronote-ai/core"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML configuration file",
		EnvVars: []string{"NEURONOTE_CONFIG"},
	}

	return &cli.App{
		Name:  "neuronote",
		Usage: "Turn images, recordings and text into summarized, tagged study notes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "submit",
				Usage:  "Run a file through the pipeline and print the note ID",
				Action: submitCommand,
				Flags: []cli.Flag{
					configFlag,
					&cli.PathFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Image, WAV recording or text file",
						Required: true,
					},
				},
			},
			{
				Name:   "show",
				Usage:  "Print a stored note as JSON",
				Action: showCommand,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Note ID",
						Required: true,
					},
				},
			},
			{
				Name:   "summarize",
				Usage:  "Summarize a text file without storing anything",
				Action: summarizeCommand,
				Flags: []cli.Flag{
					configFlag,
					&cli.PathFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Text file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "style",
						Usage: "Summary style (paragraph, bullets)",
						Value: string(core.SummaryParagraph),
					},
				},
			},
		},
	}
}

// openService loads the configuration and builds the service.
func openService(c *cli.Context) (*neuronote.Service, *config.Config, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	svc, err := neuronote.Open(c.Context, cfg, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open service: %w", err)
	}
	return svc, cfg, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return err
	}

	// Server logs are structured JSON at the configured level.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Addr),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("text_model", cfg.AI.TextModel),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := neuronote.Open(c.Context, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	router := api.NewRouter(svc, cfg.App.HTTP.MaxUploadBytes(), logger)
	return api.Serve(c.Context, cfg.App.HTTP.Addr, router, cfg.App.HTTP.ShutdownTimeout, logger)
}

func submitCommand(c *cli.Context) error {
	raw, err := os.ReadFile(c.Path("file"))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := svc.Submit(ctx, raw)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

func showCommand(c *cli.Context) error {
	id, err := core.ParseNoteID(c.String("id"))
	if err != nil {
		return err
	}

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	rec, err := svc.GetNote(c.Context, id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func summarizeCommand(c *cli.Context) error {
	style, err := core.ParseSummaryStyle(strings.ToLower(c.String("style")))
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(c.Path("file"))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	summary, err := svc.SummarizeOnly(c.Context, string(raw), style)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, summary)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
