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
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docquery"
	"github.com/poiesic/docquery/ai"
)

func main() {
	// A missing .env file is not an error; flags and real env still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "docquery",
		Usage: "Document analysis service with retrieval-grounded answers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"DOCQUERY_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(appFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address for the HTTP server to listen on",
						Value:   ":8080",
						EnvVars: []string{"DOCQUERY_LISTEN"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Size of the task worker pool",
						Value:   8,
						EnvVars: []string{"DOCQUERY_WORKERS"},
					},
				),
			},
			{
				Name:      "index",
				Usage:     "Index one stored source document and exit",
				ArgsUsage: "<owner-id> <document-id>",
				Action:    indexCommand,
				Flags:     appFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// appFlags are the flags shared by every command that wires the full app.
func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB task database directory",
			Value:   "docquery-tasks",
			EnvVars: []string{"DOCQUERY_DB"},
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Root directory for source documents and embedding records",
			Value:   "docquery-data",
			EnvVars: []string{"DOCQUERY_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL (empty disables embeddings)",
			EnvVars: []string{"DOCQUERY_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"DOCQUERY_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-host",
			Usage:   "Generative service host URL (empty disables chat)",
			EnvVars: []string{"DOCQUERY_CHAT_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"DOCQUERY_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "parse-url",
			Usage:   "Document parsing API URL (empty enables stub parsing)",
			EnvVars: []string{"DOCQUERY_PARSE_URL"},
		},
		&cli.StringFlag{
			Name:    "parse-key",
			Usage:   "Document parsing API key",
			EnvVars: []string{"DOCQUERY_PARSE_KEY"},
		},
		&cli.DurationFlag{
			Name:    "task-retention",
			Usage:   "How long completed task records remain readable",
			Value:   24 * time.Hour,
			EnvVars: []string{"DOCQUERY_TASK_RETENTION"},
		},
	}
}

func buildApp(c *cli.Context, extra ...docquery.AppOption) (*docquery.App, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
	)

	opts := append([]docquery.AppOption{
		docquery.WithAIConfig(aiConfig),
		docquery.WithParseService(c.String("parse-url"), c.String("parse-key")),
		docquery.WithTaskRetention(c.Duration("task-retention")),
	}, extra...)

	return docquery.NewApp(c.String("db"), c.String("data-dir"), opts...)
}

func serveCommand(c *cli.Context) error {
	app, err := buildApp(c, docquery.WithWorkers(c.Int("workers")))
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              c.String("listen"),
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <owner-id> <document-id>, got %d arguments", c.NArg())
	}
	ownerID := c.Args().Get(0)
	documentID := c.Args().Get(1)

	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Indexer().IndexDocument(context.Background(), ownerID, documentID)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %s/%s (%s): %d chunks at %s\n",
		result.OwnerID, result.DocumentID, result.DocType, result.ChunkCount, result.Location)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
