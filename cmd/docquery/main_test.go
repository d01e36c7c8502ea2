package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestAppFlags(t *testing.T) {
	flags := appFlags()

	findString := func(name string) *cli.StringFlag {
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
				return f
			}
		}
		return nil
	}

	t.Run("db has a default path", func(t *testing.T) {
		f := findString("db")
		require.NotNil(t, f)
		assert.Equal(t, "docquery-tasks", f.Value)
		assert.Contains(t, f.Aliases, "d")
	})

	t.Run("data-dir has a default path", func(t *testing.T) {
		f := findString("data-dir")
		require.NotNil(t, f)
		assert.Equal(t, "docquery-data", f.Value)
	})

	t.Run("embedding-host defaults to empty", func(t *testing.T) {
		f := findString("embedding-host")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
		assert.Contains(t, f.EnvVars, "DOCQUERY_EMBEDDING_HOST")
	})

	t.Run("chat-host defaults to empty", func(t *testing.T) {
		f := findString("chat-host")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})

	t.Run("parse-url defaults to stub mode", func(t *testing.T) {
		f := findString("parse-url")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})
}

func TestIndexCommandArgs(t *testing.T) {
	app := &cli.App{
		Name: "docquery",
		Commands: []*cli.Command{
			{
				Name:   "index",
				Action: indexCommand,
				Flags:  appFlags(),
			},
		},
	}

	t.Run("requires owner and document arguments", func(t *testing.T) {
		err := app.Run([]string{"docquery", "index", "owner-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document-id")
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "DeBuG"})
		require.NoError(t, err)
	})

	t.Run("invalid level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("restores a usable default logger", func(t *testing.T) {
		require.NoError(t, newApp().Run([]string{"test", "--log-level", "info"}))
		assert.NotNil(t, slog.Default())
	})
}
