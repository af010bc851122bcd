// Daybookd is the Daybook server: a universal input endpoint that turns
// voice notes, typed text, images, and video into categorized records.
//
// Configuration is loaded from a single YAML file discovered
// automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	daybookd                 Start the server
//	daybookd -config p.yaml  Start with an explicit config file
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/daybook-ai/daybook/internal/api"
	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/calendar"
	"github.com/daybook-ai/daybook/internal/config"
	"github.com/daybook-ai/daybook/internal/digest"
	"github.com/daybook-ai/daybook/internal/intent"
	"github.com/daybook-ai/daybook/internal/llm"
	"github.com/daybook-ai/daybook/internal/notify"
	"github.com/daybook-ai/daybook/internal/pipeline"
	"github.com/daybook-ai/daybook/internal/store"
	"github.com/daybook-ai/daybook/internal/transcribe"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for database/sql
)

// main constructs the OS-level environment and delegates to run, which
// keeps os.Exit and os.Args out of the application logic.
func main() {
	if err := run(context.Background(), os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer, args []string) error {
	// Manual flag parsing avoids the flag package's global state.
	var configPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	configPath, err := config.FindConfig(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		level, err = config.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
	}
	logger := newLogger(stdout, level)
	logger.Info("starting daybookd", "config", configPath, "port", cfg.Listen.Port)

	loc := cfg.Location()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}
	st, err := store.New(cfg.DataDir + "/daybook.db")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	// SIGINT/SIGTERM flow through the same ctx used by every component.
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	llmClient := llm.NewAnthropicClient(cfg.Anthropic.APIKey, logger)
	classifier := intent.NewLLMClassifier(llmClient, cfg.Anthropic.IntentModel, logger)
	matcher := pipeline.NewLLMMatcher(llmClient, cfg.MatcherModel(), logger)

	var opts []pipeline.Option

	// External calendar. Optional; entries persist either way.
	if cfg.CalDAV.URL != "" {
		cal, err := calendar.New(cfg.CalDAV, logger)
		if err != nil {
			return fmt.Errorf("caldav: %w", err)
		}
		opts = append(opts, pipeline.WithEventCreator(cal))
		logger.Info("caldav calendar configured", "url", cfg.CalDAV.URL)
	} else {
		logger.Info("caldav not configured, calendar events stored locally only")
	}

	// Contact notifications over MQTT. Optional.
	var dispatcher *notify.Dispatcher
	if cfg.MQTT.Broker != "" && cfg.ContactsFile != "" {
		contacts, err := notify.LoadContacts(cfg.ContactsFile)
		if err != nil {
			return fmt.Errorf("load contacts: %w", err)
		}
		if len(contacts) > 0 {
			dispatcher = notify.NewDispatcher(cfg.MQTT, contacts, logger)
			if err := dispatcher.Start(ctx); err != nil {
				return fmt.Errorf("mqtt: %w", err)
			}
			opts = append(opts, pipeline.WithNotifier(dispatcher))
			logger.Info("notifications configured", "contacts", len(contacts), "topic", cfg.MQTT.Topic)
		}
	}

	pipe := pipeline.New(st, classifier, matcher, loc, logger, opts...)

	var transcriber transcribe.Transcriber
	if cfg.Transcribe.BaseURL != "" {
		transcriber = transcribe.New(cfg.Transcribe.BaseURL, cfg.Transcribe.APIKey, cfg.Transcribe.Model, logger)
	} else {
		logger.Warn("transcription not configured, audio and video input disabled")
	}

	if cfg.Digest.Enabled {
		worker := digest.NewWorker(st, llmClient, cfg.DigestModel(), cfg.Digest, cfg.SMTP, loc, logger)
		go worker.Run(ctx)
		logger.Info("daily digest scheduled", "hour", cfg.Digest.Hour, "minute", cfg.Digest.Minute)
	}

	server := api.NewServer(cfg.Listen, pipe, auth.NewAuthenticator(st), transcriber, st, logger)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if dispatcher != nil {
			if err := dispatcher.Close(shutdownCtx); err != nil {
				logger.Error("mqtt shutdown failed", "error", err)
			}
		}
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Start(ctx); err != nil {
		if ctx.Err() == nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("daybookd stopped")
	return nil
}

// newLogger builds the structured text logger used for all output.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
}
