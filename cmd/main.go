package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-real/ai"
	"chat-real/media"
	"chat-real/moderation"
	"chat-real/repositories"
	"chat-real/runtime"
	"chat-real/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the session lifecycle, and
// centralizes error reporting so every defer executes before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Optional collaborators: search index, AI responder, censor
	params := runtime.Params{
		Log:       log,
		Snapshots: repositories.NewSnapshotRepository(db, log),
		Trigger:   config.AITriggerWord,
		AITimeout: config.AITimeout,
	}
	if config.IndexFilepath != "" {
		index, err := repositories.NewMessageIndex(config.IndexFilepath, log)
		if err != nil {
			return fmt.Errorf("index opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing message index...")
			_ = index.Close()
		}()
		params.Index = index
	}
	if config.GeminiAPIKey != "" {
		params.Responder = ai.NewGeminiResponder(config.GeminiAPIKey, config.GeminiModel, log)
	}
	if words := config.forbiddenWords(); len(words) > 0 {
		replacement, err := config.CharacterRune()
		if err != nil {
			return fmt.Errorf("censor config error: %w", err)
		}
		censor, err := moderation.NewCensor(words, replacement, log)
		if err != nil {
			return fmt.Errorf("censor build failed: %w", err)
		}
		params.Censor = censor
	}

	// 4. Coordinator & Service
	coordinator := runtime.NewCoordinator(params)
	coordinator.Load()
	service := services.NewChatService(coordinator, media.DataURIEncoder{})

	settings := service.Settings()
	log.Info("Chat session ready",
		"app", settings.AppName,
		"rooms", len(service.Rooms()),
		"voice_slots", len(service.VoiceSlots()))

	// 5. Wait for Stop
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down gracefully...")
	return nil
}
