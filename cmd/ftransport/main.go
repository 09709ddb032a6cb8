package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	configfile "github.com/ftransport/ftransport/internal/adapters/driven/config/file"
	"github.com/ftransport/ftransport/internal/adapters/driven/storage/memory"
	"github.com/ftransport/ftransport/internal/adapters/driven/storage/sqlite"
	"github.com/ftransport/ftransport/internal/adapters/driving/cli"
	"github.com/ftransport/ftransport/internal/adapters/driving/httpapi"
	"github.com/ftransport/ftransport/internal/connectors/factory"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
	"github.com/ftransport/ftransport/internal/core/services"
	drivelz "github.com/ftransport/ftransport/internal/destinations/drive"
	"github.com/ftransport/ftransport/internal/destinations/notebooklm"
	"github.com/ftransport/ftransport/internal/destinations/notion"
	"github.com/ftransport/ftransport/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	cli.SetConfigStore(cfg)

	transferStore, cleanup, err := openStore(cfg.GetString(configfile.KeyDataDir))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer cleanup()

	ctx := context.Background()

	enumFactory := factory.New(factory.Credentials{
		GoogleToken:    cfg.GetString(configfile.KeyGoogleToken),
		MicrosoftToken: cfg.GetString(configfile.KeyMicrosoftToken),
		DropboxToken:   cfg.GetString(configfile.KeyDropboxToken),
	})

	sinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}

	svc := services.NewOrchestrator(
		enumFactory,
		sinks,
		transferStore,
		configfile.Policy(cfg),
		configfile.SubscriberBuffer(cfg),
	)
	cli.SetTransferService(svc)

	cli.SetServeFunc(func(cmd *cobra.Command) error {
		return serve(cfg, svc)
	})

	return cli.Execute()
}

// openStore opens the transfer store. The special data dir ":memory:"
// selects the ephemeral in-memory store; anything else is a SQLite
// database in that directory (default ~/.ftransport/data).
func openStore(dataDir string) (driven.TransferStore, func(), error) {
	if dataDir == ":memory:" {
		return memory.NewTransferStore(), func() {}, nil
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return store.TransferStore(), func() { store.Close() }, nil
}

// buildSinks wires the destination adapters from configuration. Sinks
// with missing credentials are still constructed; their requests fail
// with permission errors at run time, which the retry taxonomy treats
// as permanent.
func buildSinks(ctx context.Context, cfg *configfile.ConfigStore) (services.Sinks, error) {
	var sinks services.Sinks

	googleToken := cfg.GetString(configfile.KeyGoogleToken)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: googleToken, TokenType: "Bearer"})
	landing, err := drivelz.NewLandingZone(ctx, ts, cfg.GetString(configfile.KeyDriveParentID))
	if err != nil {
		return sinks, fmt.Errorf("creating landing zone: %w", err)
	}
	sinks.Staged = landing
	sinks.StagedKnowledge = notebooklm.New(nil,
		cfg.GetString(configfile.KeyNotebookLMBaseURL),
		cfg.GetString(configfile.KeyNotebookLMAPIKey))

	notionSink := notion.New(
		cfg.GetString(configfile.KeyNotionToken),
		cfg.GetString(configfile.KeyNotionParentPageID))
	sinks.Direct = notionSink
	sinks.DirectKnowledge = notionSink

	return sinks, nil
}

// serve runs the HTTP API until SIGINT/SIGTERM.
func serve(cfg *configfile.ConfigStore, svc *services.Orchestrator) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := httpapi.NewHandler(svc, configfile.Mode(cfg))
	server := httpapi.NewServer(ctx, configfile.ListenAddr(cfg), handler)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
