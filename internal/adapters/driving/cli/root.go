// Package cli implements the ftransport command-line interface. Commands
// talk to the core through driving.TransferService; services are injected
// at startup via the Set* functions.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ftransport/ftransport/internal/core/ports/driven"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
	"github.com/ftransport/ftransport/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	transferService driving.TransferService
	configStore     driven.ConfigStore

	// serveFunc runs the HTTP server; wired in main.
	serveFunc func(cmd *cobra.Command) error
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "ftransport",
	Short: "Migrate shared-drive documents into a knowledge system",
	Long: `FTransport moves document collections from shared drives
(Google Drive, OneDrive, Dropbox) into a knowledge destination such as
NotebookLM or Notion.

A transfer scans the source folder, copies files chunk by chunk with
resume on retry, and registers the results with the destination.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetTransferService injects the transfer service used by commands.
func SetTransferService(svc driving.TransferService) {
	transferService = svc
}

// SetConfigStore injects the configuration store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// SetServeFunc injects the server runner used by the serve command.
func SetServeFunc(fn func(cmd *cobra.Command) error) {
	serveFunc = fn
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
