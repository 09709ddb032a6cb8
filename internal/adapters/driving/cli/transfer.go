package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftransport/ftransport/internal/core/domain"
)

var (
	transferMode   string
	transferDetach bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer [source-url]",
	Short: "Transfer a shared-drive folder to the knowledge destination",
	Long: `Starts a transfer from a shared-drive folder URL.

The provider (Google Drive, OneDrive, Dropbox) is detected from the URL.
By default the command follows the transfer until it finishes; use
--detach to start it in the background and return immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransfer,
}

func init() {
	transferCmd.Flags().StringVarP(&transferMode, "mode", "m", "", "destination mode: staged or direct")
	transferCmd.Flags().BoolVarP(&transferDetach, "detach", "d", false, "start the transfer and return immediately")
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	if transferService == nil {
		return errors.New("transfer service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode := domain.ModeStaged
	if transferMode != "" {
		mode = domain.DestinationMode(transferMode)
		if mode != domain.ModeStaged && mode != domain.ModeDirect {
			return fmt.Errorf("invalid mode %q: must be staged or direct", transferMode)
		}
	}

	t, err := transferService.Create(ctx, args[0], mode)
	if err != nil {
		return fmt.Errorf("creating transfer: %w", err)
	}

	cmd.Printf("Transfer %s created (%s, %s mode)\n", t.ID, t.DriveType, t.Mode)

	if err := transferService.Start(ctx, t.ID); err != nil {
		return fmt.Errorf("starting transfer: %w", err)
	}

	if transferDetach {
		cmd.Printf("Running in background. Check progress with: ftransport status %s\n", t.ID)
		return nil
	}

	return followTransfer(ctx, cmd, t.ID)
}

// followTransfer prints progress updates until the transfer reaches a
// terminal state.
func followTransfer(ctx context.Context, cmd *cobra.Command, id string) error {
	events, stop, err := transferService.Subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("subscribing to progress: %w", err)
	}
	defer stop()

	var lastStatus domain.TransferStatus
	for snap := range events {
		if snap.Status != lastStatus {
			cmd.Printf("Status: %s\n", snap.Status)
			lastStatus = snap.Status
		}
		if snap.TotalFiles > 0 {
			line := fmt.Sprintf("  %.1f%% (%d/%d files", snap.OverallProgress, snap.FilesCompleted, snap.TotalFiles)
			if snap.FilesFailed > 0 {
				line += fmt.Sprintf(", %d failed", snap.FilesFailed)
			}
			line += ")"
			if snap.CurrentFile != nil {
				line += " " + snap.CurrentFile.Name
			}
			cmd.Println(line)
		}
	}

	t, err := transferService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("getting final state: %w", err)
	}

	switch t.Status {
	case domain.StatusCompleted:
		cmd.Printf("Transfer complete: %d files", t.FilesCompleted)
		if t.FilesFailed > 0 {
			cmd.Printf(" (%d failed)", t.FilesFailed)
		}
		cmd.Println()
		if t.NotebookID != "" {
			cmd.Printf("Notebook: %s\n", t.NotebookID)
		}
		return nil
	case domain.StatusCancelled:
		cmd.Println("Transfer cancelled.")
		return nil
	default:
		return fmt.Errorf("transfer failed: %s", t.ErrorMessage)
	}
}
