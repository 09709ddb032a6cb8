package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftransport/ftransport/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [transfer-id]",
	Short: "Show transfer status",
	Long: `Shows the progress of a transfer.
Without a transfer ID, lists all known transfers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if transferService == nil {
		return errors.New("transfer service not configured")
	}

	ctx := cmd.Context()

	if len(args) == 0 {
		transfers, err := transferService.List(ctx)
		if err != nil {
			return fmt.Errorf("listing transfers: %w", err)
		}
		if len(transfers) == 0 {
			cmd.Println("No transfers found.")
			return nil
		}
		for i := range transfers {
			t := &transfers[i]
			cmd.Printf("%s  %-12s  %5.1f%%  %s\n", t.ID, t.Status, t.OverallProgress, t.SourceURL)
		}
		return nil
	}

	id := args[0]
	snap, err := transferService.Status(ctx, id)
	if err != nil {
		return fmt.Errorf("getting status: %w", err)
	}

	cmd.Printf("Transfer: %s\n", snap.TransferID)
	cmd.Printf("  Status:   %s\n", snap.Status)
	cmd.Printf("  Progress: %.1f%%\n", snap.OverallProgress)
	if snap.TotalFiles > 0 {
		cmd.Printf("  Files:    %d/%d completed", snap.FilesCompleted, snap.TotalFiles)
		if snap.FilesFailed > 0 {
			cmd.Printf(", %d failed", snap.FilesFailed)
		}
		cmd.Println()
	}
	if snap.CurrentFile != nil {
		cmd.Printf("  Current:  %s (%.0f%%)\n", snap.CurrentFile.Name, snap.CurrentFile.Progress)
	}
	if snap.ErrorMessage != "" {
		cmd.Printf("  Error:    %s\n", snap.ErrorMessage)
	}

	if snap.Status == domain.StatusFailed || snap.FilesFailed > 0 {
		printFailedFiles(cmd, id)
	}
	return nil
}

// printFailedFiles lists per-file errors, best effort.
func printFailedFiles(cmd *cobra.Command, id string) {
	files, err := transferService.Files(cmd.Context(), id)
	if err != nil {
		return
	}
	for i := range files {
		if files[i].Status == domain.FileFailed {
			cmd.Printf("  Failed:   %s: %s\n", files[i].Name, files[i].ErrorMessage)
		}
	}
}
