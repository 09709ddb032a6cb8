package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [transfer-id]",
	Short: "Cancel a running transfer",
	Long: `Requests cancellation of a running transfer.

In-flight file operations get a short grace period to finish their
current chunk; completed work is kept. Cancelling a finished transfer
has no effect.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	if transferService == nil {
		return errors.New("transfer service not configured")
	}

	id := args[0]
	if err := transferService.Cancel(cmd.Context(), id); err != nil {
		return fmt.Errorf("cancelling transfer: %w", err)
	}

	cmd.Printf("Cancellation requested for %s\n", id)
	return nil
}
