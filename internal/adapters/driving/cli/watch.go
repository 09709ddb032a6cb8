package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ftransport/ftransport/internal/adapters/driving/tui"
	"github.com/ftransport/ftransport/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [transfer-id]",
	Short: "Watch a transfer in an interactive progress view",
	Long: `Opens a live terminal view of a transfer's progress.

Press q to detach (the transfer keeps running) or c to cancel it.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if transferService == nil {
		return errors.New("transfer service not configured")
	}

	ctx := cmd.Context()
	id := args[0]

	initial, err := transferService.Status(ctx, id)
	if err != nil {
		return fmt.Errorf("getting status: %w", err)
	}

	events, stop, err := transferService.Subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("subscribing to progress: %w", err)
	}
	defer stop()

	cancel := func() {
		if err := transferService.Cancel(context.Background(), id); err != nil {
			logger.Warn("cancelling %s: %v", id, err)
		}
	}

	model := tui.New(initial, events, stop, cancel)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("running progress view: %w", err)
	}
	return nil
}
