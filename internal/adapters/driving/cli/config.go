package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and set configuration values.

Keys use dot notation, grouped into sections:
  credentials.google_token     Google Drive access token
  credentials.microsoft_token  OneDrive access token
  credentials.dropbox_token    Dropbox access token
  credentials.notion_token     Notion integration token
  destination.mode             staged or direct
  transfer.concurrency         parallel file operations per stage
  transfer.failure_policy      allow-partial or all-or-nothing`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// sensitiveKeys are masked in show output.
func isSensitive(key string) bool {
	return strings.Contains(key, "token") || strings.Contains(key, "api_key")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := []string{
		"credentials.google_token", "credentials.microsoft_token",
		"credentials.dropbox_token", "credentials.notion_token",
		"destination.mode", "destination.drive_parent_id",
		"destination.notebooklm_base_url", "destination.notebooklm_api_key",
		"destination.notion_parent_page_id",
		"transfer.concurrency", "transfer.chunk_size", "transfer.attempt_timeout",
		"transfer.cancel_grace", "transfer.max_attempts", "transfer.failure_policy",
		"server.listen_addr",
	}
	sort.Strings(keys)

	cmd.Printf("Configuration (%s):\n\n", configStore.Path())
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if isSensitive(key) {
			val = "********"
		}
		cmd.Printf("  %-36s %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configStore.Path())
	return nil
}
