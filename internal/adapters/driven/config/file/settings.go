package file

import (
	"time"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// Configuration keys. Grouped into TOML tables by their dot prefix.
const (
	KeyGoogleToken    = "credentials.google_token"
	KeyMicrosoftToken = "credentials.microsoft_token"
	KeyDropboxToken   = "credentials.dropbox_token"
	KeyNotionToken    = "credentials.notion_token"

	KeyDestinationMode    = "destination.mode"
	KeyDriveParentID      = "destination.drive_parent_id"
	KeyNotebookLMBaseURL  = "destination.notebooklm_base_url"
	KeyNotebookLMAPIKey   = "destination.notebooklm_api_key"
	KeyNotionParentPageID = "destination.notion_parent_page_id"

	KeyConcurrency    = "transfer.concurrency"
	KeyChunkSize      = "transfer.chunk_size"
	KeyAttemptTimeout = "transfer.attempt_timeout"
	KeyCancelGrace    = "transfer.cancel_grace"
	KeyMaxAttempts    = "transfer.max_attempts"
	KeyBackoffBase    = "transfer.backoff_base"
	KeyBackoffCap     = "transfer.backoff_cap"
	KeyFailurePolicy  = "transfer.failure_policy"

	KeyListenAddr       = "server.listen_addr"
	KeySubscriberBuffer = "server.subscriber_buffer"
	KeyDataDir          = "storage.data_dir"
	KeyVerbose          = "verbose"
)

// DefaultListenAddr is used when server.listen_addr is not configured.
const DefaultListenAddr = "127.0.0.1:8765"

// DefaultSubscriberBuffer is the per-subscriber event buffer size used
// when server.subscriber_buffer is not configured.
const DefaultSubscriberBuffer = 16

// Policy assembles the execution policy from configuration, filling
// anything unset from the built-in defaults.
func Policy(cfg driven.ConfigStore) domain.TransferPolicy {
	p := domain.TransferPolicy{
		Concurrency:    cfg.GetInt(KeyConcurrency),
		ChunkSize:      int64(cfg.GetInt(KeyChunkSize)),
		AttemptTimeout: getDuration(cfg, KeyAttemptTimeout),
		CancelGrace:    getDuration(cfg, KeyCancelGrace),
		Retry: domain.RetryPolicy{
			MaxAttempts: cfg.GetInt(KeyMaxAttempts),
			BackoffBase: getDuration(cfg, KeyBackoffBase),
			BackoffCap:  getDuration(cfg, KeyBackoffCap),
		},
		Failure: domain.FailurePolicy(cfg.GetString(KeyFailurePolicy)),
	}
	return p.Normalise()
}

// Mode returns the configured destination mode, defaulting to staged.
func Mode(cfg driven.ConfigStore) domain.DestinationMode {
	switch m := domain.DestinationMode(cfg.GetString(KeyDestinationMode)); m {
	case domain.ModeStaged, domain.ModeDirect:
		return m
	}
	return domain.ModeStaged
}

// ListenAddr returns the configured HTTP listen address.
func ListenAddr(cfg driven.ConfigStore) string {
	if addr := cfg.GetString(KeyListenAddr); addr != "" {
		return addr
	}
	return DefaultListenAddr
}

// SubscriberBuffer returns the configured event buffer size.
func SubscriberBuffer(cfg driven.ConfigStore) int {
	if n := cfg.GetInt(KeySubscriberBuffer); n > 0 {
		return n
	}
	return DefaultSubscriberBuffer
}

// getDuration parses a duration value stored either as a string
// ("30s", "2m") or as integer seconds. Returns 0 when absent or
// malformed so the policy defaults apply.
func getDuration(cfg driven.ConfigStore, key string) time.Duration {
	val, ok := cfg.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0
		}
		return d
	case int64:
		return time.Duration(v) * time.Second
	case int:
		return time.Duration(v) * time.Second
	default:
		return 0
	}
}
