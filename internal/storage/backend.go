package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/stridetrack/apiserver/config"
)

// ErrNotConfigured is returned when no backup backend is configured.
var ErrNotConfigured = errors.New("no backup backend configured")

// OpenBackupStore builds the snapshot store for the configured backend.
func OpenBackupStore(ctx context.Context, cfg config.BackupConfig) (*Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, ErrNotConfigured
	case "minio":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("open minio backup store: %w", err)
		}
		return NewStorage(client), nil
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("open gcs backup store: %w", err)
		}
		return NewStorage(client), nil
	default:
		return nil, fmt.Errorf("unknown backup backend %q", cfg.Backend)
	}
}
