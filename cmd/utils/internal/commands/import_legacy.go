package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/aquamarinepk/aqm"

	"github.com/ddalicious/cafepos/internal/archive"
	"github.com/ddalicious/cafepos/internal/store"
)

// ImportLegacy converts a legacy export file into sale sessions and appends
// them to the archive, the same conversion the HTTP import endpoints run.
func ImportLegacy(ctx context.Context, config *aqm.Config, logger aqm.Logger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read export file: %w", err)
	}

	baseStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer baseStore.Stop(ctx)

	manager := archive.NewManager(
		store.NewSessionRepo(baseStore),
		store.NewLedgerRepo(baseStore),
		logger,
	)

	sessions, err := manager.PreviewImport(data)
	if err != nil {
		return fmt.Errorf("cannot convert export: %w", err)
	}
	if err := manager.ConfirmImport(ctx, sessions); err != nil {
		return err
	}

	logger.Info("Imported legacy export", "file", path, "sessions", len(sessions))
	return nil
}
