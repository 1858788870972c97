package commands

import (
	"context"

	"github.com/aquamarinepk/aqm"
)

// ResetDB wipes every stored collection: menu, open ledger, archive and
// display order. There is no undo.
func ResetDB(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	baseStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer baseStore.Stop(ctx)

	if err := baseStore.Reset(ctx); err != nil {
		return err
	}
	logger.Info("All collections cleared")
	return nil
}
