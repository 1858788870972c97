package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/ddalicious/cafepos/internal/menu"
	"github.com/ddalicious/cafepos/internal/store"
)

// SeedDemo loads the starter menu into an empty catalog. Running it against a
// populated catalog is a no-op.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	baseStore, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer baseStore.Stop(ctx)

	repo := store.NewMenuRepo(baseStore)
	if err := menu.SeedingFunc(repo, logger)(ctx); err != nil {
		return fmt.Errorf("cannot seed starter menu: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, config *aqm.Config, logger aqm.Logger) (*store.BaseStore, error) {
	baseStore := store.NewBaseStore(config, logger)
	if err := baseStore.Start(ctx); err != nil {
		return nil, fmt.Errorf("cannot open store: %w", err)
	}
	return baseStore, nil
}
