package menu

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/shopspring/decimal"
)

// SeedingFunc returns a lifecycle hook that loads a starter menu the first
// time the service runs against an empty catalog. Subsequent starts are
// no-ops so operator edits are never overwritten.
func SeedingFunc(repo MenuItemRepo, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return func(ctx context.Context) error {
		existing, err := repo.List(ctx)
		if err != nil {
			return fmt.Errorf("cannot check menu catalog before seeding: %w", err)
		}
		if len(existing) > 0 {
			logger.Debug("menu catalog already populated, skipping seed", "items", len(existing))
			return nil
		}

		for _, item := range starterMenu() {
			if err := repo.Create(ctx, item); err != nil {
				return fmt.Errorf("cannot seed menu item %q: %w", item.Name, err)
			}
		}
		logger.Info("Seeded starter menu")
		return nil
	}
}

func starterMenu() []*MenuItem {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	items := []*MenuItem{
		{
			Name:     "Americano",
			Price:    price("3.00"),
			Category: CategoryDrink,
			AddOns: []AddOn{
				{Name: "Extra Shot", Price: price("0.75"), AllowQuantity: true},
				{Name: "Oatmilk", Price: price("0.50")},
			},
		},
		{
			Name:     "Spanish Latte",
			Price:    price("4.50"),
			Category: CategoryDrink,
			AddOns: []AddOn{
				{Name: "Extra Shot", Price: price("0.75"), AllowQuantity: true},
				{Name: "Caramel Syrup", Price: price("0.50")},
			},
		},
		{
			Name:     "Iced Chocolate",
			Price:    price("4.00"),
			Category: CategoryDrink,
		},
		{
			Name:     "Big Cookie",
			Price:    price("2.50"),
			Category: CategoryFood,
		},
		{
			Name:     "Cheese Wrap",
			Price:    price("5.00"),
			Category: CategoryFood,
			AddOns: []AddOn{
				{Name: "Extra Egg", Price: price("1.00"), AllowQuantity: true},
				{Name: "Extra Cheese", Price: price("0.75")},
			},
		},
		{
			Name:     "Indomie Special",
			Price:    price("4.25"),
			Category: CategoryFood,
			AddOns: []AddOn{
				{Name: "Telur", Price: price("1.00"), AllowQuantity: true},
			},
		},
	}
	for _, item := range items {
		item.EnsureID()
	}
	return items
}
