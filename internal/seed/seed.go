package seed

import (
	"context"
	"fmt"
)

// Syncer loads a store from persistence, writing defaults into an empty one.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Apply seeds default cards and settings. Stores only seed what is missing,
// so running it twice changes nothing.
func Apply(ctx context.Context, cards, settings Syncer) error {
	if err := cards.Sync(ctx); err != nil {
		return fmt.Errorf("seed cards: %w", err)
	}
	if err := settings.Sync(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
