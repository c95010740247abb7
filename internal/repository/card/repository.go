package card

import (
	"context"

	"vkseva-content/internal/domain"
)

// Repository persists homepage cards. Implementations also satisfy
// domain.OrderWriter.
type Repository interface {
	List(ctx context.Context) ([]domain.Card, error)
	Create(ctx context.Context, c domain.Card) (string, error)
	Update(ctx context.Context, id string, patch domain.CardPatch) error
	Delete(ctx context.Context, id string) error
	SetOrders(ctx context.Context, changes []domain.OrderChange) error
}
