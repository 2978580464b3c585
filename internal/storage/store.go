package storage

import (
	"context"
	"errors"

	"github.com/ammi749/gamekeys/internal/domain"
)

// Store persists the client-side state that must survive a restart: the
// serialized cart, the auth token pair, and the pending-order marker used
// to resume an interrupted payment flow.
type Store interface {
	LoadCart(ctx context.Context) (domain.Cart, error)
	SaveCart(ctx context.Context, cart domain.Cart) error

	LoadTokens(ctx context.Context) (domain.TokenPair, error)
	SaveTokens(ctx context.Context, pair domain.TokenPair) error
	ClearTokens(ctx context.Context) error

	PendingOrder(ctx context.Context) (int64, error)
	SetPendingOrder(ctx context.Context, orderID int64) error
	ClearPendingOrder(ctx context.Context) error
}

var ErrNotFound = errors.New("state not found")
