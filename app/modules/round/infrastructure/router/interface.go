package roundrouter

import (
	"context"

	roundhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/handlers"
)

// Router registers the round event handlers on a watermill router.
type Router interface {
	Configure(ctx context.Context, handlers roundhandlers.Handlers) error
	Close() error
}
