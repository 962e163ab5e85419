// Package watermillutil builds the message router the modules register their
// event handlers on.
package watermillutil

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wm "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// DefaultCloseTimeout bounds how long Close waits for running handlers.
const DefaultCloseTimeout = 10 * time.Second

// NewRouter creates a router that recovers handler panics.
func NewRouter(logger *slog.Logger, closeTimeout time.Duration) (*wm.Router, error) {
	if closeTimeout <= 0 {
		closeTimeout = DefaultCloseTimeout
	}

	router, err := wm.NewRouter(wm.RouterConfig{CloseTimeout: closeTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
	)

	return router, nil
}
