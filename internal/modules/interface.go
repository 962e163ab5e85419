package modules

import (
	"context"
	"sync"
)

// Module is a long-running application module. Run blocks until ctx is
// canceled and calls wg.Done when it returns.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}
