package ocr

import (
	"context"
	"errors"
	"sync"
)

// Pool hands out a fixed set of engines. Callers must Release every engine
// they Acquire.
type Pool struct {
	engines chan Engine
	all     []Engine
	closeMu sync.RWMutex
	closed  bool
	done    chan struct{}
}

// NewPool creates a pool over engines.
func NewPool(engines ...Engine) (*Pool, error) {
	if len(engines) == 0 {
		return nil, ErrEmptyPool
	}
	p := &Pool{
		engines: make(chan Engine, len(engines)),
		all:     engines,
		done:    make(chan struct{}),
	}
	for _, e := range engines {
		p.engines <- e
	}
	return p, nil
}

// Size returns the number of engines the pool owns.
func (p *Pool) Size() int { return len(p.all) }

// Acquire waits for a free engine or for ctx to end.
func (p *Pool) Acquire(ctx context.Context) (Engine, error) {
	p.closeMu.RLock()
	closed := p.closed
	p.closeMu.RUnlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case e := <-p.engines:
		return e, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns an engine to the pool.
func (p *Pool) Release(e Engine) {
	if e == nil {
		return
	}
	select {
	case p.engines <- e:
	default:
	}
}

// Close stops handing out engines and closes all of them.
func (p *Pool) Close() error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.closeMu.Unlock()

	var errs []error
	for _, e := range p.all {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
