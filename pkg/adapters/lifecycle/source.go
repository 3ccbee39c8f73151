// Package lifecycle exposes watch passes as a lifecycle event source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/boardsync/pkg/adapters/fs"
)

type passSource struct {
	events <-chan fs.PassEvent
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the pass events of a watch worker.
// The output channel closes when ctx ends or events is closed.
func NewSource(events <-chan fs.PassEvent) lifecycle.Source {
	return &passSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *passSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *passSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
