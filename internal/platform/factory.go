package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/boardsync/pkg/adapters/trello"
	"github.com/aretw0/boardsync/pkg/core"
)

// Session is a service bound to one board.
type Session struct {
	Service *core.Service
	BoardID string
	Config  Config
}

// New resolves the configuration layers (options, environment, config file)
// and wires a service against the selected remote.
//
//	session, err := platform.New(platform.WithBoard("5f0c..."))
func New(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := o.resolve()
	if err != nil {
		return nil, err
	}

	remote := o.remote
	if remote == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		remote, err = o.newTrello(cfg)
		if err != nil {
			return nil, err
		}
	} else if !cfg.Board.Set || cfg.Board.Value == "" {
		return nil, fmt.Errorf("%w: board", ErrMissingSetting)
	}

	return &Session{
		Service: core.NewService(remote, o.logger),
		BoardID: cfg.Board.Value,
		Config:  cfg,
	}, nil
}

func (o *options) resolve() (Config, error) {
	path := o.configFile
	if path == "" {
		found, err := FindConfig(o.searchDir)
		if err != nil {
			return Config{}, err
		}
		path = found
	}
	file, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Resolve(o.flags, FromEnv(o.lookupEnv), file), nil
}

func (o *options) newTrello(cfg Config) (*trello.Client, error) {
	topts := []trello.Option{
		trello.WithLogger(o.logger),
		trello.WithRateLimit(o.rateLimit, o.burst),
	}
	if cfg.BaseURL.Set && cfg.BaseURL.Value != "" {
		topts = append(topts, trello.WithBaseURL(cfg.BaseURL.Value))
	}
	if o.httpClient != nil {
		topts = append(topts, trello.WithHTTPClient(o.httpClient))
	}
	return trello.New(cfg.Key.Value, cfg.Token.Value, cfg.Board.Value, topts...)
}

// Fetch returns the current snapshot of the session's board.
func (s *Session) Fetch(ctx context.Context) (core.Board, error) {
	return s.Service.Fetch(ctx, s.BoardID)
}

// Apply runs one reconciliation pass against the session's board.
func (s *Session) Apply(ctx context.Context, specs []core.ContainerSpec) (core.PassResult, error) {
	return s.Service.Apply(ctx, s.BoardID, specs)
}

// Plan computes the calls Apply would issue without executing them.
func (s *Session) Plan(ctx context.Context, specs []core.ContainerSpec) (core.Steps, error) {
	return s.Service.Plan(ctx, s.BoardID, specs)
}
