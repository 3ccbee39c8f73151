package boardsync

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/boardsync/internal/platform"
	"github.com/aretw0/boardsync/pkg/core"
)

// --- Types ---

// Session is a sync service bound to one board.
type Session = platform.Session

// Config is one resolved layer of settings.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a session.
type Option = platform.Option

// WithLogger sets the logger for the service and the REST client.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRemote injects a board implementation, e.g. the in-memory remote.
func WithRemote(remote core.Remote) Option {
	return platform.WithRemote(remote)
}

// WithBoard selects the board to synchronize.
func WithBoard(id string) Option {
	return platform.WithBoard(id)
}

// WithCredentials sets the Trello API key and token.
func WithCredentials(key, token string) Option {
	return platform.WithCredentials(key, token)
}

// WithSettings merges a whole layer of explicit settings.
func WithSettings(c Config) Option {
	return platform.WithSettings(c)
}

// WithBaseURL points the REST client at another API root.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithRateLimit sets the client-side request rate. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return platform.WithRateLimit(perSecond, burst)
}

// WithHTTPClient replaces the HTTP client of the REST adapter.
func WithHTTPClient(hc *http.Client) Option {
	return platform.WithHTTPClient(hc)
}

// WithConfigFile reads settings from path instead of searching for a .trello file.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithSearchDir sets where the upward search for a .trello file starts.
func WithSearchDir(dir string) Option {
	return platform.WithSearchDir(dir)
}

// WithEnv replaces os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return platform.WithEnv(lookup)
}

// --- Factory ---

// Open resolves settings and returns a session for the selected board.
func Open(opts ...Option) (*Session, error) {
	return platform.New(opts...)
}
