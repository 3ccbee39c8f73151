package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/boardsync/pkg/adapters/trello"
	"github.com/aretw0/boardsync/pkg/core"
)

// options holds the internal configuration for a boardsync session.
type options struct {
	remote     core.Remote
	logger     *slog.Logger
	flags      Config
	configFile string
	searchDir  string
	lookupEnv  func(string) (string, bool)
	httpClient *http.Client
	rateLimit  float64
	burst      int
}

// Option defines a functional option for configuring a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		searchDir: ".",
		rateLimit: trello.DefaultRateLimit,
		burst:     trello.DefaultBurst,
	}
}

// WithLogger sets the logger for the service and the REST client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRemote injects a board implementation (e.g. the in-memory remote).
// When set, no credentials are needed and the REST client is not built.
func WithRemote(remote core.Remote) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithBoard selects the board to synchronize. It takes precedence over the
// environment and the config file.
func WithBoard(id string) Option {
	return func(o *options) {
		o.flags.Board = Of(id)
	}
}

// WithCredentials sets the API key and token. They take precedence over the
// environment and the config file.
func WithCredentials(key, token string) Option {
	return func(o *options) {
		o.flags.Key = Of(key)
		o.flags.Token = Of(token)
	}
}

// WithSettings merges a whole flag layer, leaving unset fields to lower layers.
func WithSettings(c Config) Option {
	return func(o *options) {
		o.flags = Resolve(c, o.flags)
	}
}

// WithBaseURL points the REST client at another API root.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.flags.BaseURL = Of(url)
	}
}

// WithRateLimit sets the client-side request rate. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = perSecond
		o.burst = burst
	}
}

// WithHTTPClient replaces the HTTP client of the REST adapter.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithConfigFile reads credentials from path instead of searching for a
// .trello file.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithSearchDir sets where the upward search for a .trello file starts.
// Defaults to the working directory.
func WithSearchDir(dir string) Option {
	return func(o *options) {
		o.searchDir = dir
	}
}

// WithEnv replaces os.LookupEnv, mostly for tests.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = lookup
	}
}
