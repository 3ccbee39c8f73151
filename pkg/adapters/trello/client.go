// Package trello implements core.Remote on top of the Trello REST API.
//
// Lists are containers and cards are items. Closing archives the list or card,
// which removes it from later fetches. Renaming a list is not supported.
package trello

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containerd/errdefs"
	"golang.org/x/time/rate"

	"github.com/aretw0/boardsync/pkg/core"
)

const (
	// DefaultBaseURL is the root of the Trello REST API.
	DefaultBaseURL = "https://api.trello.com/1"

	// DefaultRateLimit stays under Trello's limit of 100 requests per 10 seconds per token.
	DefaultRateLimit = 10
	DefaultBurst     = 10

	defaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at another API root, typically a test server.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(strings.TrimRight(raw, "/"))
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return errdefs.ErrInvalidArgument.WithMessage("base URL needs a scheme and a host: " + raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errdefs.ErrInvalidArgument.WithMessage("http client cannot be nil")
		}
		c.client = hc
		return nil
	}
}

// WithRateLimit sets the client-side request rate. A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) error {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// Client talks to one Trello board. Fetch accepts any board id, but lists are
// always created on the board the client was built for.
type Client struct {
	baseURL *url.URL
	key     string
	token   string
	boardID string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	mu         sync.Mutex
	requests   int
	failures   int
	lastStatus int
}

// New creates a client authenticated with an API key and token.
func New(key, token, boardID string, opts ...Option) (*Client, error) {
	if key == "" || token == "" {
		return nil, errdefs.ErrUnauthenticated.WithMessage("trello key and token are required")
	}
	if boardID == "" {
		return nil, core.ErrEmptyBoardID
	}

	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL: base,
		key:     key,
		token:   token,
		boardID: boardID,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type apiList struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Cards []apiCard `json:"cards"`
}

type apiCard struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type apiEntity struct {
	ID string `json:"id"`
}

// Fetch returns the open lists of a board with their open cards, in board order.
func (c *Client) Fetch(ctx context.Context, boardID string) (core.Board, error) {
	query := url.Values{}
	query.Set("cards", "open")
	query.Set("card_fields", "name,desc")
	query.Set("filter", "open")
	query.Set("fields", "name")

	var lists []apiList
	if err := c.get(ctx, "/boards/"+url.PathEscape(boardID)+"/lists", query, &lists); err != nil {
		return core.Board{}, err
	}

	board := core.Board{ID: boardID, Containers: make([]core.Container, 0, len(lists))}
	for _, l := range lists {
		container := core.Container{ID: l.ID, Name: l.Name, Items: make([]core.Item, 0, len(l.Cards))}
		for _, card := range l.Cards {
			container.Items = append(container.Items, core.Item{ID: card.ID, Name: card.Name, Content: card.Desc})
		}
		board.Containers = append(board.Containers, container)
	}
	return board, nil
}

func (c *Client) CreateContainer(ctx context.Context, name string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("idBoard", c.boardID)
	form.Set("pos", "bottom")

	var created apiEntity
	if err := c.post(ctx, "/lists", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) CloseContainer(ctx context.Context, id string) error {
	return c.setField(ctx, "/lists/"+url.PathEscape(id)+"/closed", "true")
}

// RenameContainer is not supported and never reaches the network.
func (c *Client) RenameContainer(context.Context, string, string) error {
	return core.ErrUnsupported
}

func (c *Client) CreateItem(ctx context.Context, name, containerID, content string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("idList", containerID)
	form.Set("pos", "bottom")
	if content != "" {
		form.Set("desc", content)
	}

	var created apiEntity
	if err := c.post(ctx, "/cards", form, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) CloseItem(ctx context.Context, id string) error {
	return c.setField(ctx, "/cards/"+url.PathEscape(id)+"/closed", "true")
}

func (c *Client) RenameItem(ctx context.Context, id, name string) error {
	return c.setField(ctx, "/cards/"+url.PathEscape(id)+"/name", name)
}

func (c *Client) UpdateItemContent(ctx context.Context, id, content string) error {
	return c.setField(ctx, "/cards/"+url.PathEscape(id)+"/desc", content)
}

// RepositionItem sends the 1-based rank as the card position.
func (c *Client) RepositionItem(ctx context.Context, id string, position int) error {
	return c.setField(ctx, "/cards/"+url.PathEscape(id)+"/pos", strconv.Itoa(position))
}

func (c *Client) setField(ctx context.Context, path, value string) error {
	form := url.Values{}
	form.Set("value", value)
	return c.put(ctx, path, form, nil)
}

var _ core.Remote = (*Client)(nil)
