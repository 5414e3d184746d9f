package searchclient

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"funstar-catalog/internal/models"
)

// DefaultDebounce is the quiet period after the last edit before a search runs.
const DefaultDebounce = 300 * time.Millisecond

// Searcher runs one catalog search.
type Searcher interface {
	Search(ctx context.Context, query, category string) ([]models.Movie, error)
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(ctx context.Context, query, category string) ([]models.Movie, error)

func (f SearchFunc) Search(ctx context.Context, query, category string) ([]models.Movie, error) {
	return f(ctx, query, category)
}

// Option configures a Client.
type Option func(*Client)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLogger sets the logger used for failed searches.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client drives Reduce from one goroutine. Every method is safe for
// concurrent use.
type Client struct {
	searcher  Searcher
	debounce  time.Duration
	log       *slog.Logger
	afterFunc func(time.Duration, func()) (stop func() bool)

	events  chan Event
	updates chan State
	done    chan struct{}
	closing sync.Once

	mu    sync.RWMutex
	state State

	// owned by the loop goroutine
	stopTimer func() bool
	cancel    context.CancelFunc
	observe   func(Event, State)
}

// New starts a client that searches with s.
func New(s Searcher, opts ...Option) *Client {
	c := &Client{
		searcher: s,
		debounce: DefaultDebounce,
		log:      slog.Default(),
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		events:  make(chan Event),
		updates: make(chan State, 1),
		done:    make(chan struct{}),
		state:   Initial(),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

// SetQuery records a new query. A blank query clears results at once.
func (c *Client) SetQuery(q string) { c.send(QueryChanged{Query: q}) }

// SetCategory records a new category. Blank means all.
func (c *Client) SetCategory(cat string) { c.send(CategoryChanged{Category: cat}) }

// Snapshot returns the current state.
func (c *Client) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Results = slices.Clone(s.Results)
	return s
}

// Updates delivers the latest state after each transition. Intermediate
// states are dropped when the reader falls behind. The channel is closed by Close.
func (c *Client) Updates() <-chan State { return c.updates }

// Close stops the timer, cancels any in-flight search and waits for the loop
// to exit. Later calls to SetQuery or SetCategory are ignored.
func (c *Client) Close() {
	c.closing.Do(func() { c.send(Closed{}) })
	<-c.done
}

func (c *Client) send(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Client) run() {
	defer close(c.done)
	defer close(c.updates)

	for ev := range c.events {
		c.mu.Lock()
		next, effects := Reduce(c.state, ev)
		c.state = next
		c.mu.Unlock()

		for _, eff := range effects {
			c.perform(eff)
		}
		if c.observe != nil {
			c.observe(ev, next)
		}
		if !stale(ev, next) {
			c.publish(next)
		}
		if next.Closed() {
			return
		}
	}
}

// stale reports whether ev was dropped by Reduce for belonging to an old cycle.
func stale(ev Event, s State) bool {
	switch e := ev.(type) {
	case TimerFired:
		return e.Token != s.Token() || s.Phase != PhaseInFlight
	case ResponseArrived:
		return e.Token != s.Token() || s.Phase != PhaseSettled
	}
	return false
}

func (c *Client) perform(eff Effect) {
	switch e := eff.(type) {
	case StartTimer:
		token := e.Token
		c.stopTimer = c.afterFunc(c.debounce, func() { c.send(TimerFired{Token: token}) })

	case StopTimer:
		if c.stopTimer != nil {
			c.stopTimer()
			c.stopTimer = nil
		}

	case IssueSearch:
		c.stopTimer = nil
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		go func() {
			defer cancel()
			results, err := c.searcher.Search(ctx, e.Query, e.Category)
			if err != nil && ctx.Err() == nil {
				c.log.Warn("search failed", "query", e.Query, "category", e.Category, "error", err)
			}
			c.send(ResponseArrived{Token: e.Token, Results: results, Err: err})
		}()

	case CancelSearch:
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
	}
}

func (c *Client) publish(s State) {
	s.Results = slices.Clone(s.Results)
	select {
	case <-c.updates:
	default:
	}
	c.updates <- s
}
