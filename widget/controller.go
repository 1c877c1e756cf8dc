package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/yourorg/branch-search/source"
	"github.com/yourorg/branch-search/view"
	"go.uber.org/zap"
)

// ErrSuperseded is returned when a newer request was issued while this one
// was in flight; its result is discarded.
var ErrSuperseded = errors.New("widget: superseded by a newer request")

// FailureNotice is shown in place of results when the backend cannot be read.
const FailureNotice = "Unable to load branches right now."

// View is the host surface the controller draws on.
type View interface {
	// Mount shows the search input and an empty result container.
	Mount()
	SetContent(markup string)
	SetSearchValue(value string)
}

// Controller drives one widget instance: initial load, search input and
// card drill-down. Every operation takes a request token; only the most
// recently issued request may update the view.
type Controller struct {
	src    source.Adapter
	view   View
	binder *view.Binder
	log    *zap.Logger

	mu     sync.Mutex
	latest uint64
	state  State
}

func New(src source.Adapter, v View, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{src: src, view: v, binder: view.NewBinder(), log: log}
}

// Init mounts the input and loads the unfiltered list.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	c.view.Mount()
	c.binder.Bind("", nil)
	c.mu.Unlock()
	return c.Input(ctx, "")
}

// Input handles a change of the search text.
func (c *Controller) Input(ctx context.Context, value string) error {
	token := c.begin()
	records, err := Search(ctx, c.src, value)
	return c.finish(token, value, err, func() {
		c.state = RenderedList
		c.render(view.List(records))
	})
}

// Click drills down into one branch. It always refetches rather than reusing
// what the list showed.
func (c *Controller) Click(ctx context.Context, code string) error {
	token := c.begin()
	records, err := Lookup(ctx, c.src, code)
	return c.finish(token, code, err, func() {
		c.state = RenderedDetail
		if n := len(records); n > 0 {
			c.view.SetSearchValue(records[n-1].Code())
		}
		c.render(view.Detail(records, c.src.RecordURL()))
	})
}

// ClickCard routes a click through the cards bound by the last render.
// It returns view.ErrNotBound for codes not currently on screen.
func (c *Controller) ClickCard(ctx context.Context, code string) error {
	return c.binder.Click(ctx, code)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.state = Loading
	return c.latest
}

// finish applies a completed request if it is still the latest one.
func (c *Controller) finish(token uint64, query string, err error, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest {
		c.log.Debug("discarding superseded response", zap.Uint64("token", token), zap.Uint64("latest", c.latest))
		return ErrSuperseded
	}
	if err != nil {
		c.log.Error("branch search failed", zap.String("query", query), zap.Error(err))
		c.state = Failed
		c.render(view.Notice(FailureNotice))
		return err
	}
	apply()
	return nil
}

// render swaps the content and rebinds card clicks to the new markup.
func (c *Controller) render(markup string) {
	c.view.SetContent(markup)
	c.binder.Bind(markup, c.Click)
}
