package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"CourseBrowser/internal/fuzzy"
)

var ErrInitInProgress = errors.New("catalog init already in progress")

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// CatalogCache is the durable home of the generated catalog.
type CatalogCache interface {
	Get(ctx context.Context) ([]Course, bool, error)
	Put(ctx context.Context, courses []Course) error
}

type State struct {
	All      []Course `json:"all"`
	Filtered []Course `json:"filtered"`
	Filters  Filters  `json:"filters"`
	Status   Status   `json:"status"`
}

// Controller owns the load lifecycle of one catalog session and the filtered
// view derived from it. The loaded catalog is never mutated.
type Controller struct {
	cache   CatalogCache
	rng     *rand.Rand
	search  *fuzzy.Searcher
	log     *zap.Logger
	metrics *Metrics

	mu       sync.Mutex
	status   Status
	all      []Course
	filtered []Course
	filters  Filters
}

type Option func(*Controller)

func WithRand(rng *rand.Rand) Option { return func(c *Controller) { c.rng = rng } }

func WithSearcher(s *fuzzy.Searcher) Option { return func(c *Controller) { c.search = s } }

func WithLogger(log *zap.Logger) Option { return func(c *Controller) { c.log = log } }

func WithMetrics(m *Metrics) Option { return func(c *Controller) { c.metrics = m } }

func NewController(cache CatalogCache, opts ...Option) *Controller {
	c := &Controller{
		cache:    cache,
		search:   fuzzy.NewSearcher(),
		log:      zap.NewNop(),
		status:   StatusIdle,
		all:      []Course{},
		filtered: []Course{},
		filters:  DefaultFilters(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = NewRand(0)
	}
	return c
}

// Init loads the catalog cache-first, generating and storing it on a miss.
// It is a no-op once ready and returns ErrInitInProgress while loading.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	switch c.status {
	case StatusReady:
		c.mu.Unlock()
		return nil
	case StatusLoading:
		c.mu.Unlock()
		return ErrInitInProgress
	}
	c.status = StatusLoading
	c.mu.Unlock()

	courses := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = courses
	c.recompute()
	c.status = StatusReady
	return nil
}

func (c *Controller) load(ctx context.Context) []Course {
	cached, ok, err := c.cache.Get(ctx)
	switch {
	case err != nil:
		c.metrics.cacheRead(resultError)
		c.log.Warn("catalog cache read failed, regenerating", zap.Error(err))
	case ok:
		c.metrics.cacheRead(resultHit)
		c.log.Info("catalog loaded from cache", zap.Int("courses", len(cached)))
		return cached
	default:
		c.metrics.cacheRead(resultMiss)
	}

	courses := Generate(c.rng)
	c.metrics.generated()
	c.log.Info("catalog generated", zap.Int("courses", len(courses)))

	if err := c.cache.Put(ctx, courses); err != nil {
		c.metrics.cacheWrite(resultError)
		c.log.Warn("catalog cache write failed", zap.Error(err))
	} else {
		c.metrics.cacheWrite(resultOK)
	}
	return courses
}

// Reset drops the loaded catalog and returns to idle so Init can run again.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusLoading {
		return ErrInitInProgress
	}
	c.status = StatusIdle
	c.all = []Course{}
	c.filters = DefaultFilters()
	c.recompute()
	return nil
}

func (c *Controller) SetQuery(q string) {
	c.update(func(f *Filters) { f.Query = q })
}

func (c *Controller) SetGrade(g int) {
	c.update(func(f *Filters) { f.Grade = g })
}

func (c *Controller) SetSubject(s Subject) {
	c.update(func(f *Filters) { f.Subject = s })
}

func (c *Controller) SetProgressFilter(b ProgressBucket) {
	c.update(func(f *Filters) { f.Progress = b })
}

func (c *Controller) update(fn func(*Filters)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.filters)
	c.recompute()
}

// recompute must be called with mu held.
func (c *Controller) recompute() {
	defer c.metrics.observeFilter(time.Now())
	c.filtered = Apply(c.all, c.filters, c.search)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// All returns the loaded catalog. Callers must not modify it.
func (c *Controller) All() []Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.all
}

func (c *Controller) Search() *fuzzy.Searcher { return c.search }

// State returns a snapshot. The slices are shared and must be treated as read-only.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		All:      c.all,
		Filtered: c.filtered,
		Filters:  c.filters,
		Status:   c.status,
	}
}
