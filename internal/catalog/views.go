package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrViewNotFound     = errors.New("view not found")
	ErrTooManyViews     = errors.New("too many views")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// loadedCatalog serves an already loaded catalog to a view controller.
// Views never read or write the durable cache.
type loadedCatalog []Course

func (l loadedCatalog) Get(context.Context) ([]Course, bool, error) { return l, true, nil }

func (loadedCatalog) Put(context.Context, []Course) error { return nil }

type view struct {
	c    *Controller
	seen time.Time
}

// Views holds per-client controllers, each with its own filters over the
// catalog loaded by src. Views idle for longer than idle are dropped.
type Views struct {
	src  *Controller
	opts []Option
	max  int
	idle time.Duration
	now  func() time.Time

	mu sync.Mutex
	m  map[string]*view
}

// NewViews returns a registry of views over src. max <= 0 means no cap and
// idle <= 0 keeps views until deleted.
func NewViews(src *Controller, max int, idle time.Duration, opts ...Option) *Views {
	return &Views{
		src:  src,
		opts: opts,
		max:  max,
		idle: idle,
		now:  time.Now,
		m:    make(map[string]*view),
	}
}

func (v *Views) Create(ctx context.Context) (string, *Controller, error) {
	if v.src.Status() != StatusReady {
		return "", nil, ErrCatalogNotLoaded
	}

	opts := append([]Option{WithSearcher(v.src.Search()), WithLogger(v.src.log)}, v.opts...)
	c := NewController(loadedCatalog(v.src.All()), opts...)
	if err := c.Init(ctx); err != nil {
		return "", nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	v.expire(now)
	if v.max > 0 && len(v.m) >= v.max {
		return "", nil, ErrTooManyViews
	}

	id := "v_" + uuid.NewString()
	v.m[id] = &view{c: c, seen: now}
	return id, c, nil
}

// Get returns the view and marks it as used.
func (v *Views) Get(id string) (*Controller, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	e, ok := v.m[id]
	if !ok || v.expired(e, now) {
		delete(v.m, id)
		return nil, ErrViewNotFound
	}
	e.seen = now
	return e.c, nil
}

func (v *Views) Delete(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.m[id]
	delete(v.m, id)
	return ok
}

func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.m)
}

// expire must be called with mu held.
func (v *Views) expire(now time.Time) {
	if v.idle <= 0 {
		return
	}
	for id, e := range v.m {
		if v.expired(e, now) {
			delete(v.m, id)
		}
	}
}

func (v *Views) expired(e *view, now time.Time) bool {
	return v.idle > 0 && now.Sub(e.seen) > v.idle
}
