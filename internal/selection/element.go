package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrOutOfRange is returned when selecting an index the element does not hold
var ErrOutOfRange = errors.New("index out of range")

// Loader produces the asset ids of an element
type Loader interface {
	Load(ctx context.Context) ([]string, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context) ([]string, error)

// Load implements Loader
func (f LoaderFunc) Load(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Listener is notified after every successful selection
type Listener func(index int, asset string)

// Element is an ordered, selectable collection of assets.
// It is safe for concurrent use: a background load races the readers.
type Element struct {
	name string

	mu        sync.RWMutex
	assets    []string
	selected  int
	listeners map[uint64]Listener
	nextID    uint64
	loadErr   error
}

// NewElement creates an empty element
func NewElement(name string) *Element {
	return &Element{
		name:      name,
		selected:  -1,
		listeners: make(map[uint64]Listener),
	}
}

// Name returns the element name
func (e *Element) Name() string {
	return e.name
}

// Load replaces the assets and clears the selection
func (e *Element) Load(assets []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.assets = append([]string(nil), assets...)
	e.selected = -1
	e.loadErr = nil
}

// LoadAsync fills the element from loader in a background goroutine.
// The returned channel receives the load error (or nil) and is then closed.
func (e *Element) LoadAsync(ctx context.Context, loader Loader) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		assets, err := loader.Load(ctx)
		if err != nil {
			e.mu.Lock()
			e.loadErr = err
			e.mu.Unlock()
			done <- fmt.Errorf("load %s: %w", e.name, err)
			return
		}

		e.Load(assets)
		done <- nil
	}()

	return done
}

// Err returns the error of the last asynchronous load, if any
func (e *Element) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loadErr
}

// Count implements ItemCounter
func (e *Element) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.assets)
}

// Select implements Selector
func (e *Element) Select(index int) error {
	e.mu.Lock()
	if index < 0 || index >= len(e.assets) {
		n := len(e.assets)
		e.mu.Unlock()
		return fmt.Errorf("%s: select %d of %d: %w", e.name, index, n, ErrOutOfRange)
	}

	e.selected = index
	asset := e.assets[index]
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	// Listeners run outside the lock so they may call back into the element
	for _, l := range listeners {
		l(index, asset)
	}
	return nil
}

// Selected returns the selected index, or -1 when nothing is selected
func (e *Element) Selected() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected
}

// Asset returns the asset id at index
func (e *Element) Asset(index int) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if index < 0 || index >= len(e.assets) {
		return "", false
	}
	return e.assets[index], true
}

// Assets returns a copy of all asset ids
func (e *Element) Assets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.assets...)
}

// LogAssets logs every asset with its index
func (e *Element) LogAssets(log logrus.FieldLogger) {
	for i, asset := range e.Assets() {
		log.WithFields(logrus.Fields{
			"element": e.name,
			"index":   i,
		}).Infof("[%s] %d: %s", e.name, i, asset)
	}
}

// Subscribe registers a listener for selections.
// The caller owns the returned registration and must Release it on teardown.
func (e *Element) Subscribe(l Listener) *Registration {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = l

	return &Registration{element: e, id: id}
}

// Listeners returns the number of active registrations
func (e *Element) Listeners() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

func (e *Element) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, id)
}

// Registration is the handle of one Subscribe call
type Registration struct {
	element *Element
	id      uint64
	once    sync.Once
}

// Release removes the listener. Safe to call more than once.
func (r *Registration) Release() {
	r.once.Do(func() {
		r.element.unsubscribe(r.id)
	})
}
