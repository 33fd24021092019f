// Package session implements the labeling session: a cyclic cursor over a
// fixed number of items that accumulates category tags for each position.
//
// A Session is owned by one interactive context. It holds no locks; callers
// serialize every call.
package session

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/avatartag/internal/model"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotReady is returned by operations that need a started session
	ErrNotReady = errors.New("session not ready")

	// ErrAlreadyStarted is returned when starting or awaiting a session twice
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNoItems is returned when starting with a non-positive item count
	ErrNoItems = errors.New("item count must be positive")

	// ErrInvalidCategory is returned when labeling with an unknown category
	ErrInvalidCategory = errors.New("invalid category")

	// ErrTimedOut is returned when items never appeared within the poll bound
	ErrTimedOut = errors.New("timed out waiting for items")
)

// State is the lifecycle state of a session
type State int

const (
	StateUninitialized State = iota
	StateAwaitingItems
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingItems:
		return "awaiting_items"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ShowFunc makes an item index visible in the host
type ShowFunc func(index int)

// Session is a labeling session over one vocabulary's categories
type Session struct {
	vocab model.Vocabulary
	show  ShowFunc
	log   logrus.FieldLogger

	state     State
	itemCount int
	current   int
	labels    map[int][]int
	polls     int
	failure   error
}

// New creates an uninitialized session. show and log may be nil.
func New(vocab model.Vocabulary, show ShowFunc, log logrus.FieldLogger) *Session {
	if show == nil {
		show = func(int) {}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Session{
		vocab: vocab,
		show:  show,
		log:   log.WithField("vocabulary", vocab.Name()),
	}
}

// Start begins the session over itemCount items and shows index 0
func (s *Session) Start(itemCount int) error {
	if s.state != StateUninitialized && s.state != StateAwaitingItems {
		return fmt.Errorf("start in state %s: %w", s.state, ErrAlreadyStarted)
	}
	if itemCount <= 0 {
		return fmt.Errorf("start with %d items: %w", itemCount, ErrNoItems)
	}

	s.itemCount = itemCount
	s.current = 0
	s.labels = make(map[int][]int, s.vocab.Len())
	for i := 0; i < s.vocab.Len(); i++ {
		s.labels[i] = []int{}
	}
	s.state = StateReady

	s.showCurrent()
	return nil
}

// Next advances the cursor, wrapping to 0 after the last item
func (s *Session) Next() (int, error) {
	if err := s.requireReady("next"); err != nil {
		return 0, err
	}

	s.current = (s.current + 1) % s.itemCount
	s.showCurrent()
	return s.current, nil
}

// Previous moves the cursor back, wrapping to the last item before 0
func (s *Session) Previous() (int, error) {
	if err := s.requireReady("previous"); err != nil {
		return 0, err
	}

	s.current = (s.current - 1 + s.itemCount) % s.itemCount
	s.showCurrent()
	return s.current, nil
}

// Label tags the current item with category.
// The same item may be tagged repeatedly and under several categories.
func (s *Session) Label(category int) error {
	if err := s.requireReady("label"); err != nil {
		return err
	}
	if !s.vocab.Valid(category) {
		return fmt.Errorf("label %d (have %d categories): %w", category, s.vocab.Len(), ErrInvalidCategory)
	}

	s.labels[category] = append(s.labels[category], s.current)

	s.log.WithFields(logrus.Fields{
		"index":    s.current,
		"category": category,
	}).Infof("Marked index %d as %s", s.current, strings.ToUpper(s.vocab.CategoryName(category)))

	return nil
}

// Summary returns a snapshot of category index to tagged item indices
func (s *Session) Summary() (map[int][]int, error) {
	if err := s.requireReady("summary"); err != nil {
		return nil, err
	}

	out := make(map[int][]int, len(s.labels))
	for category, items := range s.labels {
		out[category] = append([]int{}, items...)
	}
	return out, nil
}

// Report returns the summary in export form, buckets in index order
func (s *Session) Report() (model.LabelSummary, error) {
	labels, err := s.Summary()
	if err != nil {
		return model.LabelSummary{}, err
	}

	report := model.LabelSummary{
		Vocabulary:  s.vocab.Name(),
		ItemCount:   s.itemCount,
		GeneratedAt: time.Now().UTC(),
		Buckets:     make([]model.LabelBucket, 0, s.vocab.Len()),
	}
	for i := 0; i < s.vocab.Len(); i++ {
		report.Buckets = append(report.Buckets, model.LabelBucket{
			Index: i,
			Name:  s.vocab.CategoryName(i),
			Items: labels[i],
		})
	}
	return report, nil
}

// Reset discards all state and returns the session to Uninitialized
func (s *Session) Reset() {
	s.state = StateUninitialized
	s.itemCount = 0
	s.current = 0
	s.labels = nil
	s.polls = 0
	s.failure = nil
}

// State returns the lifecycle state
func (s *Session) State() State {
	return s.state
}

// Current returns the cursor position
func (s *Session) Current() int {
	return s.current
}

// ItemCount returns the number of items, 0 before Start
func (s *Session) ItemCount() int {
	return s.itemCount
}

// Vocabulary returns the category set of the session
func (s *Session) Vocabulary() model.Vocabulary {
	return s.vocab
}

// Polls returns how many times AwaitReady queried the item count
func (s *Session) Polls() int {
	return s.polls
}

// Err returns the reason the session failed, if it did
func (s *Session) Err() error {
	return s.failure
}

func (s *Session) requireReady(op string) error {
	if s.state != StateReady {
		return fmt.Errorf("%s in state %s: %w", op, s.state, ErrNotReady)
	}
	return nil
}

func (s *Session) showCurrent() {
	s.show(s.current)
	s.log.WithFields(logrus.Fields{
		"index": s.current,
		"count": s.itemCount,
	}).Infof("Showing index %d/%d", s.current, s.itemCount-1)
}
