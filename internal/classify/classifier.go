// Package classify resolves free text to a category index of a vocabulary.
//
// A keyword matches anywhere inside the lowercased text ("thin" matches
// "rethinking"). Rules are tried in declared order, then the numeric fallback
// tokens in the same order.
package classify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/avatartag/internal/model"
	"github.com/ppiankov/avatartag/internal/selection"
	"github.com/sirupsen/logrus"
)

// Unresolved is the index reported when nothing matched
const Unresolved = -1

var (
	// ErrEmptyText is returned by Resolve for empty or whitespace-only text
	ErrEmptyText = errors.New("empty text")

	// ErrUnresolved is returned by Resolve when no keyword or fallback matched
	ErrUnresolved = errors.New("could not resolve category")
)

// Method describes how a result was reached
type Method string

const (
	MethodKeyword Method = "keyword" // A rule keyword was found in the text
	MethodNumeric Method = "numeric" // No keyword matched; a fallback token did
	MethodNone    Method = "none"    // Nothing matched
)

// Result is the outcome of a classification
type Result struct {
	Index  int    `json:"index"`          // Category index, or Unresolved
	Method Method `json:"method"`         // How the index was found
	Term   string `json:"term,omitempty"` // Keyword or token that matched
}

// Resolved reports whether a category was found
func (r Result) Resolved() bool {
	return r.Index != Unresolved
}

var unresolved = Result{Index: Unresolved, Method: MethodNone}

// Classify maps text to a category of vocab. It has no side effects.
func Classify(text string, vocab model.Vocabulary) Result {
	if strings.TrimSpace(text) == "" {
		return unresolved
	}

	normalized := model.Normalize(text)

	for i := 0; i < vocab.Len(); i++ {
		rule := vocab.At(i)
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return Result{Index: rule.Index, Method: MethodKeyword, Term: kw}
			}
		}
	}

	// "body 1", "type 2", ...
	for i := 0; i < vocab.Len(); i++ {
		rule := vocab.At(i)
		if rule.Fallback != "" && strings.Contains(normalized, rule.Fallback) {
			return Result{Index: rule.Index, Method: MethodNumeric, Term: rule.Fallback}
		}
	}

	return unresolved
}

// Classifier binds a vocabulary to a logger
type Classifier struct {
	vocab model.Vocabulary
	log   logrus.FieldLogger
}

// New creates a classifier. A nil logger discards diagnostics.
func New(vocab model.Vocabulary, log logrus.FieldLogger) *Classifier {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Classifier{
		vocab: vocab,
		log:   log,
	}
}

// Vocabulary returns the vocabulary this classifier resolves against
func (c *Classifier) Vocabulary() model.Vocabulary {
	return c.vocab
}

// Classify resolves text and logs the decision
func (c *Classifier) Classify(text string) Result {
	res := Classify(text, c.vocab)
	c.LogDecision(text, res)
	return res
}

// LogDecision logs the outcome of classifying text, for results obtained
// without calling Classify (e.g. from a cache)
func (c *Classifier) LogDecision(text string, res Result) {
	entry := c.log.WithFields(logrus.Fields{
		"vocabulary": c.vocab.Name(),
		"text":       text,
	})

	if strings.TrimSpace(text) == "" {
		entry.Debug("empty text ignored")
		return
	}

	if !res.Resolved() {
		entry.Warnf("could not understand %s from '%s'", c.vocab.Name(), text)
		return
	}

	entry.WithFields(logrus.Fields{
		"index":  res.Index,
		"method": res.Method,
		"term":   res.Term,
	}).Infof("'%s' -> %s index %d (%s)", text, c.vocab.Name(), res.Index, c.vocab.CategoryName(res.Index))
}

// Resolve is Classify with explicit failures for empty and unmatched text
func (c *Classifier) Resolve(text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return Unresolved, ErrEmptyText
	}

	res := c.Classify(text)
	if !res.Resolved() {
		return Unresolved, fmt.Errorf("%w: %s from %q", ErrUnresolved, c.vocab.Name(), text)
	}
	return res.Index, nil
}

// Apply classifies text and hands a resolved index to the selector.
// Unresolved text leaves the selection untouched.
func (c *Classifier) Apply(text string, sel selection.Selector) (Result, error) {
	res := c.Classify(text)
	if !res.Resolved() {
		return res, nil
	}

	if err := sel.Select(res.Index); err != nil {
		return res, fmt.Errorf("apply %s index %d: %w", c.vocab.Name(), res.Index, err)
	}
	return res, nil
}
