// Package selection holds the narrow interfaces the core uses to reach the
// host's asset collection, and an in-memory Element that implements them.
package selection

// ItemCounter reports how many selectable items exist right now.
// It may return 0 until an asynchronous load completes.
type ItemCounter interface {
	Count() int
}

// CountFunc adapts a function to ItemCounter
type CountFunc func() int

// Count implements ItemCounter
func (f CountFunc) Count() int {
	return f()
}

// Selector makes an index the current selection in the host
type Selector interface {
	Select(index int) error
}

// SelectFunc adapts a function to Selector
type SelectFunc func(index int) error

// Select implements Selector
func (f SelectFunc) Select(index int) error {
	return f(index)
}
