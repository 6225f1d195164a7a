// Package condense implements Hart's condensed nearest-neighbor rule.
//
// A Condenser reduces a labeled training set to a subset that still
// classifies every discarded element correctly under 1-NN:
//
//	c := condense.New(training, condense.WithMetric(distance.Euclidean))
//	if err := c.RunAndPersist(ctx, sink); err != nil { ... }
//	reduced := c.Condensed()
//
// The first training element seeds the condensed set. Each pass iterates a
// snapshot of the remaining elements; an element whose nearest condensed
// neighbor carries a different label joins the condensed set immediately,
// while its removal from the remaining set is buffered until the pass ends.
// A pass without moves terminates the run.
//
// RunAndPersist writes the condensed set to a Sink on every exit path,
// including cancellation and panics.
package condense
