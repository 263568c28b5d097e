// Package recipe implements the regression corpus: named, versioned input
// snapshots that are re-run through the current engine and diffed against
// stored output snapshots to detect numeric drift.
//
// A run never throws: a recipe without the requested comparison snapshot is
// skipped (Passed == nil), and a panic inside the engine degrades that one
// recipe to skipped so a corpus sweep always completes. Drift detection is
// exact - any relative delta above zero counts. Tolerance is a reporting
// decision for the consumer, not something the comparator applies silently.
package recipe
