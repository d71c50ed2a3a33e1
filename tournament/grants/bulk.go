/* bulk.go
 * Contains the best-effort bulk outcome collector. Bulk role/channel cleanup
 * must visit every target even when individual platform calls fail, so loops
 * record per-item outcomes instead of aborting
 * Authors: Zachary Bower
 */

package grants

// BulkFailure records one failed item of a bulk operation
type BulkFailure struct {
	Item string
	Err  error
}

// BulkOutcome summarises a best-effort bulk operation
type BulkOutcome struct {
	Succeeded int
	Failures  []BulkFailure
}

// Observe records the outcome of one item
func (o *BulkOutcome) Observe(item string, err error) {
	if err != nil {
		o.Failures = append(o.Failures, BulkFailure{Item: item, Err: err})
		return
	}
	o.Succeeded++
}

// Merge folds another outcome into this one
func (o *BulkOutcome) Merge(other BulkOutcome) {
	o.Succeeded += other.Succeeded
	o.Failures = append(o.Failures, other.Failures...)
}

// FailedCount returns the number of failed items
func (o BulkOutcome) FailedCount() int {
	return len(o.Failures)
}
