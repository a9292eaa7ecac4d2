package importer

import "zone53/internal/model"

// DefaultMaxBatchSize matches Route53's documented per-call change limit.
const DefaultMaxBatchSize = 1000

// BuildChanges emits one UPSERT change per record set, in aggregation
// order.
func BuildChanges(sets []model.RecordSet) []model.Change {
	changes := make([]model.Change, 0, len(sets))
	for _, rs := range sets {
		changes = append(changes, model.Change{
			Action:    model.ActionUpsert,
			RecordSet: rs,
		})
	}
	return changes
}

// PartitionBatches splits changes into sequential windows of at most
// maxSize, never reordering. Batch boundaries are stable across runs,
// which is what makes resuming by batch index well-defined.
func PartitionBatches(changes []model.Change, maxSize int) []model.Batch {
	if maxSize <= 0 {
		maxSize = DefaultMaxBatchSize
	}
	var batches []model.Batch
	for start := 0; start < len(changes); start += maxSize {
		end := start + maxSize
		if end > len(changes) {
			end = len(changes)
		}
		batches = append(batches, model.Batch(changes[start:end]))
	}
	return batches
}
