package importer

import (
	"fmt"
	"testing"

	"zone53/internal/model"
)

func makeSets(n int) []model.RecordSet {
	sets := make([]model.RecordSet, 0, n)
	for i := 0; i < n; i++ {
		sets = append(sets, model.RecordSet{
			FQDN:   fmt.Sprintf("host%d.example.com", i),
			Type:   model.TypeA,
			TTL:    300,
			Values: []string{fmt.Sprintf("192.0.2.%d", i)},
		})
	}
	return sets
}

func TestBuildChanges(t *testing.T) {
	changes := BuildChanges(makeSets(3))
	if len(changes) != 3 {
		t.Fatalf("Expected 3 changes, got %d", len(changes))
	}
	for i, c := range changes {
		if c.Action != model.ActionUpsert {
			t.Errorf("Change %d: expected UPSERT, got %s", i, c.Action)
		}
		if c.RecordSet.FQDN != fmt.Sprintf("host%d.example.com", i) {
			t.Errorf("Change %d out of order: %s", i, c.RecordSet.FQDN)
		}
	}
}

func TestPartitionBatches(t *testing.T) {
	tests := []struct {
		name        string
		changes     int
		maxSize     int
		wantBatches int
		wantLast    int
	}{
		{"empty", 0, 10, 0, 0},
		{"single partial", 7, 10, 1, 7},
		{"exact multiple", 20, 10, 2, 10},
		{"remainder", 25, 10, 3, 5},
		{"default size", 5, 0, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := PartitionBatches(BuildChanges(makeSets(tt.changes)), tt.maxSize)
			if len(batches) != tt.wantBatches {
				t.Fatalf("Expected %d batches, got %d", tt.wantBatches, len(batches))
			}
			max := tt.maxSize
			if max <= 0 {
				max = DefaultMaxBatchSize
			}
			for i, b := range batches {
				if len(b) > max {
					t.Errorf("Batch %d exceeds maximum size: %d > %d", i, len(b), max)
				}
				if len(b) == 0 {
					t.Errorf("Batch %d is empty", i)
				}
			}
			if tt.wantBatches > 0 && len(batches[len(batches)-1]) != tt.wantLast {
				t.Errorf("Expected last batch of %d, got %d", tt.wantLast, len(batches[len(batches)-1]))
			}
		})
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	batches := PartitionBatches(BuildChanges(makeSets(25)), 10)
	i := 0
	for _, b := range batches {
		for _, c := range b {
			want := fmt.Sprintf("host%d.example.com", i)
			if c.RecordSet.FQDN != want {
				t.Fatalf("Position %d: expected %s, got %s", i, want, c.RecordSet.FQDN)
			}
			i++
		}
	}
	if i != 25 {
		t.Errorf("Expected 25 changes across batches, got %d", i)
	}
}
