package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"zone53/internal/model"
)

type mockSubmitter struct {
	batches []model.Batch
	zoneIDs []string
	failAt  int // batch index to fail on, -1 = never
}

func newMockSubmitter() *mockSubmitter {
	return &mockSubmitter{failAt: -1}
}

func (m *mockSubmitter) SubmitBatch(ctx context.Context, zoneID string, batch model.Batch) error {
	if m.failAt >= 0 && len(m.batches) == m.failAt {
		return errors.New("throttled")
	}
	m.batches = append(m.batches, batch)
	m.zoneIDs = append(m.zoneIDs, zoneID)
	return nil
}

type mockJournal struct {
	runs     []model.ImportRun
	entries  []model.BatchEntry
	statuses []string
}

func (m *mockJournal) StartRun(run model.ImportRun) (int64, error) {
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *mockJournal) RecordBatch(entry model.BatchEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournal) FinishRun(id int64, status string) error {
	m.statuses = append(m.statuses, status)
	return nil
}

func writeZoneFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zone")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write zone file: %v", err)
	}
	return path
}

func TestRunAggregatesAndSubmits(t *testing.T) {
	path := writeZoneFile(t, "www 300 IN A 192.0.2.1\nwww 300 IN A 192.0.2.2\n")
	sub := newMockSubmitter()

	report, err := New(sub, nil).Run(context.Background(), Options{
		ZoneFile: path,
		Domain:   "example.com",
		ZoneID:   "Z1234567891011",
		Filter:   model.TypeA,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sub.batches) != 1 {
		t.Fatalf("Expected 1 submitted batch, got %d", len(sub.batches))
	}
	if sub.zoneIDs[0] != "Z1234567891011" {
		t.Errorf("Expected hosted zone ID passed through, got %s", sub.zoneIDs[0])
	}

	batch := sub.batches[0]
	if len(batch) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(batch))
	}
	rs := batch[0].RecordSet
	want := model.RecordSet{
		FQDN:   "www.example.com",
		Type:   model.TypeA,
		TTL:    300,
		Values: []string{"192.0.2.1", "192.0.2.2"},
	}
	if !reflect.DeepEqual(rs, want) {
		t.Errorf("Expected record set %+v, got %+v", want, rs)
	}

	if report.RecordsParsed != 2 || report.RecordSets != 1 || report.BatchesSubmitted != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestRunMXWithTTLDirective(t *testing.T) {
	path := writeZoneFile(t, "$TTL 600\nmail IN MX 10 mx1.example.com.\n")
	sub := newMockSubmitter()

	_, err := New(sub, nil).Run(context.Background(), Options{
		ZoneFile: path,
		Domain:   "example.com",
		ZoneID:   "Z1",
		Filter:   model.TypeMX,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rs := sub.batches[0][0].RecordSet
	if rs.TTL != 600 {
		t.Errorf("Expected TTL 600 from directive, got %d", rs.TTL)
	}
	if len(rs.Values) != 1 || rs.Values[0] != "10 mx1.example.com." {
		t.Errorf("Expected values [10 mx1.example.com.], got %v", rs.Values)
	}
}

func TestRunApexNSProducesNothing(t *testing.T) {
	path := writeZoneFile(t, "@ IN NS ns1.example.com.\n")
	sub := newMockSubmitter()

	_, err := New(sub, nil).Run(context.Background(), Options{
		ZoneFile: path,
		Domain:   "example.com",
		ZoneID:   "Z1",
		Filter:   model.TypeAll,
	})
	if err == nil {
		t.Fatal("Expected an error when nothing is left to import")
	}
	if len(sub.batches) != 0 {
		t.Errorf("Apex NS must never be submitted, got %d batches", len(sub.batches))
	}
}

func TestRunParseErrorBeforeAnySubmission(t *testing.T) {
	path := writeZoneFile(t, "www IN A 192.0.2.1\nbad 300 CH A 192.0.2.2\n")
	sub := newMockSubmitter()

	_, err := New(sub, nil).Run(context.Background(), Options{
		ZoneFile: path,
		Domain:   "example.com",
		ZoneID:   "Z1",
		Filter:   model.TypeA,
	})
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if len(sub.batches) != 0 {
		t.Errorf("No batch may be submitted after a parse error, got %d", len(sub.batches))
	}
}

func manyHostsZone(n int) string {
	content := ""
	for i := 0; i < n; i++ {
		content += fmt.Sprintf("host%03d 300 IN A 192.0.2.%d\n", i, i%250+1)
	}
	return content
}

func TestRunStopsAtFailedBatch(t *testing.T) {
	path := writeZoneFile(t, manyHostsZone(25))
	sub := newMockSubmitter()
	sub.failAt = 2
	journal := &mockJournal{}

	report, err := New(sub, journal).Run(context.Background(), Options{
		ZoneFile:     path,
		Domain:       "example.com",
		ZoneID:       "Z1",
		Filter:       model.TypeA,
		MaxBatchSize: 10,
	})

	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected SubmissionError, got %v", err)
	}
	if serr.BatchIndex != 2 {
		t.Errorf("Expected failure at batch index 2, got %d", serr.BatchIndex)
	}
	if serr.LastSubmitted != 1 {
		t.Errorf("Expected last submitted index 1, got %d", serr.LastSubmitted)
	}
	if len(sub.batches) != 2 {
		t.Errorf("Batch after a failure must not be attempted, got %d submissions", len(sub.batches))
	}
	if report.BatchesSubmitted != 2 {
		t.Errorf("Expected 2 batches reported submitted, got %d", report.BatchesSubmitted)
	}

	if len(journal.entries) != 2 {
		t.Errorf("Expected 2 journaled batches, got %d", len(journal.entries))
	}
	if len(journal.statuses) != 1 || journal.statuses[0] != model.RunStatusFailed {
		t.Errorf("Expected run journaled as failed, got %v", journal.statuses)
	}
}

func TestRunResumeSkipsLeadingBatches(t *testing.T) {
	path := writeZoneFile(t, manyHostsZone(25))
	sub := newMockSubmitter()

	report, err := New(sub, nil).Run(context.Background(), Options{
		ZoneFile:     path,
		Domain:       "example.com",
		ZoneID:       "Z1",
		Filter:       model.TypeA,
		MaxBatchSize: 10,
		ResumeFrom:   2,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sub.batches) != 1 {
		t.Fatalf("Expected only the final batch, got %d", len(sub.batches))
	}
	if sub.batches[0][0].RecordSet.FQDN != "host020.example.com" {
		t.Errorf("Resume submitted wrong window, first change is %s", sub.batches[0][0].RecordSet.FQDN)
	}
	if report.Batches != 3 || report.BatchesSubmitted != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestRunDeterministic(t *testing.T) {
	path := writeZoneFile(t, manyHostsZone(25))

	first := newMockSubmitter()
	if _, err := New(first, nil).Run(context.Background(), Options{
		ZoneFile: path, Domain: "example.com", ZoneID: "Z1",
		Filter: model.TypeA, MaxBatchSize: 10,
	}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	second := newMockSubmitter()
	if _, err := New(second, nil).Run(context.Background(), Options{
		ZoneFile: path, Domain: "example.com", ZoneID: "Z1",
		Filter: model.TypeA, MaxBatchSize: 10,
	}); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !reflect.DeepEqual(first.batches, second.batches) {
		t.Error("Two runs over identical input produced different batch sequences")
	}
}

func TestRunJournalsCompletedRun(t *testing.T) {
	path := writeZoneFile(t, "www 300 IN A 192.0.2.1\n")
	sub := newMockSubmitter()
	journal := &mockJournal{}

	_, err := New(sub, journal).Run(context.Background(), Options{
		ZoneFile: path,
		Domain:   "example.com",
		ZoneID:   "Z1",
		Filter:   model.TypeA,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(journal.runs) != 1 {
		t.Fatalf("Expected 1 journaled run, got %d", len(journal.runs))
	}
	run := journal.runs[0]
	if run.ZoneID != "Z1" || run.Domain != "example.com" || run.RecordType != model.TypeA || run.BatchCount != 1 {
		t.Errorf("Unexpected journaled run: %+v", run)
	}
	if len(journal.statuses) != 1 || journal.statuses[0] != model.RunStatusCompleted {
		t.Errorf("Expected completed status, got %v", journal.statuses)
	}
}
