package importer

import (
	"context"
	"fmt"
	"log"
	"os"

	"zone53/internal/model"
	"zone53/internal/zonefile"
)

// BatchSubmitter is the record-store collaborator: one call per batch.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, zoneID string, batch model.Batch) error
}

// Journal persists run and batch progress. A nil journal disables it.
type Journal interface {
	StartRun(run model.ImportRun) (int64, error)
	RecordBatch(entry model.BatchEntry) error
	FinishRun(id int64, status string) error
}

// Options select what to import and how.
type Options struct {
	ZoneFile     string
	Domain       string
	ZoneID       string
	Filter       string
	Strict       bool
	Lenient      bool
	MaxBatchSize int
	// ResumeFrom skips this many leading batches; used after a reported
	// partial failure.
	ResumeFrom int
}

// Importer runs the full zone-file-to-change-batch pipeline and submits
// the result, batch by batch, in order.
type Importer struct {
	submitter BatchSubmitter
	journal   Journal
}

func New(submitter BatchSubmitter, journal Journal) *Importer {
	return &Importer{submitter: submitter, journal: journal}
}

// Run reads and parses the zone file, builds the change batches, and
// submits them strictly in order. A failed submission stops the run
// immediately; already-submitted batches stay in place (upserts are safe
// to re-apply) and the returned SubmissionError carries the resume index.
func (imp *Importer) Run(ctx context.Context, opts Options) (model.Report, error) {
	var report model.Report

	text, err := os.ReadFile(opts.ZoneFile)
	if err != nil {
		return report, fmt.Errorf("failed to read zone file: %w", err)
	}

	raw, err := zonefile.Parse(string(text), opts.Domain, opts.Strict)
	if err != nil {
		return report, err
	}
	report.RecordsParsed = len(raw)
	log.Printf("Parsed %d records from %s", len(raw), opts.ZoneFile)

	normalized, err := Normalize(raw, NormalizeOptions{
		Domain:  opts.Domain,
		Filter:  opts.Filter,
		Lenient: opts.Lenient,
	})
	if err != nil {
		return report, err
	}
	report.RecordsImported = len(normalized)

	sets := Aggregate(normalized)
	report.RecordSets = len(sets)

	batches := PartitionBatches(BuildChanges(sets), opts.MaxBatchSize)
	report.Batches = len(batches)

	if len(batches) == 0 {
		return report, fmt.Errorf("no %s records found for %s", opts.Filter, opts.Domain)
	}
	log.Printf("Processing %d record sets for %s in %d batch(es)", len(sets), opts.Domain, len(batches))

	runID := imp.startRun(opts, len(batches))

	for i, batch := range batches {
		if i < opts.ResumeFrom {
			continue
		}
		if err := imp.submitter.SubmitBatch(ctx, opts.ZoneID, batch); err != nil {
			imp.finishRun(runID, model.RunStatusFailed)
			return report, &SubmissionError{BatchIndex: i, LastSubmitted: i - 1, Err: err}
		}
		report.BatchesSubmitted++
		imp.recordBatch(runID, i, len(batch))
		log.Printf("Batch %d/%d submitted (%d changes)", i+1, len(batches), len(batch))
	}

	imp.finishRun(runID, model.RunStatusCompleted)
	return report, nil
}

func (imp *Importer) startRun(opts Options, batchCount int) int64 {
	if imp.journal == nil {
		return 0
	}
	id, err := imp.journal.StartRun(model.ImportRun{
		ZoneID:     opts.ZoneID,
		Domain:     opts.Domain,
		RecordType: opts.Filter,
		ZoneFile:   opts.ZoneFile,
		BatchCount: batchCount,
		Status:     model.RunStatusRunning,
	})
	if err != nil {
		log.Printf("Journal unavailable, continuing without it: %v", err)
		imp.journal = nil
		return 0
	}
	return id
}

func (imp *Importer) recordBatch(runID int64, index, changes int) {
	if imp.journal == nil {
		return
	}
	_ = imp.journal.RecordBatch(model.BatchEntry{
		RunID:       runID,
		BatchIndex:  index,
		ChangeCount: changes,
	})
}

func (imp *Importer) finishRun(runID int64, status string) {
	if imp.journal == nil {
		return
	}
	_ = imp.journal.FinishRun(runID, status)
}
