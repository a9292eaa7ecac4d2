package importer

import "fmt"

// ValidationError reports a record whose value cannot be rendered into the
// form the record store expects.
type ValidationError struct {
	Line int
	FQDN string
	Type string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record for %s (line %d): %s", e.Type, e.FQDN, e.Line, e.Msg)
}

// SubmissionError reports a failed batch submission. LastSubmitted is the
// index of the last batch that went through, so the operator can re-run
// with --resume-from; it is -1 when nothing was submitted. Batches already
// submitted are not rolled back: upserts make a re-run safe.
type SubmissionError struct {
	BatchIndex    int
	LastSubmitted int
	Err           error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("batch %d submission failed (last successfully submitted batch index: %d): %v",
		e.BatchIndex, e.LastSubmitted, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
