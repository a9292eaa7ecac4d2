package model

import "time"

// Supported record types. Zone exports routinely contain more (SOA, CAA,
// DNSKEY, ...); anything outside this set is skipped or rejected at parse
// time depending on strict mode.
const (
	TypeA     = "A"
	TypeAAAA  = "AAAA"
	TypeCNAME = "CNAME"
	TypeMX    = "MX"
	TypeNS    = "NS"
	TypePTR   = "PTR"
	TypeSPF   = "SPF"
	TypeSRV   = "SRV"
	TypeTXT   = "TXT"

	// TypeAll is the filter sentinel meaning "import every supported type".
	TypeAll = "ALL"
)

// SupportedTypes lists every record type the importer can submit.
var SupportedTypes = []string{
	TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeNS, TypePTR, TypeSPF, TypeSRV, TypeTXT,
}

// IsSupportedType reports whether t is an importable record type.
func IsSupportedType(t string) bool {
	for _, s := range SupportedTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Record is a normalized resource record: fully-qualified name, resolved
// TTL, and the value rendered into the textual form Route53 expects.
type Record struct {
	FQDN  string
	Type  string
	TTL   int64
	Value string
}

// RecordSet groups the values of all records sharing (FQDN, Type). It is
// the unit submitted to the record store.
type RecordSet struct {
	FQDN   string
	Type   string
	TTL    int64
	Values []string
}

// Change is one upsert instruction. Action is always UPSERT: a mis-imported
// record is corrected by re-running the import, never by deleting.
type Change struct {
	Action    string
	RecordSet RecordSet
}

// ActionUpsert is the only change action the importer emits.
const ActionUpsert = "UPSERT"

// Batch is an ordered window of changes sized for one API submission.
type Batch []Change

// Report summarizes a completed (or partially completed) import run.
type Report struct {
	RecordsParsed    int
	RecordsImported  int
	RecordSets       int
	Batches          int
	BatchesSubmitted int
}

// ImportRun is one journal row per pipeline execution.
type ImportRun struct {
	ID         int64
	ZoneID     string
	Domain     string
	RecordType string
	ZoneFile   string
	BatchCount int
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run statuses stored in the journal.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BatchEntry records one successfully submitted batch for a run.
type BatchEntry struct {
	RunID       int64
	BatchIndex  int
	ChangeCount int
	SubmittedAt time.Time
}
