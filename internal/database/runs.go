package database

import (
	"database/sql"

	"zone53/internal/model"
)

// StartRun inserts a journal row for a new import run and returns its id.
func (db *DB) StartRun(run model.ImportRun) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		`INSERT INTO import_runs (zone_id, domain, record_type, zone_file, batch_count, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		run.ZoneID, run.Domain, run.RecordType, run.ZoneFile, run.BatchCount, run.Status,
	).Scan(&id)
	return id, err
}

// RecordBatch journals one successfully submitted batch.
func (db *DB) RecordBatch(entry model.BatchEntry) error {
	_, err := db.conn.Exec(
		`INSERT INTO import_batches (run_id, batch_index, change_count)
		 VALUES ($1, $2, $3)`,
		entry.RunID, entry.BatchIndex, entry.ChangeCount,
	)
	return err
}

// FinishRun closes out a run with its terminal status.
func (db *DB) FinishRun(id int64, status string) error {
	_, err := db.conn.Exec(
		`UPDATE import_runs SET status = $1, finished_at = now() WHERE id = $2`,
		status, id,
	)
	return err
}

// LastSubmittedBatch returns the highest batch index journaled for the
// most recent run against (zoneID, domain, recordType), or -1 when no
// batch was ever submitted. This is the index an operator resumes after.
func (db *DB) LastSubmittedBatch(zoneID, domain, recordType string) (int, error) {
	var index int
	err := db.conn.QueryRow(
		`SELECT b.batch_index
		 FROM import_batches b
		 JOIN import_runs r ON b.run_id = r.id
		 WHERE r.zone_id = $1 AND r.domain = $2 AND r.record_type = $3
		 ORDER BY r.started_at DESC, b.batch_index DESC
		 LIMIT 1`,
		zoneID, domain, recordType,
	).Scan(&index)
	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return index, nil
}

// ListRuns returns the most recent import runs, newest first.
func (db *DB) ListRuns(limit int) ([]model.ImportRun, error) {
	rows, err := db.conn.Query(
		`SELECT id, zone_id, domain, record_type, zone_file, batch_count, status, started_at,
		        COALESCE(finished_at, started_at)
		 FROM import_runs
		 ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.ImportRun
	for rows.Next() {
		var r model.ImportRun
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.Domain, &r.RecordType, &r.ZoneFile,
			&r.BatchCount, &r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
