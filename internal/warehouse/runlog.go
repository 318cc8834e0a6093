package warehouse

import (
	"fmt"

	"github.com/google/uuid"

	"dataprep/internal/etl"
)

// RunLogStore persists pipeline run logs into the warehouse itself, so a
// run's outcome lives next to the tables it produced.
type RunLogStore struct {
	db *DB
}

// NewRunLogStore creates a RunLogStore.
func NewRunLogStore(db *DB) *RunLogStore {
	return &RunLogStore{db: db}
}

// RecordRun inserts a run log, assigning it an id.
func (s *RunLogStore) RecordRun(log *etl.RunLog) error {
	log.ID = uuid.New().String()
	_, err := s.db.conn.Exec(
		`INSERT INTO run_logs (id, dataset, table_name, started_at, finished_at, status, rows_read, rows_written, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.Dataset, log.Table, log.StartedAt, log.FinishedAt,
		log.Status, log.RowsRead, log.RowsWritten, log.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run logs for a dataset, newest first.
func (s *RunLogStore) ListRuns(dataset string, limit int) ([]etl.RunLog, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, dataset, table_name, started_at, finished_at, status, rows_read, rows_written, error
		 FROM run_logs WHERE dataset = ? ORDER BY started_at DESC LIMIT ?`,
		dataset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []etl.RunLog
	for rows.Next() {
		var l etl.RunLog
		if err := rows.Scan(&l.ID, &l.Dataset, &l.Table, &l.StartedAt, &l.FinishedAt,
			&l.Status, &l.RowsRead, &l.RowsWritten, &l.Error); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
