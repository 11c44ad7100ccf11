package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Observation struct {
	ID      int64
	RunID   string
	Asin    string
	Rating  float64
	Reviews int64
	Source  string
	Time    int64
}

type CreateObservationParams struct {
	RunID   string
	Asin    string
	Rating  float64
	Reviews int64
	Source  string
	Time    int64
}

const createObservation = `
INSERT INTO observations (run_id, asin, rating, reviews, source, time)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateObservation(ctx context.Context, arg CreateObservationParams) error {
	_, err := q.db.ExecContext(ctx, createObservation,
		arg.RunID, arg.Asin, arg.Rating, arg.Reviews, arg.Source, arg.Time)
	return err
}

const getObservations = `
SELECT id, run_id, asin, rating, reviews, source, time
FROM observations
WHERE asin = ?
ORDER BY time ASC
`

func (q *Queries) GetObservations(ctx context.Context, asin string) ([]Observation, error) {
	rows, err := q.db.QueryContext(ctx, getObservations, asin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(&o.ID, &o.RunID, &o.Asin, &o.Rating, &o.Reviews, &o.Source, &o.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

const getRunObservations = `
SELECT id, run_id, asin, rating, reviews, source, time
FROM observations
WHERE run_id = ?
ORDER BY id ASC
`

func (q *Queries) GetRunObservations(ctx context.Context, runID string) ([]Observation, error) {
	rows, err := q.db.QueryContext(ctx, getRunObservations, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(&o.ID, &o.RunID, &o.Asin, &o.Rating, &o.Reviews, &o.Source, &o.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

const getLastRunID = `
SELECT run_id FROM observations ORDER BY id DESC LIMIT 1
`

// GetLastRunID returns "" when no observations exist yet.
func (q *Queries) GetLastRunID(ctx context.Context) (string, error) {
	var runID string
	err := q.db.QueryRowContext(ctx, getLastRunID).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return runID, nil
}
