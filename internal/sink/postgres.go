// Package sink persists completed interview analyses. It is the durable
// side of an otherwise volatile system: sessions live in memory, but a
// finished interview's evaluation is written here when the owner is known.
package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-agent/internal/interview"
)

// Postgres writes analysis records to PostgreSQL. The orchestrator treats
// write failures as non-fatal; this type only reports them.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Write stores one completed analysis with its full transcript. Analysis
// and transcript go into JSONB columns so the schema does not chase the
// evolving result shape.
func (p *Postgres) Write(ctx context.Context, rec interview.ResultRecord) error {
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	transcriptJSON, err := json.Marshal(rec.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO interview_results (owner_id, job_title, company, analysis, transcript)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.OwnerID, rec.JobTitle, rec.Company, analysisJSON, transcriptJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to write interview result: %w", err)
	}
	return nil
}
