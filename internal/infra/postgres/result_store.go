package postgres

import (
	"context"
	"fmt"

	"quiz-client/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultStore records finished quizzes in the quiz_results table.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveResult(ctx context.Context, r domain.Result) error {
	query := `
	INSERT INTO quiz_results (id, username, display_name, course, score, total, percentage, timed_out, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, query,
		r.ID, r.Username, r.DisplayName, r.Course, r.Score, r.Total, r.Percentage, r.TimedOut, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// ListResults returns up to limit results of username, newest first. A limit <= 0 returns all.
func (s *ResultStore) ListResults(ctx context.Context, username string, limit int) ([]domain.Result, error) {
	query := `
	SELECT id, username, display_name, course, score, total, percentage, timed_out, finished_at
	FROM quiz_results
	WHERE username = $1
	ORDER BY finished_at DESC
	LIMIT $2
	`
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := s.pool.Query(ctx, query, username, lim)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		var r domain.Result
		if err := rows.Scan(&r.ID, &r.Username, &r.DisplayName, &r.Course, &r.Score, &r.Total, &r.Percentage, &r.TimedOut, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
