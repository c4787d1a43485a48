package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository maintains the per-year membership sequence used by
// hardened numbering.
type CounterRepository struct {
	DB *pgxpool.Pool
}

func NewCounterRepository(db *pgxpool.Pool) *CounterRepository {
	return &CounterRepository{DB: db}
}

// NextSequence atomically bumps and returns the sequence for a year. The
// upsert is a single statement, so concurrent callers each get a distinct
// value.
func (r *CounterRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO membership_counters(year, last_seq)
		VALUES($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = membership_counters.last_seq + 1
		RETURNING last_seq
	`

	var seq int64
	err := r.DB.QueryRow(ctx, query, year).Scan(&seq)
	return seq, err
}

// CurrentSequence returns the last issued sequence for a year, zero if the
// year has no counter row yet.
func (r *CounterRepository) CurrentSequence(ctx context.Context, year int) (int64, error) {
	var seq int64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE((SELECT last_seq FROM membership_counters WHERE year = $1), 0)`,
		year,
	).Scan(&seq)
	return seq, err
}
