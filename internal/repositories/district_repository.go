package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DistrictRepository struct {
	DB *pgxpool.Pool
}

func NewDistrictRepository(db *pgxpool.Pool) *DistrictRepository {
	return &DistrictRepository{DB: db}
}

// ListNames returns the seeded district names in alphabetical order.
func (r *DistrictRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT name FROM districts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
