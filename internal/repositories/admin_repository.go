package repositories

import (
	"context"
	"errors"

	"pbm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	DB *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins(username, password_hash, role, active)
		VALUES($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.DB.QueryRow(ctx, query,
		admin.Username,
		admin.PasswordHash,
		admin.Role,
		admin.Active,
	).Scan(&admin.ID, &admin.CreatedAt)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `
		SELECT id, username, password_hash, role, active, created_at
		FROM admins
		WHERE username = $1
	`

	var a models.Admin
	err := r.DB.QueryRow(ctx, query, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
		&a.Active,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}
