package repositories

import (
	"context"
	"errors"

	"pbm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type MemberRepository struct {
	DB *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{DB: db}
}

const memberColumns = `
	id, COALESCE(membership_no, ''), name, father_name, gender, dob, age,
	blood_group, mobile, email, state, district, local_body, constituency,
	ward, address, voter_id, aadhaar, photo_path, card_path, created_at
`

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID,
		&m.MembershipNo,
		&m.Name,
		&m.FatherName,
		&m.Gender,
		&m.DOB,
		&m.Age,
		&m.BloodGroup,
		&m.Mobile,
		&m.Email,
		&m.State,
		&m.District,
		&m.LocalBody,
		&m.Constituency,
		&m.Ward,
		&m.Address,
		&m.VoterID,
		&m.Aadhaar,
		&m.PhotoPath,
		&m.CardPath,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new member record. A duplicate mobile number maps to
// models.ErrDuplicateMobile; a membership_no collision (hardened numbering
// under concurrent writers) maps to models.ErrSequenceRace.
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members(
			membership_no, name, father_name, gender, dob, age, blood_group,
			mobile, email, state, district, local_body, constituency, ward,
			address, voter_id, aadhaar, photo_path
		)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		nullIfEmpty(m.MembershipNo),
		m.Name,
		m.FatherName,
		m.Gender,
		m.DOB,
		m.Age,
		m.BloodGroup,
		m.Mobile,
		m.Email,
		m.State,
		m.District,
		m.LocalBody,
		m.Constituency,
		m.Ward,
		m.Address,
		m.VoterID,
		m.Aadhaar,
		m.PhotoPath,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "members_membership_no_key" {
				return models.ErrSequenceRace
			}
			return models.ErrDuplicateMobile
		}
		return err
	}
	return nil
}

func (r *MemberRepository) GetByMobile(ctx context.Context, mobile string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE mobile = $1`
	return scanMember(r.DB.QueryRow(ctx, query, mobile))
}

func (r *MemberRepository) GetByMembershipNo(ctx context.Context, membershipNo string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE membership_no = $1`
	return scanMember(r.DB.QueryRow(ctx, query, membershipNo))
}

// Count returns the number of member records. Legacy membership numbering
// derives its sequence from this live count.
func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&count)
	return count, err
}

// List returns the projected fields shown on the admin dashboard.
func (r *MemberRepository) List(ctx context.Context) ([]models.MemberSummary, error) {
	query := `
		SELECT id, COALESCE(membership_no, ''), name, mobile, district, gender, age
		FROM members
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.MemberSummary
	for rows.Next() {
		var s models.MemberSummary
		if err := rows.Scan(&s.ID, &s.MembershipNo, &s.Name, &s.Mobile, &s.District, &s.Gender, &s.Age); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListMissingMembership returns legacy records without a membership number
// in stable backfill order (creation time, then id).
func (r *MemberRepository) ListMissingMembership(ctx context.Context) ([]*models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE membership_no IS NULL OR membership_no = ''
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SetMembershipNo assigns a membership number to a record that does not
// have one yet. Assigned numbers are immutable: the WHERE clause refuses to
// overwrite an existing value.
func (r *MemberRepository) SetMembershipNo(ctx context.Context, id int, membershipNo string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE members SET membership_no = $2
		WHERE id = $1 AND (membership_no IS NULL OR membership_no = '')
	`, id, membershipNo)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrSequenceRace
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrMemberNotFound
	}
	return nil
}

// SetCardPath caches the rendered card location on the record.
func (r *MemberRepository) SetCardPath(ctx context.Context, id int, cardPath string) error {
	_, err := r.DB.Exec(ctx, `UPDATE members SET card_path = $2 WHERE id = $1`, id, cardPath)
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
