package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pbm-backend/internal/config"
	"pbm-backend/internal/models"
)

// MemberStore is the record-store contract the membership flow needs. The
// pgx-backed repositories implement it; tests use an in-memory fake.
type MemberStore interface {
	Create(ctx context.Context, m *models.Member) error
	GetByMobile(ctx context.Context, mobile string) (*models.Member, error)
	GetByMembershipNo(ctx context.Context, membershipNo string) (*models.Member, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.MemberSummary, error)
	ListMissingMembership(ctx context.Context) ([]*models.Member, error)
	SetMembershipNo(ctx context.Context, id int, membershipNo string) error
	SetCardPath(ctx context.Context, id int, cardPath string) error
}

// CounterStore issues per-year sequence numbers atomically (hardened mode).
type CounterStore interface {
	NextSequence(ctx context.Context, year int) (int64, error)
}

// DistrictStore serves the reference list behind GET /districts.
type DistrictStore interface {
	ListNames(ctx context.Context) ([]string, error)
}

// NextMembershipNumber formats the organization-issued identifier for the
// record that would become the existingCount+1-th one:
// <prefix>-<year>-<6-digit sequence>, e.g. PBM-2025-000042.
func NextMembershipNumber(prefix string, year, existingCount int) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, existingCount+1)
}

// MembershipService owns registration, membership numbering and backfill.
//
// Numbering has two modes. Legacy mode derives the sequence from a live
// count of all records at call time, exactly as the system has always done.
// Two concurrent registrations can read the same count and produce the same
// number; the unique index on membership_no turns that race into a failed
// insert (models.ErrSequenceRace) instead of a silent duplicate. The
// sequence also never resets at year rollover: only the year component
// changes, the suffix keeps following the global count.
//
// Hardened mode (membership.hardened) replaces the count with an atomically
// bumped per-year counter row and retries bounded times on membership_no
// conflicts. The issued format is identical.
type MembershipService struct {
	members  MemberStore
	counters CounterStore
	blobs    BlobStore
	cfg      config.MembershipConfig

	// now is injected so numbering is testable at fixed years.
	now func() time.Time
}

func NewMembershipService(members MemberStore, counters CounterStore, blobs BlobStore, cfg config.MembershipConfig) *MembershipService {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &MembershipService{
		members:  members,
		counters: counters,
		blobs:    blobs,
		cfg:      cfg,
		now:      time.Now,
	}
}

// PhotoKey is the blob key a member's uploaded photo is stored under.
func PhotoKey(mobile, ext string) string {
	return "uploads/" + mobile + ext
}

// Register runs the registration flow: duplicate check, membership number,
// photo store, insert. photo may be nil; ext carries the original upload's
// extension (".jpg"). The duplicate check runs before any file write so a
// losing concurrent writer never touches storage.
func (s *MembershipService) Register(ctx context.Context, req *models.RegisterRequest, photo io.Reader, ext string) (*models.Member, error) {
	if _, err := s.members.GetByMobile(ctx, req.Mobile); err == nil {
		return nil, models.ErrDuplicateMobile
	} else if !errors.Is(err, models.ErrMemberNotFound) {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	photoPath := ""
	if photo != nil {
		photoPath = PhotoKey(req.Mobile, ext)
		if err := s.blobs.Upload(ctx, photoPath, photo); err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	member := &models.Member{
		Name:         req.Name,
		FatherName:   req.FatherName,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Age:          req.Age,
		BloodGroup:   req.BloodGroup,
		Mobile:       req.Mobile,
		Email:        req.Email,
		State:        req.State,
		District:     req.District,
		LocalBody:    req.LocalBody,
		Constituency: req.Constituency,
		Ward:         req.Ward,
		Address:      req.Address,
		VoterID:      req.VoterID,
		Aadhaar:      req.Aadhaar,
		PhotoPath:    photoPath,
	}

	if s.cfg.Hardened {
		return member, s.insertHardened(ctx, member)
	}
	return member, s.insertLegacy(ctx, member)
}

func (s *MembershipService) insertLegacy(ctx context.Context, member *models.Member) error {
	count, err := s.members.Count(ctx)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}

	member.MembershipNo = NextMembershipNumber(s.cfg.Prefix, s.now().Year(), count)
	return s.members.Create(ctx, member)
}

func (s *MembershipService) insertHardened(ctx context.Context, member *models.Member) error {
	year := s.now().Year()

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		seq, err := s.counters.NextSequence(ctx, year)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		member.MembershipNo = NextMembershipNumber(s.cfg.Prefix, year, int(seq)-1)
		err = s.members.Create(ctx, member)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrSequenceRace) {
			return err
		}
		log.Printf("Membership number %s already taken, retrying (%d/%d)",
			member.MembershipNo, attempt+1, s.cfg.MaxRetries)
	}
	return models.ErrSequenceRace
}

// Backfill assigns membership numbers to legacy records that lack one, in
// creation order, continuing from the current sequence and never reusing a
// number already on another record. Returns how many records were updated.
func (s *MembershipService) Backfill(ctx context.Context) (int, error) {
	missing, err := s.members.ListMissingMembership(ctx)
	if err != nil {
		return 0, fmt.Errorf("list records without membership number: %w", err)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	year := s.now().Year()
	count, err := s.members.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	updated := 0
	seq := count // next candidate is count+1, matching registration numbering
	for _, m := range missing {
		assigned := false
		for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
			var number string
			if s.cfg.Hardened {
				n, err := s.counters.NextSequence(ctx, year)
				if err != nil {
					return updated, fmt.Errorf("next sequence: %w", err)
				}
				number = NextMembershipNumber(s.cfg.Prefix, year, int(n)-1)
			} else {
				number = NextMembershipNumber(s.cfg.Prefix, year, seq)
				seq++
			}

			err := s.members.SetMembershipNo(ctx, m.ID, number)
			if err == nil {
				m.MembershipNo = number
				assigned = true
				updated++
				break
			}
			if !errors.Is(err, models.ErrSequenceRace) {
				return updated, fmt.Errorf("assign %s to record %d: %w", number, m.ID, err)
			}
		}
		if !assigned {
			return updated, models.ErrSequenceRace
		}
	}
	return updated, nil
}

// GetByMobile returns the full record for a mobile number.
func (s *MembershipService) GetByMobile(ctx context.Context, mobile string) (*models.Member, error) {
	return s.members.GetByMobile(ctx, mobile)
}

// List returns the admin dashboard projection.
func (s *MembershipService) List(ctx context.Context) ([]models.MemberSummary, error) {
	return s.members.List(ctx)
}
