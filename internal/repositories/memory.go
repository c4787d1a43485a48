package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"pbm-backend/internal/models"
)

// In-memory store implementations mirroring the Postgres repositories'
// semantics (unique mobile, unique immutable membership_no, backfill
// ordering). They back the service and handler tests and small demo
// deployments without a database.

type MemoryMemberStore struct {
	mu      sync.Mutex
	nextID  int
	members map[int]*models.Member
}

func NewMemoryMemberStore() *MemoryMemberStore {
	return &MemoryMemberStore{nextID: 1, members: make(map[int]*models.Member)}
}

func (s *MemoryMemberStore) Create(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.Mobile == m.Mobile {
			return models.ErrDuplicateMobile
		}
		if m.MembershipNo != "" && existing.MembershipNo == m.MembershipNo {
			return models.ErrSequenceRace
		}
	}

	m.ID = s.nextID
	s.nextID++
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	clone := *m
	s.members[m.ID] = &clone
	return nil
}

func (s *MemoryMemberStore) GetByMobile(_ context.Context, mobile string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.Mobile == mobile {
			clone := *m
			return &clone, nil
		}
	}
	return nil, models.ErrMemberNotFound
}

func (s *MemoryMemberStore) GetByMembershipNo(_ context.Context, membershipNo string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.MembershipNo != "" && m.MembershipNo == membershipNo {
			clone := *m
			return &clone, nil
		}
	}
	return nil, models.ErrMemberNotFound
}

func (s *MemoryMemberStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members), nil
}

func (s *MemoryMemberStore) List(_ context.Context) ([]models.MemberSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.sorted()
	summaries := make([]models.MemberSummary, 0, len(ordered))
	// Newest first, like the SQL projection.
	for i := len(ordered) - 1; i >= 0; i-- {
		m := ordered[i]
		summaries = append(summaries, models.MemberSummary{
			ID:           m.ID,
			MembershipNo: m.MembershipNo,
			Name:         m.Name,
			Mobile:       m.Mobile,
			District:     m.District,
			Gender:       m.Gender,
			Age:          m.Age,
		})
	}
	return summaries, nil
}

func (s *MemoryMemberStore) ListMissingMembership(_ context.Context) ([]*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []*models.Member
	for _, m := range s.sorted() {
		if m.MembershipNo == "" {
			clone := *m
			missing = append(missing, &clone)
		}
	}
	return missing, nil
}

func (s *MemoryMemberStore) SetMembershipNo(_ context.Context, id int, membershipNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.members[id]
	if !ok || target.MembershipNo != "" {
		return models.ErrMemberNotFound
	}
	for _, m := range s.members {
		if m.MembershipNo == membershipNo {
			return models.ErrSequenceRace
		}
	}
	target.MembershipNo = membershipNo
	return nil
}

func (s *MemoryMemberStore) SetCardPath(_ context.Context, id int, cardPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.members[id]
	if !ok {
		return models.ErrMemberNotFound
	}
	target.CardPath = cardPath
	return nil
}

// sorted returns members in creation order (created_at, then id), the
// backfill ordering contract.
func (s *MemoryMemberStore) sorted() []*models.Member {
	ordered := make([]*models.Member, 0, len(s.members))
	for _, m := range s.members {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[int]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[int]int64)}
}

func (s *MemoryCounterStore) NextSequence(_ context.Context, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[year]++
	return s.counters[year], nil
}

type MemoryDistrictStore struct {
	Names []string
}

func NewMemoryDistrictStore(names ...string) *MemoryDistrictStore {
	return &MemoryDistrictStore{Names: names}
}

func (s *MemoryDistrictStore) ListNames(_ context.Context) ([]string, error) {
	return append([]string(nil), s.Names...), nil
}

type MemoryAdminStore struct {
	mu     sync.Mutex
	nextID int
	admins map[string]*models.Admin
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{nextID: 1, admins: make(map[string]*models.Admin)}
}

func (s *MemoryAdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin.ID = s.nextID
	s.nextID++
	admin.CreatedAt = time.Now()
	clone := *admin
	s.admins[admin.Username] = &clone
	return nil
}

func (s *MemoryAdminStore) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[username]
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	clone := *admin
	return &clone, nil
}

func (s *MemoryAdminStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.admins), nil
}
