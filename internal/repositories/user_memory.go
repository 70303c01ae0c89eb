package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
)

// MemoryUserStore keeps the storage layer testable without postgres.
// It mirrors the constraints the real schema enforces: unique
// lower(email), unique role names, set-semantics memberships.
type MemoryUserStore struct {
	mu               sync.RWMutex
	users            map[uuid.UUID]models.User
	byEmail          map[string]uuid.UUID // keyed by lower(email)
	roles            map[string]models.Role
	memberships      map[uuid.UUID]map[uuid.UUID]struct{} // user -> role IDs
	lastSeenInterval time.Duration
}

func NewMemoryUserStore(lastSeenInterval time.Duration) *MemoryUserStore {
	if lastSeenInterval <= 0 {
		lastSeenInterval = time.Hour
	}
	return &MemoryUserStore{
		users:            make(map[uuid.UUID]models.User),
		byEmail:          make(map[string]uuid.UUID),
		roles:            make(map[string]models.Role),
		memberships:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
		lastSeenInterval: lastSeenInterval,
	}
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return nil, ErrDuplicateIdentity
	}

	stored := *u
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	s.users[stored.ID] = stored
	s.byEmail[key] = stored.ID
	return &stored, nil
}

func (s *MemoryUserStore) UpdateProfile(_ context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.About != nil {
		u.About = upd.About
	}
	if upd.Image != nil {
		u.Image = upd.Image
	}
	if upd.PublicProfile != nil {
		u.PublicProfile = *upd.PublicProfile
	}
	s.users[id] = u
	return &u, nil
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Active = active
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) List(_ context.Context, limit, offset int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clampLimit(limit, 50, 200)
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryUserStore) TouchLastSeen(_ context.Context, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	if u.LastSeen == nil || now.Sub(*u.LastSeen) > s.lastSeenInterval {
		t := now
		u.LastSeen = &t
		s.users[id] = u
	}
	return nil
}

func (s *MemoryUserStore) GetOrCreateRole(_ context.Context, name, description string) (*models.Role, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role, ok := s.roles[name]; ok {
		return &role, false, nil
	}
	role := models.Role{ID: uuid.New(), Name: name, Description: description}
	s.roles[name] = role
	return &role, true, nil
}

func (s *MemoryUserStore) GetRole(_ context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &role, nil
}

func (s *MemoryUserStore) ListRoles(_ context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := make([]models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (s *MemoryUserStore) GrantRole(_ context.Context, userID uuid.UUID, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[roleName]
	if !ok {
		return ErrRoleNotFound
	}
	if s.memberships[userID] == nil {
		s.memberships[userID] = make(map[uuid.UUID]struct{})
	}
	s.memberships[userID][role.ID] = struct{}{}
	return nil
}

func (s *MemoryUserStore) RevokeRole(_ context.Context, userID uuid.UUID, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[roleName]
	if !ok {
		return nil
	}
	delete(s.memberships[userID], role.ID)
	return nil
}

func (s *MemoryUserStore) RolesOf(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for roleID := range s.memberships[userID] {
		for _, role := range s.roles {
			if role.ID == roleID {
				names = append(names, role.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
