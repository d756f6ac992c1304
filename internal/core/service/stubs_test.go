package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	seq     int
	findErr error
	// raceDuplicate makes Create report a duplicate even though the
	// pre-check passed, as when two requests race on the same email.
	raceDuplicate bool
	toggles       int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	u.Email = domain.NormalizeEmail(u.Email)
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.raceDuplicate {
		return nil, domain.ErrEmailTaken
	}
	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	return r.seed(cloneUser(user)).Public(), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if strings.HasPrefix(id, "bad") {
		return nil, domain.ErrInvalidID
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Public(), nil
}

func (r *stubUserRepo) findEmail(email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, err := r.findEmail(email)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (r *stubUserRepo) FindCredentialsByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findEmail(email)
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) UpdateName(_ context.Context, id, name string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	return u.Public(), nil
}

func (r *stubUserRepo) ToggleActive(_ context.Context, id string) (*domain.User, error) {
	r.toggles++
	if strings.HasPrefix(id, "bad") {
		return nil, domain.ErrInvalidID
	}
	u, ok := r.byID[id]
	if !ok || u.IsAdmin() {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = !u.IsActive
	return u.Public(), nil
}

// ---------------------------------------------------------------------------
// Leads
// ---------------------------------------------------------------------------

type stubLeadRepo struct {
	byID       map[string]*domain.Lead
	seq        int
	lastFilter ports.ListLeadsFilter
	lastPatch  domain.LeadPatch
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{byID: make(map[string]*domain.Lead)}
}

func (r *stubLeadRepo) Create(_ context.Context, lead *domain.Lead) error {
	r.seq++
	lead.ID = fmt.Sprintf("lead-%d", r.seq)
	clone := *lead
	r.byID[lead.ID] = &clone
	return nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id string) (*domain.Lead, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLeadRepo) List(_ context.Context, f ports.ListLeadsFilter) ([]*domain.Lead, int64, error) {
	r.lastFilter = f
	var out []*domain.Lead
	for _, l := range r.byID {
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubLeadRepo) Update(_ context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	r.lastPatch = patch
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Email != nil {
		l.Email = *patch.Email
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		l.AssignedTo = *patch.AssignedTo
	}
	clone := *l
	return &clone, nil
}

func (r *stubLeadRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID map[string]*domain.Task
	seq  int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.seq++
	task.ID = fmt.Sprintf("task-%d", r.seq)
	clone := *task
	r.byID[task.ID] = &clone
	return nil
}

func (r *stubTaskRepo) List(_ context.Context, assignedTo, status string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.byID {
		if assignedTo != "" && t.AssignedTo != assignedTo {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTaskRepo) scoped(id, assignedTo string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok || (assignedTo != "" && t.AssignedTo != assignedTo) {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (r *stubTaskRepo) ToggleStatus(_ context.Context, id, assignedTo string) (*domain.Task, error) {
	t, err := r.scoped(id, assignedTo)
	if err != nil {
		return nil, err
	}
	t.Status = t.Status.Toggled()
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id, assignedTo string) error {
	if _, err := r.scoped(id, assignedTo); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Security
// ---------------------------------------------------------------------------

// stubHasher is a reversible stand-in; bcrypt itself is covered in the
// security package.
type stubHasher struct {
	verifies int
}

func (h *stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *stubHasher) Verify(plain, hashed string) bool {
	h.verifies++
	return hashed == "hashed:"+plain
}
