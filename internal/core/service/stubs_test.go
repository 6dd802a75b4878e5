package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

type stubMemberRepo struct {
	byUser    map[string]*domain.Member
	users     *stubUserRepo
	createErr error
	deleted int
	updated int
}

func newStubMemberRepo(users *stubUserRepo, members ...*domain.Member) *stubMemberRepo {
	r := &stubMemberRepo{byUser: make(map[string]*domain.Member), users: users}
	for _, m := range members {
		clone := *m
		r.byUser[m.UserID] = &clone
	}
	return r
}

func (r *stubMemberRepo) Create(_ context.Context, m *domain.Member) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byUser[m.UserID]; exists {
		return domain.ErrMemberExists
	}
	clone := *m
	r.byUser[m.UserID] = &clone
	return nil
}

func (r *stubMemberRepo) FindByUserID(_ context.Context, userID string) (*domain.Member, error) {
	m, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMemberRepo) List(_ context.Context) ([]*domain.MemberDetail, error) {
	var out []*domain.MemberDetail
	for _, m := range r.byUser {
		d := &domain.MemberDetail{Member: *m}
		if u, ok := r.users.byID[m.UserID]; ok {
			d.Name = u.Name
			d.Email = u.Email
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubMemberRepo) UpdateRole(_ context.Context, userID string, isManager bool) error {
	m, ok := r.byUser[userID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.IsManager = isManager
	r.updated++
	return nil
}

func (r *stubMemberRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.byUser, userID)
	r.deleted++
	return nil
}

func (r *stubMemberRepo) CountManagers(_ context.Context) (int64, error) {
	var n int64
	for _, m := range r.byUser {
		if m.IsManager {
			n++
		}
	}
	return n, nil
}

type stubTaskRepo struct {
	byID      map[string]*domain.Task
	createErr error
	updateErr error
	writes    int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	clone.Tags = append([]string(nil), t.Tags...)
	if t.Feedback != nil {
		fb := *t.Feedback
		clone.Feedback = &fb
	}
	return &clone
}

func (r *stubTaskRepo) put(t *domain.Task) {
	if t.Version == 0 {
		t.Version = 1
	}
	r.byID[t.ID] = cloneTask(t)
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[t.ID] = cloneTask(t)
	r.writes++
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[t.ID]
	if !ok || stored.Version != t.Version {
		return domain.ErrStaleTask
	}
	t.Version++
	r.byID[t.ID] = cloneTask(t)
	r.writes++
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	r.writes++
	return nil
}

// List applies the same filters and ordering the real repositories use.
func (r *stubTaskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	var matched []*domain.Task
	for _, t := range r.byID {
		if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && t.Date.After(f.DateTo) {
			continue
		}
		if f.Tag != "" && !hasTag(t, f.Tag) {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Task{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func hasTag(t *domain.Task, tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

func (r *stubTaskRepo) SumHours(_ context.Context, assigneeID string, day time.Time, excludeID string) (float64, error) {
	var sum float64
	for _, t := range r.byID {
		if t.AssigneeID == assigneeID && t.Date.Equal(day) && t.ID != excludeID {
			sum += t.Hours
		}
	}
	return sum, nil
}

type stubActivityRepo struct {
	mu    sync.Mutex
	items []*domain.TaskActivity
	err   error
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.TaskActivity) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubActivityRepo) ListByTask(_ context.Context, taskID string) ([]*domain.TaskActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TaskActivity
	for _, a := range r.items {
		if a.TaskID == taskID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

type recordingRecorder struct {
	items []domain.TaskActivity
}

func (r *recordingRecorder) Record(a domain.TaskActivity) {
	r.items = append(r.items, a)
}

func (r *recordingRecorder) actions() []domain.ActivityAction {
	out := make([]domain.ActivityAction, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a.Action)
	}
	return out
}

// stubIdempotencyStore stores "" for a pending reservation.
type stubIdempotencyStore struct {
	keys       map[string]string
	reserveErr error
	released   []string
}

func (s *stubIdempotencyStore) Reserve(_ context.Context, key string) (string, bool, error) {
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return id, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

func (s *stubIdempotencyStore) Complete(_ context.Context, key, taskID string) error {
	s.keys[key] = taskID
	return nil
}

func (s *stubIdempotencyStore) Release(_ context.Context, key string) error {
	if s.keys[key] == "" {
		delete(s.keys, key)
	}
	s.released = append(s.released, key)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	userAlice   = &domain.User{ID: "u-alice", Name: "Alice", Email: "alice@example.com"}
	userBob     = &domain.User{ID: "u-bob", Name: "Bob", Email: "bob@example.com"}
	userManager = &domain.User{ID: "u-mona", Name: "Mona", Email: "mona@example.com"}
	userNew     = &domain.User{ID: "u-new", Name: "Nina", Email: "new@x.com"}

	alice   = domain.Principal{UserID: userAlice.ID, Name: userAlice.Name, IsMember: true}
	bob     = domain.Principal{UserID: userBob.ID, Name: userBob.Name, IsMember: true}
	manager = domain.Principal{UserID: userManager.ID, Name: userManager.Name, IsMember: true, IsManager: true}
)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
