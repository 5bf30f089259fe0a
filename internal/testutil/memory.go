// Package testutil provides in-memory implementations of the repository and
// publisher ports for use case and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/internal/domain/education"
	"github.com/khoahotran/portfolio-admin/internal/domain/experience"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/internal/domain/user"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
)

type ProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]profile.Profile
	writes   int

	// AfterFind runs once a lookup has returned, outside the lock.
	AfterFind func(ownerID uuid.UUID)
	FailWith  error
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[uuid.UUID]profile.Profile)}
}

func (r *ProfileRepo) Put(p profile.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.OwnerID] = p
}

func (r *ProfileRepo) Get(ownerID uuid.UUID) (profile.Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[ownerID]
	return p, ok
}

// Writes counts successful Create and Update calls.
func (r *ProfileRepo) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *ProfileRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	r.mu.Lock()
	p, ok := r.profiles[ownerID]
	hook := r.AfterFind
	r.mu.Unlock()

	if hook != nil {
		hook(ownerID)
	}
	if !ok {
		return nil, apperror.NewNotFound("profile", ownerID.String())
	}
	return &p, nil
}

func (r *ProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	if prev, ok := r.profiles[p.OwnerID]; ok {
		saved := *p
		saved.CreatedAt = prev.CreatedAt
		r.profiles[p.OwnerID] = saved
		r.writes++
		return nil
	}
	r.profiles[p.OwnerID] = *p
	r.writes++
	return nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	if _, ok := r.profiles[p.OwnerID]; !ok {
		return apperror.NewNotFound("profile", p.OwnerID.String())
	}
	r.profiles[p.OwnerID] = *p
	r.writes++
	return nil
}

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
	order []uuid.UUID
}

func NewUserRepo(users ...user.User) *UserRepo {
	r := &UserRepo{users: make(map[uuid.UUID]user.User)}
	for _, u := range users {
		r.Put(u)
	}
	return r
}

// Put adds or replaces a user; insertion order decides FindFirst.
func (r *UserRepo) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = u
}

func (r *UserRepo) Get(id uuid.UUID) (user.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	return u, ok
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if u := r.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id.String())
	}
	return &u, nil
}

func (r *UserRepo) FindFirst(ctx context.Context) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil, apperror.NewNotFound("user", "first")
	}
	u := r.users[r.order[0]]
	return &u, nil
}

func (r *UserRepo) UpdateDetails(ctx context.Context, id uuid.UUID, d user.Details) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.NewNotFound("user", id.String())
	}
	u.Details = d
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// entryRepo backs both repeatable record kinds.
type entryRepo[T any] struct {
	mu      sync.Mutex
	entries []T
	ownerOf func(T) uuid.UUID
	stamp   func(T, time.Time)

	FailInsert error
}

func (r *entryRepo[T]) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	var removed int64
	for _, e := range r.entries {
		if r.ownerOf(e) == ownerID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func (r *entryRepo[T]) InsertMany(ctx context.Context, entries []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInsert != nil {
		return r.FailInsert
	}
	now := time.Now().UTC()
	for _, e := range entries {
		r.stamp(e, now)
		r.entries = append(r.entries, e)
	}
	return nil
}

func (r *entryRepo[T]) ListAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

type EducationRepo struct {
	entryRepo[*education.Entry]
}

func NewEducationRepo() *EducationRepo {
	return &EducationRepo{entryRepo[*education.Entry]{
		ownerOf: func(e *education.Entry) uuid.UUID { return e.OwnerID },
		stamp: func(e *education.Entry, now time.Time) {
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = now
			}
		},
	}}
}

type ExperienceRepo struct {
	entryRepo[*experience.Entry]
}

func NewExperienceRepo() *ExperienceRepo {
	return &ExperienceRepo{entryRepo[*experience.Entry]{
		ownerOf: func(e *experience.Entry) uuid.UUID { return e.OwnerID },
		stamp: func(e *experience.Entry, now time.Time) {
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = now
			}
		},
	}}
}

// Events records every published payload.
type Events struct {
	mu       sync.Mutex
	payloads []event.ProfileEventPayload
	FailWith error
}

func (e *Events) PublishProfileEvent(ctx context.Context, payload event.ProfileEventPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailWith != nil {
		return e.FailWith
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

// OfType returns the published payloads of type t sorted by path.
func (e *Events) OfType(t event.ProfileEventType) []event.ProfileEventPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []event.ProfileEventPayload
	for _, p := range e.payloads {
		if p.EventType == t {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

type ViewCache struct {
	mu    sync.Mutex
	views map[uuid.UUID]profile.View

	Invalidated []uuid.UUID
}

func NewViewCache() *ViewCache {
	return &ViewCache{views: make(map[uuid.UUID]profile.View)}
}

func (c *ViewCache) Get(ctx context.Context, ownerID uuid.UUID) (*profile.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[ownerID]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (c *ViewCache) Set(ctx context.Context, ownerID uuid.UUID, v profile.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[ownerID] = v
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, ownerID)
	c.Invalidated = append(c.Invalidated, ownerID)
	return nil
}

var ErrInjected = errors.New("injected failure")
