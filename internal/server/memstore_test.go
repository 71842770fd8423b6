package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/coverme/internal/db"
)

// memSection is an in-memory table of user-owned rows
type memSection[T any] struct {
	rows []T
	// keys returns pointers to the row's owner and id
	keys func(*T) (*uuid.UUID, *uuid.UUID)
}

func (m *memSection[T]) list(userID uuid.UUID) []T {
	out := []T{}
	for i := range m.rows {
		if owner, _ := m.keys(&m.rows[i]); *owner == userID {
			out = append(out, m.rows[i])
		}
	}
	return out
}

func (m *memSection[T]) create(item *T) {
	_, id := m.keys(item)
	*id = uuid.New()
	m.rows = append(m.rows, *item)
}

func (m *memSection[T]) update(item *T) error {
	owner, id := m.keys(item)
	for i := range m.rows {
		o, rid := m.keys(&m.rows[i])
		if *rid == *id && *o == *owner {
			m.rows[i] = *item
			return nil
		}
	}
	return fmt.Errorf("failed to update: %w", db.ErrNotFound)
}

func (m *memSection[T]) remove(userID, id uuid.UUID) error {
	for i := range m.rows {
		o, rid := m.keys(&m.rows[i])
		if *rid == id && *o == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete: %w", db.ErrNotFound)
}

// memStore implements Store in memory
type memStore struct {
	mu sync.Mutex

	users          map[uuid.UUID]*db.User
	experiences    memSection[db.Experience]
	education      memSection[db.Education]
	skills         memSection[db.Skill]
	certifications memSection[db.Certification]
	links          memSection[db.Link]
	drafts         map[uuid.UUID]*db.CoverLetterDraft

	pingErr   error
	draftErr  error
	listErr   error
	createdAt time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:          make(map[uuid.UUID]*db.User),
		drafts:         make(map[uuid.UUID]*db.CoverLetterDraft),
		experiences:    memSection[db.Experience]{keys: func(e *db.Experience) (*uuid.UUID, *uuid.UUID) { return &e.UserID, &e.ID }},
		education:      memSection[db.Education]{keys: func(e *db.Education) (*uuid.UUID, *uuid.UUID) { return &e.UserID, &e.ID }},
		skills:         memSection[db.Skill]{keys: func(s *db.Skill) (*uuid.UUID, *uuid.UUID) { return &s.UserID, &s.ID }},
		certifications: memSection[db.Certification]{keys: func(c *db.Certification) (*uuid.UUID, *uuid.UUID) { return &c.UserID, &c.ID }},
		links:          memSection[db.Link]{keys: func(l *db.Link) (*uuid.UUID, *uuid.UUID) { return &l.UserID, &l.ID }},
		createdAt:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := m.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (m *memStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &db.User{ID: id, Name: name, Email: strings.ToLower(email), Phone: phone, CreatedAt: m.createdAt, UpdatedAt: m.createdAt}
	return id, nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateUser(_ context.Context, u *db.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) ListExperiences(_ context.Context, uid uuid.UUID) ([]db.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.experiences.list(uid), m.listErr
}

func (m *memStore) CreateExperience(_ context.Context, e *db.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.experiences.create(e)
	return nil
}

func (m *memStore) UpdateExperience(_ context.Context, e *db.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.experiences.update(e)
}

func (m *memStore) DeleteExperience(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.experiences.remove(uid, id)
}

func (m *memStore) ListEducation(_ context.Context, uid uuid.UUID) ([]db.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.education.list(uid), nil
}

func (m *memStore) CreateEducation(_ context.Context, e *db.Education) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.education.create(e)
	return nil
}

func (m *memStore) UpdateEducation(_ context.Context, e *db.Education) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.education.update(e)
}

func (m *memStore) DeleteEducation(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.education.remove(uid, id)
}

func (m *memStore) ListSkills(_ context.Context, uid uuid.UUID) ([]db.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skills.list(uid), nil
}

func (m *memStore) CreateSkill(_ context.Context, s *db.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills.create(s)
	return nil
}

func (m *memStore) UpdateSkill(_ context.Context, s *db.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skills.update(s)
}

func (m *memStore) DeleteSkill(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skills.remove(uid, id)
}

func (m *memStore) ListCertifications(_ context.Context, uid uuid.UUID) ([]db.Certification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certifications.list(uid), nil
}

func (m *memStore) CreateCertification(_ context.Context, c *db.Certification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.certifications.create(c)
	return nil
}

func (m *memStore) UpdateCertification(_ context.Context, c *db.Certification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certifications.update(c)
}

func (m *memStore) DeleteCertification(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certifications.remove(uid, id)
}

func (m *memStore) ListLinks(_ context.Context, uid uuid.UUID) ([]db.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links.list(uid), nil
}

func (m *memStore) CreateLink(_ context.Context, l *db.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links.create(l)
	return nil
}

func (m *memStore) UpdateLink(_ context.Context, l *db.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links.update(l)
}

func (m *memStore) DeleteLink(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links.remove(uid, id)
}

func (m *memStore) CreateDraft(_ context.Context, d *db.CoverLetterDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draftErr != nil {
		return m.draftErr
	}
	d.ID = uuid.New()
	d.CreatedAt, d.UpdatedAt = m.createdAt, m.createdAt
	cp := *d
	m.drafts[d.ID] = &cp
	return nil
}

func (m *memStore) GetDraft(_ context.Context, uid, id uuid.UUID) (*db.CoverLetterDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || d.UserID != uid {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memStore) ListDrafts(_ context.Context, uid uuid.UUID, limit int) ([]db.CoverLetterDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.CoverLetterDraft{}
	for _, d := range m.drafts {
		if d.UserID == uid && len(out) < limit {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memStore) UpdateDraft(_ context.Context, d *db.CoverLetterDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.drafts[d.ID]
	if !ok || existing.UserID != d.UserID {
		return fmt.Errorf("failed to update draft: %w", db.ErrNotFound)
	}
	cp := *d
	m.drafts[d.ID] = &cp
	return nil
}

func (m *memStore) DeleteDraft(_ context.Context, uid, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || d.UserID != uid {
		return fmt.Errorf("failed to delete draft: %w", db.ErrNotFound)
	}
	delete(m.drafts, id)
	return nil
}

func (m *memStore) draftCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}

var _ Store = (*memStore)(nil)
