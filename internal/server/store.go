package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/coverme/internal/db"
	"github.com/jonathan/coverme/internal/profile"
)

// UserStore is the account storage used by UserService
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUser(ctx context.Context, u *db.User) error
}

// ProfileStore holds the editable profile sections
type ProfileStore interface {
	profile.Store

	CreateExperience(ctx context.Context, e *db.Experience) error
	UpdateExperience(ctx context.Context, e *db.Experience) error
	DeleteExperience(ctx context.Context, userID, id uuid.UUID) error

	CreateEducation(ctx context.Context, e *db.Education) error
	UpdateEducation(ctx context.Context, e *db.Education) error
	DeleteEducation(ctx context.Context, userID, id uuid.UUID) error

	CreateSkill(ctx context.Context, s *db.Skill) error
	UpdateSkill(ctx context.Context, s *db.Skill) error
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error

	CreateCertification(ctx context.Context, c *db.Certification) error
	UpdateCertification(ctx context.Context, c *db.Certification) error
	DeleteCertification(ctx context.Context, userID, id uuid.UUID) error

	CreateLink(ctx context.Context, l *db.Link) error
	UpdateLink(ctx context.Context, l *db.Link) error
	DeleteLink(ctx context.Context, userID, id uuid.UUID) error
}

// DraftStore persists cover letter drafts
type DraftStore interface {
	CreateDraft(ctx context.Context, d *db.CoverLetterDraft) error
	GetDraft(ctx context.Context, userID, id uuid.UUID) (*db.CoverLetterDraft, error)
	ListDrafts(ctx context.Context, userID uuid.UUID, limit int) ([]db.CoverLetterDraft, error)
	UpdateDraft(ctx context.Context, d *db.CoverLetterDraft) error
	DeleteDraft(ctx context.Context, userID, id uuid.UUID) error
}

// Store is everything the API persists. *db.DB implements it.
type Store interface {
	UserStore
	ProfileStore
	DraftStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
