// Package profile assembles a user's full candidate profile for letter
// generation.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/coverme/internal/db"
)

// ErrUserNotFound is returned when the user row does not exist
var ErrUserNotFound = errors.New("user not found")

// Store is the subset of the database the loader reads
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]db.Experience, error)
	ListEducation(ctx context.Context, userID uuid.UUID) ([]db.Education, error)
	ListSkills(ctx context.Context, userID uuid.UUID) ([]db.Skill, error)
	ListCertifications(ctx context.Context, userID uuid.UUID) ([]db.Certification, error)
	ListLinks(ctx context.Context, userID uuid.UUID) ([]db.Link, error)
}

// PersonalInfo is the public part of a user record
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Headline string `json:"headline,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Profile is everything known about a candidate
type Profile struct {
	PersonalInfo   PersonalInfo       `json:"personal_info"`
	Experiences    []db.Experience    `json:"experiences"`
	Education      []db.Education     `json:"education"`
	Skills         []db.Skill         `json:"skills"`
	Certifications []db.Certification `json:"certifications"`
	Links          []db.Link          `json:"links"`
}

// Load reads every profile section concurrently and fails if any read fails.
func Load(ctx context.Context, store Store, userID uuid.UUID) (*Profile, error) {
	g, gCtx := errgroup.WithContext(ctx)

	// each goroutine writes only its own field
	var p Profile
	var user *db.User

	g.Go(func() error {
		u, err := store.GetUser(gCtx, userID)
		if err != nil {
			return fmt.Errorf("personal info: %w", err)
		}
		if u == nil {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		user = u
		return nil
	})
	g.Go(func() (err error) {
		if p.Experiences, err = store.ListExperiences(gCtx, userID); err != nil {
			return fmt.Errorf("experiences: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if p.Education, err = store.ListEducation(gCtx, userID); err != nil {
			return fmt.Errorf("education: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if p.Skills, err = store.ListSkills(gCtx, userID); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if p.Certifications, err = store.ListCertifications(gCtx, userID); err != nil {
			return fmt.Errorf("certifications: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if p.Links, err = store.ListLinks(gCtx, userID); err != nil {
			return fmt.Errorf("links: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p.PersonalInfo = PersonalInfo{
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Location: user.Location,
		Headline: user.Headline,
		Summary:  user.Summary,
	}
	p.ensureSlices()
	return &p, nil
}

// JSON renders the profile as the blob embedded in generation prompts
func (p *Profile) JSON() (json.RawMessage, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return data, nil
}

func (p *Profile) ensureSlices() {
	if p.Experiences == nil {
		p.Experiences = []db.Experience{}
	}
	if p.Education == nil {
		p.Education = []db.Education{}
	}
	if p.Skills == nil {
		p.Skills = []db.Skill{}
	}
	if p.Certifications == nil {
		p.Certifications = []db.Certification{}
	}
	if p.Links == nil {
		p.Links = []db.Link{}
	}
}
