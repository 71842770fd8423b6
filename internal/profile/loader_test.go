package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverme/internal/db"
)

type fakeStore struct {
	user     *db.User
	skills   []db.Skill
	failOn   string
	blockCtx bool
}

func (f *fakeStore) fail(section string) error {
	if f.failOn == section {
		return errors.New(section + " unavailable")
	}
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*db.User, error) {
	return f.user, f.fail("user")
}

func (f *fakeStore) ListExperiences(ctx context.Context, userID uuid.UUID) ([]db.Experience, error) {
	if f.blockCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []db.Experience{{Company: "Acme", Title: "Engineer"}}, f.fail("experiences")
}

func (f *fakeStore) ListEducation(ctx context.Context, userID uuid.UUID) ([]db.Education, error) {
	return nil, f.fail("education")
}

func (f *fakeStore) ListSkills(ctx context.Context, userID uuid.UUID) ([]db.Skill, error) {
	return f.skills, f.fail("skills")
}

func (f *fakeStore) ListCertifications(ctx context.Context, userID uuid.UUID) ([]db.Certification, error) {
	return nil, f.fail("certifications")
}

func (f *fakeStore) ListLinks(ctx context.Context, userID uuid.UUID) ([]db.Link, error) {
	return []db.Link{{Label: "GitHub", URL: "https://github.com/ana"}}, f.fail("links")
}

func TestLoad(t *testing.T) {
	store := &fakeStore{
		user:   &db.User{Name: "Ana", Email: "ana@example.com", Headline: "Backend Engineer", PasswordHash: "secret"},
		skills: []db.Skill{{Name: "Go"}},
	}

	p, err := Load(context.Background(), store, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Ana", p.PersonalInfo.Name)
	assert.Equal(t, "Backend Engineer", p.PersonalInfo.Headline)
	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Acme", p.Experiences[0].Company)
	assert.NotNil(t, p.Education)
	assert.Empty(t, p.Education)
	assert.Len(t, p.Skills, 1)
	assert.Len(t, p.Links, 1)

	raw, err := p.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.JSONEq(t, `[]`, string(decoded["education"]))
	assert.Contains(t, decoded, "personal_info")
}

func TestLoad_SectionFailure(t *testing.T) {
	for _, section := range []string{"user", "experiences", "education", "skills", "certifications", "links"} {
		t.Run(section, func(t *testing.T) {
			store := &fakeStore{user: &db.User{Name: "Ana"}, failOn: section}
			p, err := Load(context.Background(), store, uuid.New())
			assert.Nil(t, p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), section+" unavailable")
		})
	}
}

func TestLoad_UserNotFound(t *testing.T) {
	p, err := Load(context.Background(), &fakeStore{}, uuid.New())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoad_FailureCancelsSiblings(t *testing.T) {
	store := &fakeStore{failOn: "links", blockCtx: true, user: &db.User{}}
	_, err := Load(context.Background(), store, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links unavailable")
}
