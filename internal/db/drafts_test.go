package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverme/internal/types"
)

func TestIntegration_DraftCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()
	userID := createTestUser(t, db)

	parsed := &types.ExtractionResult{
		Title:            types.StringPtr("Data Engineer"),
		Responsibilities: []string{"Build pipelines"},
		Requirements:     []string{"SQL"},
		Keywords:         []string{"SQL"},
		Method:           types.MethodHeuristic,
		Language:         "en",
		Confidence:       0.5,
	}
	draft := &CoverLetterDraft{
		UserID:     userID,
		JobTitle:   "Data Engineer",
		RawJobText: "Responsibilities:\n- Build pipelines",
		Parsed:     parsed,
		Confidence: 0.5,
	}
	require.NoError(t, db.CreateDraft(ctx, draft))
	assert.NotEqual(t, uuid.Nil, draft.ID)

	got, err := db.GetDraft(ctx, userID, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Parsed)
	assert.Equal(t, "Data Engineer", got.Parsed.TitleOrEmpty())
	assert.Nil(t, got.Parsed.Company)
	assert.Empty(t, got.Content)

	draft.Content = "Dear team,"
	draft.Config = types.GenerationConfig{Tone: "formal", Length: "short", Template: "standard"}
	draft.Model = "gemini-2.5-pro"
	require.NoError(t, db.UpdateDraft(ctx, draft))

	list, err := db.ListDrafts(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dear team,", list[0].Content)
	assert.Equal(t, "short", list[0].Config.Length)

	other, err := db.GetDraft(ctx, uuid.New(), draft.ID)
	require.NoError(t, err)
	assert.Nil(t, other, "drafts are scoped to their owner")

	require.NoError(t, db.DeleteDraft(ctx, userID, draft.ID))
	assert.ErrorIs(t, db.DeleteDraft(ctx, userID, draft.ID), ErrNotFound)
}
