package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/coverme/internal/types"
)

// DefaultDraftListLimit bounds ListDrafts when no limit is given
const DefaultDraftListLimit = 50

// CoverLetterDraft is a parsed job description and, once generated, the
// letter written for it.
type CoverLetterDraft struct {
	ID         uuid.UUID               `json:"id"`
	UserID     uuid.UUID               `json:"-"`
	JobTitle   string                  `json:"job_title"`
	Company    string                  `json:"company"`
	RawJobText string                  `json:"raw_job_text,omitempty"`
	Parsed     *types.ExtractionResult `json:"parsed,omitempty"`
	Config     types.GenerationConfig  `json:"config"`
	Content    string                  `json:"content"`
	Model      string                  `json:"model,omitempty"`
	Language   string                  `json:"language,omitempty"`
	Confidence float64                 `json:"confidence"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

const draftColumns = `id, user_id, job_title, company, raw_job_text, parsed, config, content,
	model, language, confidence, created_at, updated_at`

func scanDraft(row rowScanner) (*CoverLetterDraft, error) {
	var d CoverLetterDraft
	var parsed, cfg []byte
	err := row.Scan(&d.ID, &d.UserID, &d.JobTitle, &d.Company, &d.RawJobText, &parsed, &cfg, &d.Content,
		&d.Model, &d.Language, &d.Confidence, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		var p types.ExtractionResult
		if err := json.Unmarshal(parsed, &p); err != nil {
			return nil, fmt.Errorf("failed to decode parsed job: %w", err)
		}
		d.Parsed = &p
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &d.Config); err != nil {
			return nil, fmt.Errorf("failed to decode generation config: %w", err)
		}
	}
	return &d, nil
}

func marshalDraftJSON(d *CoverLetterDraft) (parsed, cfg []byte, err error) {
	if d.Parsed != nil {
		if parsed, err = json.Marshal(d.Parsed); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal parsed job: %w", err)
		}
	}
	if cfg, err = json.Marshal(d.Config); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal generation config: %w", err)
	}
	return parsed, cfg, nil
}

// CreateDraft inserts d and fills its ID and timestamps
func (db *DB) CreateDraft(ctx context.Context, d *CoverLetterDraft) error {
	parsed, cfg, err := marshalDraftJSON(d)
	if err != nil {
		return err
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO cover_letter_drafts (user_id, job_title, company, raw_job_text, parsed, config, content, model, language, confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		d.UserID, d.JobTitle, d.Company, d.RawJobText, parsed, cfg, d.Content, d.Model, d.Language, d.Confidence,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// GetDraft retrieves one of the user's drafts
func (db *DB) GetDraft(ctx context.Context, userID, id uuid.UUID) (*CoverLetterDraft, error) {
	d, err := scanDraft(db.pool.QueryRow(ctx,
		`SELECT `+draftColumns+` FROM cover_letter_drafts WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

// ListDrafts returns the user's most recent drafts
func (db *DB) ListDrafts(ctx context.Context, userID uuid.UUID, limit int) ([]CoverLetterDraft, error) {
	if limit <= 0 {
		limit = DefaultDraftListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+draftColumns+` FROM cover_letter_drafts WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	out := []CoverLetterDraft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateDraft saves every mutable field of d
func (db *DB) UpdateDraft(ctx context.Context, d *CoverLetterDraft) error {
	parsed, cfg, err := marshalDraftJSON(d)
	if err != nil {
		return err
	}
	return db.execAffecting(ctx, "update draft",
		`UPDATE cover_letter_drafts SET job_title = $3, company = $4, raw_job_text = $5, parsed = $6, config = $7,
		     content = $8, model = $9, language = $10, confidence = $11, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		d.ID, d.UserID, d.JobTitle, d.Company, d.RawJobText, parsed, cfg, d.Content, d.Model, d.Language, d.Confidence,
	)
}

// DeleteDraft removes one draft
func (db *DB) DeleteDraft(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete draft",
		`DELETE FROM cover_letter_drafts WHERE id = $1 AND user_id = $2`, id, userID)
}
