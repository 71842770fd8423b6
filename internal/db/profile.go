package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Profile records are always scoped by user_id so one user can never read
// or modify another user's rows.

// ---------------------------------------------------------------------------
// Experiences
// ---------------------------------------------------------------------------

const experienceColumns = `id, user_id, company, title, location, start_date, end_date,
	is_current, description, highlights, created_at`

func scanExperience(row rowScanner) (Experience, error) {
	var e Experience
	err := row.Scan(&e.ID, &e.UserID, &e.Company, &e.Title, &e.Location, &e.StartDate, &e.EndDate,
		&e.Current, &e.Description, &e.Highlights, &e.CreatedAt)
	return e, err
}

// ListExperiences returns a user's experiences, most recent first
func (db *DB) ListExperiences(ctx context.Context, userID uuid.UUID) ([]Experience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE user_id = $1
		 ORDER BY is_current DESC, start_date DESC NULLS LAST, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	out := []Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateExperience inserts e and fills its ID and CreatedAt
func (db *DB) CreateExperience(ctx context.Context, e *Experience) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO experiences (user_id, company, title, location, start_date, end_date, is_current, description, highlights)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		e.UserID, e.Company, e.Title, e.Location, e.StartDate, e.EndDate, e.Current, e.Description, e.Highlights,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	return nil
}

// UpdateExperience replaces the editable fields of e
func (db *DB) UpdateExperience(ctx context.Context, e *Experience) error {
	return db.execAffecting(ctx, "update experience",
		`UPDATE experiences SET company = $3, title = $4, location = $5, start_date = $6, end_date = $7,
		     is_current = $8, description = $9, highlights = $10
		 WHERE id = $1 AND user_id = $2`,
		e.ID, e.UserID, e.Company, e.Title, e.Location, e.StartDate, e.EndDate, e.Current, e.Description, e.Highlights,
	)
}

// DeleteExperience removes one experience
func (db *DB) DeleteExperience(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete experience",
		`DELETE FROM experiences WHERE id = $1 AND user_id = $2`, id, userID)
}

// ---------------------------------------------------------------------------
// Education
// ---------------------------------------------------------------------------

const educationColumns = `id, user_id, school, degree, field, start_date, end_date, description, created_at`

func scanEducation(row rowScanner) (Education, error) {
	var e Education
	err := row.Scan(&e.ID, &e.UserID, &e.School, &e.Degree, &e.Field, &e.StartDate, &e.EndDate,
		&e.Description, &e.CreatedAt)
	return e, err
}

// ListEducation returns a user's education entries, most recent first
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+educationColumns+` FROM education WHERE user_id = $1
		 ORDER BY end_date DESC NULLS FIRST, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	out := []Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEducation inserts e and fills its ID and CreatedAt
func (db *DB) CreateEducation(ctx context.Context, e *Education) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO education (user_id, school, degree, field, start_date, end_date, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.UserID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}
	return nil
}

// UpdateEducation replaces the editable fields of e
func (db *DB) UpdateEducation(ctx context.Context, e *Education) error {
	return db.execAffecting(ctx, "update education",
		`UPDATE education SET school = $3, degree = $4, field = $5, start_date = $6, end_date = $7, description = $8
		 WHERE id = $1 AND user_id = $2`,
		e.ID, e.UserID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.Description,
	)
}

// DeleteEducation removes one education entry
func (db *DB) DeleteEducation(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete education",
		`DELETE FROM education WHERE id = $1 AND user_id = $2`, id, userID)
}

// ---------------------------------------------------------------------------
// Skills
// ---------------------------------------------------------------------------

// ListSkills returns a user's skills grouped by category
func (db *DB) ListSkills(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, category, level, created_at FROM skills WHERE user_id = $1
		 ORDER BY category, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	out := []Skill{}
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Category, &s.Level, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSkill inserts s and fills its ID and CreatedAt
func (db *DB) CreateSkill(ctx context.Context, s *Skill) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (user_id, name, category, level) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		s.UserID, s.Name, s.Category, s.Level,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}

// UpdateSkill replaces the editable fields of s
func (db *DB) UpdateSkill(ctx context.Context, s *Skill) error {
	return db.execAffecting(ctx, "update skill",
		`UPDATE skills SET name = $3, category = $4, level = $5 WHERE id = $1 AND user_id = $2`,
		s.ID, s.UserID, s.Name, s.Category, s.Level,
	)
}

// DeleteSkill removes one skill
func (db *DB) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete skill",
		`DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
}

// ---------------------------------------------------------------------------
// Certifications
// ---------------------------------------------------------------------------

// ListCertifications returns a user's certifications, newest first
func (db *DB) ListCertifications(ctx context.Context, userID uuid.UUID) ([]Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, issuer, issued_on, url, created_at FROM certifications WHERE user_id = $1
		 ORDER BY issued_on DESC NULLS LAST, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	out := []Certification{}
	for rows.Next() {
		var c Certification
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Issuer, &c.IssuedOn, &c.URL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCertification inserts c and fills its ID and CreatedAt
func (db *DB) CreateCertification(ctx context.Context, c *Certification) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO certifications (user_id, name, issuer, issued_on, url) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.UserID, c.Name, c.Issuer, c.IssuedOn, c.URL,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create certification: %w", err)
	}
	return nil
}

// UpdateCertification replaces the editable fields of c
func (db *DB) UpdateCertification(ctx context.Context, c *Certification) error {
	return db.execAffecting(ctx, "update certification",
		`UPDATE certifications SET name = $3, issuer = $4, issued_on = $5, url = $6 WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, c.Name, c.Issuer, c.IssuedOn, c.URL,
	)
}

// DeleteCertification removes one certification
func (db *DB) DeleteCertification(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete certification",
		`DELETE FROM certifications WHERE id = $1 AND user_id = $2`, id, userID)
}

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

// ListLinks returns a user's links in creation order
func (db *DB) ListLinks(ctx context.Context, userID uuid.UUID) ([]Link, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, label, url, created_at FROM links WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	out := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.UserID, &l.Label, &l.URL, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateLink inserts l and fills its ID and CreatedAt
func (db *DB) CreateLink(ctx context.Context, l *Link) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO links (user_id, label, url) VALUES ($1, $2, $3) RETURNING id, created_at`,
		l.UserID, l.Label, l.URL,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// UpdateLink replaces the editable fields of l
func (db *DB) UpdateLink(ctx context.Context, l *Link) error {
	return db.execAffecting(ctx, "update link",
		`UPDATE links SET label = $3, url = $4 WHERE id = $1 AND user_id = $2`,
		l.ID, l.UserID, l.Label, l.URL,
	)
}

// DeleteLink removes one link
func (db *DB) DeleteLink(ctx context.Context, userID, id uuid.UUID) error {
	return db.execAffecting(ctx, "delete link",
		`DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
}
