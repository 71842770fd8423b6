package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Date is a custom type for handling SQL DATE (YYYY-MM-DD)
type Date struct {
	time.Time
}

// NewDate returns a Date for the given day
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Scan implements the Scanner interface
func (d *Date) Scan(value any) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d *Date) Value() (driver.Value, error) {
	if d == nil || d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler
func (d *Date) MarshalJSON() ([]byte, error) {
	if d == nil || d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

// UnmarshalJSON accepts "YYYY-MM-DD", "YYYY-MM", null and "".
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		var monthErr error
		if t, monthErr = time.Parse("2006-01", *s); monthErr != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// String renders the date as YYYY-MM-DD, or "" when unset
func (d *Date) String() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("StringArray: unsupported source type")
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// User is an account plus its personal info
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Experience is an employment history entry
type Experience struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"-"`
	Company     string      `json:"company" validate:"required"`
	Title       string      `json:"title" validate:"required"`
	Location    string      `json:"location,omitempty"`
	StartDate   *Date       `json:"start_date,omitempty"`
	EndDate     *Date       `json:"end_date,omitempty"`
	Current     bool        `json:"current"`
	Description string      `json:"description,omitempty"`
	Highlights  StringArray `json:"highlights"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Education is a degree or course of study
type Education struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	School      string    `json:"school" validate:"required"`
	Degree      string    `json:"degree,omitempty"`
	Field       string    `json:"field,omitempty"`
	StartDate   *Date     `json:"start_date,omitempty"`
	EndDate     *Date     `json:"end_date,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Skill is a named skill with optional category and level
type Skill struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name" validate:"required"`
	Category  string    `json:"category,omitempty"`
	Level     string    `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Certification is a professional certification
type Certification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name" validate:"required"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedOn  *Date     `json:"issued_on,omitempty"`
	URL       string    `json:"url,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
}

// Link is a portfolio, profile or social link
type Link struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Label     string    `json:"label" validate:"required"`
	URL       string    `json:"url" validate:"required,url"`
	CreatedAt time.Time `json:"created_at"`
}
