package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Client represents a customer record managed by the API
type Client struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name" validate:"required"`
	LastName string  `json:"last_name" db:"last_name" validate:"required"`
	Email    string  `json:"email" db:"email" validate:"required,email"`
	CreateAt Date    `json:"createAt" db:"create_at"`
	Photo    *string `json:"photo" db:"photo"` // Stored file name, nil until a photo is uploaded
}

// HasPhoto reports whether the client references a stored photo file.
func (c *Client) HasPhoto() bool {
	return c.Photo != nil && *c.Photo != ""
}

// DateLayout is the wire and storage format of Date values.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
// It is serialized as "YYYY-MM-DD" and as null when zero.
type Date struct {
	time.Time
}

// NewDate returns the date y-m-d at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func dateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full RFC 3339 timestamp, null or "".
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("createAt must be a date string: %w", err)
	}
	parsed, err := parseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func parseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return dateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, please use YYYY-MM-DD", s)
	}
	return dateOf(t), nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner. PostgreSQL hands back time.Time for DATE
// columns, SQLite may hand back text.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = dateOf(v)
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			*d = dateOf(t)
			return nil
		}
	}
	parsed, err := parseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
