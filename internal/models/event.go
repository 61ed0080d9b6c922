package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventStatus captures the booking lifecycle.
type EventStatus string

const (
	EventStatusBooked    EventStatus = "booked"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// JSONMap stores free-form event metadata as a JSONB column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Event represents a booking against a shared resource. Events with a nil
// ResourceID are unassigned (e.g. notifications) and never block availability.
type Event struct {
	ID            string      `db:"id" json:"id"`
	ResourceID    *string     `db:"resource_id" json:"resource_id,omitempty"`
	GroupID       *string     `db:"group_id" json:"group_id,omitempty"`
	Title         string      `db:"title" json:"title"`
	Start         time.Time   `db:"start_at" json:"start"`
	End           time.Time   `db:"end_at" json:"end"`
	Status        EventStatus `db:"status" json:"status"`
	AllDay        bool        `db:"all_day" json:"all_day"`
	ExtendedProps JSONMap     `db:"extended_props" json:"extended_props,omitempty"`
	Notes         *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// EventFilter describes query params for listing events.
type EventFilter struct {
	From       *time.Time
	To         *time.Time
	ResourceID string
	Status     string
	Page       int
	PageSize   int
}

// TimeRange is a candidate booking window. Zero-valued bounds mean the range
// could not be parsed; engines treat such ranges as unconstrained.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid reports whether both bounds parsed to real instants.
func (r TimeRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}
