package models

import "time"

// Resource is a bookable room, device or staff member.
type Resource struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Available bool      `db:"available" json:"available"`
	GroupID   *string   `db:"group_id" json:"group_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Group display modes.
const (
	GroupDisplayPlain    = "plain"
	GroupDisplayPrefixed = "prefixed"
)

// ResourceGroup organises resources for display purposes only; the engines
// never consult it.
type ResourceGroup struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	DisplayMode string `db:"display_mode" json:"display_mode"`
	Dimension   string `db:"dimension" json:"dimension"`
}

// ResourceView is a resource enriched with its composed display name.
type ResourceView struct {
	Resource
	DisplayName string `json:"display_name"`
}
