package models

// ViewGranularity is the calendar window a client is rendering.
type ViewGranularity string

const (
	ViewDay   ViewGranularity = "day"
	ViewWeek  ViewGranularity = "week"
	ViewMonth ViewGranularity = "month"
)

// IsValid reports whether the granularity is one of the known views.
func (v ViewGranularity) IsValid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return true
	default:
		return false
	}
}

// ResourceAvailability is the availability verdict for a single resource.
type ResourceAvailability struct {
	ResourceID    string  `json:"resource_id"`
	Available     bool    `json:"available"`
	Conflicts     []Event `json:"conflicts"`
	TodaySchedule []Event `json:"today_schedule"`
}
