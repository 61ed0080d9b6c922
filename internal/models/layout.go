package models

// EventPosition is the vertical placement of an event on a single-day timeline.
// Negative or zero heights are valid outputs the presentation layer may clamp.
type EventPosition struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// EventLayout assigns an event to a lane within its overlap cluster.
// Column and TotalColumns are only meaningful relative to the cluster that
// produced them; disjoint clusters may have different widths.
type EventLayout struct {
	Event        Event         `json:"event"`
	Position     EventPosition `json:"position"`
	Column       int           `json:"column"`
	TotalColumns int           `json:"total_columns"`
}
