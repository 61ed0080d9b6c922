package timeline

import (
	"sort"
	"time"

	"github.com/noah-isme/roombook-api/internal/models"
)

// LayoutEngine assigns columns to one day's events so that overlapping
// bookings render side by side without collisions.
type LayoutEngine struct {
	position *PositionCalculator
}

// NewLayoutEngine constructs a layout engine.
func NewLayoutEngine(position *PositionCalculator) *LayoutEngine {
	if position == nil {
		position = NewPositionCalculator(nil, 0, nil)
	}
	return &LayoutEngine{position: position}
}

// span is an event's raw interval addressed by its index into the caller's
// slice. The clustering pass works entirely over indices so that the original
// event records survive untouched into the results.
type span struct {
	idx   int
	start time.Time
	end   time.Time
}

// Layout computes the column assignment and pixel geometry for events.
//
// Overlap detection compares raw instants, never civil time: two bookings
// collide or not regardless of the zone they are rendered in. Events are
// sorted by start ascending with longer durations first on ties, mutually
// overlapping events are clustered via breadth-first traversal of the overlap
// graph, and each cluster is packed greedily into columns left to right. The
// sort order must not change: leftmost-fit packing is only column-minimal when
// events arrive in start order.
func (e *LayoutEngine) Layout(events []models.Event, slotMinutes, startHour int, tzID string) []models.EventLayout {
	if len(events) == 0 {
		return []models.EventLayout{}
	}

	spans := make([]span, len(events))
	for i, ev := range events {
		spans[i] = span{idx: i, start: ev.Start, end: ev.End}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if !spans[i].start.Equal(spans[j].start) {
			return spans[i].start.Before(spans[j].start)
		}
		return spans[i].end.Sub(spans[i].start) > spans[j].end.Sub(spans[j].start)
	})

	// Adjacency list over sorted positions.
	n := len(spans)
	adjacent := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if Overlaps(spans[i].start, spans[i].end, spans[j].start, spans[j].end) {
				adjacent[i] = append(adjacent[i], j)
				adjacent[j] = append(adjacent[j], i)
			}
		}
	}

	visited := make([]bool, n)
	results := make([]models.EventLayout, 0, n)

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}

		cluster := []int{i}
		visited[i] = true
		for head := 0; head < len(cluster); head++ {
			for _, neighbor := range adjacent[cluster[head]] {
				if !visited[neighbor] {
					visited[neighbor] = true
					cluster = append(cluster, neighbor)
				}
			}
		}

		// Restore start order inside the cluster; equal starts keep the
		// duration-descending order established by the global sort.
		sort.Slice(cluster, func(a, b int) bool {
			if !spans[cluster[a]].start.Equal(spans[cluster[b]].start) {
				return spans[cluster[a]].start.Before(spans[cluster[b]].start)
			}
			return cluster[a] < cluster[b]
		})

		columnOf := make(map[int]int, len(cluster))
		var columnEnds []time.Time
		for _, member := range cluster {
			placed := false
			for col := range columnEnds {
				if !spans[member].start.Before(columnEnds[col]) {
					columnEnds[col] = spans[member].end
					columnOf[member] = col
					placed = true
					break
				}
			}
			if !placed {
				columnOf[member] = len(columnEnds)
				columnEnds = append(columnEnds, spans[member].end)
			}
		}

		total := len(columnEnds)
		for _, member := range cluster {
			original := events[spans[member].idx]
			results = append(results, models.EventLayout{
				Event:        original,
				Position:     e.position.Position(original, slotMinutes, startHour, tzID),
				Column:       columnOf[member],
				TotalColumns: total,
			})
		}
	}

	return results
}
