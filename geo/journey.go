package geo

import (
	"sort"
	"time"
)

// Waypoint is one stop on a user's travel path.
type Waypoint struct {
	Point     Point
	CreatedAt time.Time
}

// BuildJourney orders waypoints by creation time, ascending, and returns the
// polyline through them. Ties keep input order. Fewer than two waypoints
// yield no path at all.
func BuildJourney(waypoints []Waypoint) []Point {
	if len(waypoints) < 2 {
		return nil
	}
	sorted := make([]Waypoint, len(waypoints))
	copy(sorted, waypoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	path := make([]Point, len(sorted))
	for i, w := range sorted {
		path[i] = w.Point
	}
	return path
}
