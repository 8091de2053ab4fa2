package geo

import (
	"fmt"
	"math"
)

// ClusterThreshold is the marker count at or below which every site is
// rendered individually, regardless of zoom.
const ClusterThreshold = 120

// Site is anything that can be placed on the map.
type Site interface {
	Coordinate() Point
}

const (
	RenderSingle  = "single"
	RenderCluster = "cluster"
)

// RenderItem is one marker in a render plan: either a single site or an
// aggregated cluster of sites sharing a grid bucket.
type RenderItem struct {
	Kind    string  `json:"kind"`
	Site    Site    `json:"-"`
	Count   int     `json:"count,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Members []Site  `json:"-"`
}

// GridSize returns the bucketing resolution for a zoom level. Higher zoom
// means a finer grid.
func GridSize(zoom int) int {
	size := 20 - zoom
	if size < 1 {
		size = 1
	}
	return size
}

// BucketKey maps a coordinate onto its grid cell at the given resolution.
func BucketKey(p Point, gridSize int) string {
	return fmt.Sprintf("%d:%d", int(math.Round(p.Lat*float64(gridSize))), int(math.Round(p.Lng*float64(gridSize))))
}

// BuildRenderPlan decides how the given sites should appear on the map at
// the given zoom. At or below ClusterThreshold every site becomes a single
// marker in input order. Above it, sites are bucketed on a zoom-dependent
// grid: buckets with two or more members collapse into one cluster marker
// positioned at the first member's coordinate, buckets of one stay single.
// The plan is a pure function of its inputs; buckets are emitted in order
// of first appearance.
func BuildRenderPlan(sites []Site, zoom int) []RenderItem {
	if len(sites) <= ClusterThreshold {
		plan := make([]RenderItem, 0, len(sites))
		for _, s := range sites {
			p := s.Coordinate()
			plan = append(plan, RenderItem{Kind: RenderSingle, Site: s, Lat: p.Lat, Lng: p.Lng})
		}
		return plan
	}

	gridSize := GridSize(zoom)
	buckets := make(map[string][]Site)
	order := make([]string, 0, len(sites))
	for _, s := range sites {
		key := BucketKey(s.Coordinate(), gridSize)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], s)
	}

	plan := make([]RenderItem, 0, len(order))
	for _, key := range order {
		members := buckets[key]
		first := members[0].Coordinate()
		if len(members) >= 2 {
			plan = append(plan, RenderItem{
				Kind:    RenderCluster,
				Count:   len(members),
				Lat:     first.Lat,
				Lng:     first.Lng,
				Members: members,
			})
		} else {
			plan = append(plan, RenderItem{Kind: RenderSingle, Site: members[0], Lat: first.Lat, Lng: first.Lng})
		}
	}
	return plan
}
