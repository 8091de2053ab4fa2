package mapview

import (
	"errors"
	"sync"

	"github.com/tripatlas/api-go/geo"
	"github.com/tripatlas/api-go/models"
)

// Viewport defaults for a freshly created surface.
const (
	DefaultCenterLat = 36.8065
	DefaultCenterLng = 10.1815
	DefaultZoom      = 13
	SelectZoom       = 16
	MaxZoom          = 20

	TileURLTemplate = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = "© OpenStreetMap contributors"
)

var (
	ErrSurfaceClosed = errors.New("mapview: surface has been torn down")
	ErrInvalidPoint  = errors.New("mapview: coordinate out of range")
)

// Marker is one rendered map marker, either a single activity with the
// viewer's join state or an aggregated cluster.
type Marker struct {
	Kind       string  `json:"kind"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ActivityID uint    `json:"activityId,omitempty"`
	Title      string  `json:"title,omitempty"`
	JoinState  string  `json:"joinState,omitempty"`
	Count      int     `json:"count,omitempty"`
	MemberIDs  []uint  `json:"memberIds,omitempty"`
}

// State is the externally visible snapshot of a surface.
type State struct {
	ID          string      `json:"id"`
	CenterLat   float64     `json:"centerLat"`
	CenterLng   float64     `json:"centerLng"`
	Zoom        int         `json:"zoom"`
	TileURL     string      `json:"tileUrl"`
	Attribution string      `json:"attribution"`
	Selected    *geo.Point  `json:"selected,omitempty"`
	Markers     []Marker    `json:"markers"`
	Journey     []geo.Point `json:"journey"`
}

// Surface owns one interactive map viewport: center, zoom, the selected
// location marker, the activity marker set and the journey polyline. It is
// created and destroyed explicitly; nothing else mutates its layers.
type Surface struct {
	mu sync.Mutex

	id        string
	centerLat float64
	centerLng float64
	zoom      int
	selected  *geo.Point
	markers   []Marker
	journey   []geo.Point

	// last applied inputs, kept so a zoom change can re-plan markers
	activities []*models.Activity
	viewerID   uint

	closed bool
}

// New creates a surface centered on the default viewport. An empty id is a
// programming error, not a recoverable condition.
func New(id string) (*Surface, error) {
	if id == "" {
		return nil, errors.New("mapview: surface id must not be empty")
	}
	return &Surface{
		id:        id,
		centerLat: DefaultCenterLat,
		centerLng: DefaultCenterLng,
		zoom:      DefaultZoom,
	}, nil
}

// Click places (or moves) the selected-location marker, recenters on it and
// raises the zoom to at least SelectZoom. It never lowers the zoom.
func (s *Surface) Click(lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return ErrInvalidPoint
	}
	s.selected = &p
	s.centerLat = lat
	s.centerLng = lng
	if s.zoom < SelectZoom {
		s.zoom = SelectZoom
	}
	return nil
}

// SetActivities rebuilds the full marker set from scratch at the current
// zoom. Calling it twice with the same list yields the same marker set.
func (s *Surface) SetActivities(activities []*models.Activity, viewerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	s.activities = activities
	s.viewerID = viewerID
	s.rebuildMarkers()
	return nil
}

// SetJourney redraws the journey polyline from the given activities, ordered
// by creation time. Fewer than two points clears any existing polyline.
func (s *Surface) SetJourney(activities []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	waypoints := make([]geo.Waypoint, len(activities))
	for i, a := range activities {
		waypoints[i] = geo.Waypoint{Point: a.Coordinate(), CreatedAt: a.CreatedAt}
	}
	s.journey = geo.BuildJourney(waypoints)
	return nil
}

// ClusterClick drills into a cluster: recenter on its coordinate and zoom in
// by exactly two levels, then re-plan the markers at the new zoom.
func (s *Surface) ClusterClick(lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return ErrInvalidPoint
	}
	s.centerLat = lat
	s.centerLng = lng
	s.zoom += 2
	if s.zoom > MaxZoom {
		s.zoom = MaxZoom
	}
	s.rebuildMarkers()
	return nil
}

// Teardown releases all layers. Safe to call any number of times.
func (s *Surface) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.markers = nil
	s.journey = nil
	s.selected = nil
	s.activities = nil
}

// State snapshots the surface for transport.
func (s *Surface) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSurfaceClosed
	}
	markers := make([]Marker, len(s.markers))
	copy(markers, s.markers)
	journey := make([]geo.Point, len(s.journey))
	copy(journey, s.journey)
	var selected *geo.Point
	if s.selected != nil {
		p := *s.selected
		selected = &p
	}
	return State{
		ID:          s.id,
		CenterLat:   s.centerLat,
		CenterLng:   s.centerLng,
		Zoom:        s.zoom,
		TileURL:     TileURLTemplate,
		Attribution: TileAttribution,
		Selected:    selected,
		Markers:     markers,
		Journey:     journey,
	}, nil
}

// rebuildMarkers re-plans the marker layer from the last applied activity
// list. Caller holds the lock.
func (s *Surface) rebuildMarkers() {
	sites := make([]geo.Site, len(s.activities))
	for i, a := range s.activities {
		sites[i] = a
	}
	plan := geo.BuildRenderPlan(sites, s.zoom)
	s.markers = PlanToMarkers(plan, s.viewerID)
}

// PlanToMarkers converts a render plan into transport markers, attaching the
// viewer's exclusive join state to single markers.
func PlanToMarkers(plan []geo.RenderItem, viewerID uint) []Marker {
	markers := make([]Marker, 0, len(plan))
	for _, item := range plan {
		if item.Kind == geo.RenderSingle {
			a := item.Site.(*models.Activity)
			markers = append(markers, Marker{
				Kind:       geo.RenderSingle,
				Lat:        item.Lat,
				Lng:        item.Lng,
				ActivityID: a.ID,
				Title:      a.Title,
				JoinState:  a.ViewerState(viewerID),
			})
			continue
		}
		ids := make([]uint, len(item.Members))
		for i, m := range item.Members {
			ids[i] = m.(*models.Activity).ID
		}
		markers = append(markers, Marker{
			Kind:      geo.RenderCluster,
			Lat:       item.Lat,
			Lng:       item.Lng,
			Count:     item.Count,
			MemberIDs: ids,
		})
	}
	return markers
}
