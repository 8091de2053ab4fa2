package geo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSite struct {
	name string
	p    Point
}

func (s testSite) Coordinate() Point { return s.p }

func spreadSites(n int) []Site {
	sites := make([]Site, 0, n)
	for i := 0; i < n; i++ {
		// well separated coordinates so every site lands in its own bucket
		lat := -60.0 + float64(i%120)
		lng := -60.0 + float64(i/120)*2 + float64(i%120)*0.0001
		sites = append(sites, testSite{name: fmt.Sprintf("s%d", i), p: Point{Lat: lat, Lng: lng}})
	}
	return sites
}

func TestGridSize(t *testing.T) {
	assert.Equal(t, 7, GridSize(13))
	assert.Equal(t, 1, GridSize(19))
	assert.Equal(t, 1, GridSize(20))
	assert.Equal(t, 19, GridSize(1))
}

func TestBucketKeyRounds(t *testing.T) {
	assert.Equal(t, BucketKey(Point{Lat: 36.8065, Lng: 10.1815}, 7), BucketKey(Point{Lat: 36.81, Lng: 10.18}, 7))
	assert.NotEqual(t, BucketKey(Point{Lat: 36.8, Lng: 10.2}, 7), BucketKey(Point{Lat: 37.8, Lng: 10.2}, 7))
}

func TestRenderPlanAtOrBelowThresholdIsAllSingles(t *testing.T) {
	sites := spreadSites(ClusterThreshold)

	plan := BuildRenderPlan(sites, 5)

	require.Len(t, plan, len(sites))
	for i, item := range plan {
		assert.Equal(t, RenderSingle, item.Kind)
		assert.Equal(t, sites[i], item.Site, "input order must be preserved")
		assert.Equal(t, sites[i].Coordinate().Lat, item.Lat)
		assert.Equal(t, sites[i].Coordinate().Lng, item.Lng)
	}
}

func TestRenderPlanClustersSharedBucketsAboveThreshold(t *testing.T) {
	sites := spreadSites(ClusterThreshold)
	// push past the threshold with a site co-located with the first one
	sites = append(sites, testSite{name: "twin", p: sites[0].Coordinate()})

	plan := BuildRenderPlan(sites, 13)

	require.Len(t, plan, ClusterThreshold)

	cluster := plan[0]
	assert.Equal(t, RenderCluster, cluster.Kind)
	assert.Equal(t, 2, cluster.Count)
	require.Len(t, cluster.Members, 2)
	assert.Equal(t, sites[0], cluster.Members[0])

	for _, item := range plan[1:] {
		assert.Equal(t, RenderSingle, item.Kind)
	}
}

func TestRenderPlanClusterUsesFirstMemberCoordinate(t *testing.T) {
	sites := spreadSites(ClusterThreshold)
	// nearby but not identical: same bucket at zoom 13 (grid 7), different point
	first := sites[0].Coordinate()
	sites = append(sites, testSite{name: "near", p: Point{Lat: first.Lat + 0.01, Lng: first.Lng + 0.01}})

	plan := BuildRenderPlan(sites, 13)

	cluster := plan[0]
	require.Equal(t, RenderCluster, cluster.Kind)
	assert.Equal(t, first.Lat, cluster.Lat, "cluster sits on its first member, not an average")
	assert.Equal(t, first.Lng, cluster.Lng)
}

func TestRenderPlanSplitsDistinctBuckets(t *testing.T) {
	sites := spreadSites(ClusterThreshold + 1)

	plan := BuildRenderPlan(sites, 13)

	// every site is alone in its bucket, so nothing clusters
	for _, item := range plan {
		assert.Equal(t, RenderSingle, item.Kind)
	}
}

func TestRenderPlanIsDeterministic(t *testing.T) {
	sites := spreadSites(ClusterThreshold + 30)

	first := BuildRenderPlan(sites, 10)
	second := BuildRenderPlan(sites, 10)

	assert.Equal(t, first, second)
}
