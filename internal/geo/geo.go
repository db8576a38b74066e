// Package geo provides the pure geometry and geofence primitives used by the
// simulation engine. All functions operate on WGS84 latitude/longitude pairs
// in decimal degrees and return distances in meters.
package geo

import (
	"math"

	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/wroge/wgs84"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points.
// It is symmetric and returns 0 for identical points.
func HaversineMeters(a, b model.LatLng) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PointInPolygon reports whether the point lies inside the ring using the
// even-odd ray-casting rule. The ring is an ordered vertex sequence and does
// not need to be closed; the edge (i, i-1 mod n) is tested. Boundary results
// follow the parity of crossings and carry the usual edge ambiguity.
func PointInPolygon(lat, lng float64, ring []model.LatLng) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lng
		yj, xj := ring[j].Lat, ring[j].Lng
		crosses := (yi > lat) != (yj > lat) &&
			lng < (xj-xi)*(lat-yi)/(yj-yi)+xi
		if crosses {
			inside = !inside
		}
	}
	return inside
}

// InsideCircle reports whether the point is within radiusM meters of center.
// The boundary is inclusive.
func InsideCircle(lat, lng float64, center model.LatLng, radiusM float64) bool {
	return HaversineMeters(model.LatLng{Lat: lat, Lng: lng}, center) <= radiusM
}

// DistanceToSegmentMeters returns the distance from p to the segment [a,b].
// The projection is computed in a planar (lat,lng) parameterization and
// clamped to the segment; the distance to the projected point is haversine.
// This mixes planar projection with spherical distance, which is fine at
// city scale but not geodesically exact near shape boundaries.
func DistanceToSegmentMeters(p, a, b model.LatLng) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	lenSq := dLat*dLat + dLng*dLng
	t := 0.0
	if lenSq > 0 {
		t = ((p.Lat-a.Lat)*dLat + (p.Lng-a.Lng)*dLng) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	proj := model.LatLng{Lat: a.Lat + t*dLat, Lng: a.Lng + t*dLng}
	return HaversineMeters(p, proj)
}

// Heading returns the bearing from one point toward another as
// atan2(dLng, dLat) in degrees, normalized to [0, 360).
func Heading(from, to model.LatLng) float64 {
	deg := math.Atan2(to.Lng-from.Lng, to.Lat-from.Lat) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// WebMercator projects a WGS84 coordinate to EPSG:3857 for map-tile
// consumers of trails and zone outlines.
func WebMercator(p model.LatLng) (x, y float64) {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(p.Lng, p.Lat, 0)
	return x, y
}
