package geo

import (
	"errors"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/fueltrace/fleetsim/internal/model"
)

// ErrInvalidRing is returned when a polygon zone's ring cannot form a valid
// closed polygon.
var ErrInvalidRing = errors.New("invalid polygon ring")

// IsInZone reports whether the point lies inside the zone, dispatching on
// the zone shape. A malformed zone (missing geometry) is never entered.
func IsInZone(lat, lng float64, zone model.GeoZone) bool {
	switch zone.Shape {
	case model.ShapeCircle:
		if zone.RadiusM <= 0 {
			return false
		}
		return InsideCircle(lat, lng, zone.Center, zone.RadiusM)
	case model.ShapePolygon:
		if len(zone.Ring) < 3 {
			return false
		}
		return PointInPolygon(lat, lng, zone.Ring)
	default:
		return false
	}
}

// ZonesContainingPoint returns every zone containing the point, preserving
// the input order. The result is empty (nil) when no zone matches.
func ZonesContainingPoint(lat, lng float64, zones []model.GeoZone) []model.GeoZone {
	var out []model.GeoZone
	for _, z := range zones {
		if IsInZone(lat, lng, z) {
			out = append(out, z)
		}
	}
	return out
}

// RingPolygon builds a validated simplefeatures polygon from a zone ring,
// closing the ring if the input leaves it open. Used when registering
// polygon zones to reject degenerate geometry early.
func RingPolygon(ring []model.LatLng) (geom.Polygon, error) {
	if len(ring) < 3 {
		return geom.Polygon{}, ErrInvalidRing
	}
	coords := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		coords = append(coords, p.Lng, p.Lat)
	}
	if ring[0] != ring[len(ring)-1] {
		coords = append(coords, ring[0].Lng, ring[0].Lat)
	}
	ls := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	poly := geom.NewPolygon([]geom.LineString{ls})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, ErrInvalidRing
	}
	return poly, nil
}

// RingCentroid returns the centroid of a polygon zone ring.
func RingCentroid(ring []model.LatLng) (model.LatLng, error) {
	poly, err := RingPolygon(ring)
	if err != nil {
		return model.LatLng{}, err
	}
	c, ok := poly.Centroid().XY()
	if !ok {
		return model.LatLng{}, ErrInvalidRing
	}
	return model.LatLng{Lat: c.Y, Lng: c.X}, nil
}
