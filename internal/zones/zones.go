// Package zones holds the fixed geofence catalogue for the Muscat operating
// area. The catalogue is loaded once at startup and never mutated.
package zones

import (
	"fmt"

	"github.com/fueltrace/fleetsim/internal/geo"
	"github.com/fueltrace/fleetsim/internal/model"
)

// catalogue is the zone universe, in presentation order.
var catalogue = []model.GeoZone{
	{
		ID:      "depot-1",
		Name:    "Mina Al Fahal Terminal",
		Type:    model.ZoneDepot,
		Shape:   model.ShapeCircle,
		Center:  model.LatLng{Lat: 23.6345, Lng: 58.5210},
		RadiusM: 400,
	},
	{
		ID:      "depot-2",
		Name:    "Ghala Loading Depot",
		Type:    model.ZoneDepot,
		Shape:   model.ShapeCircle,
		Center:  model.LatLng{Lat: 23.5790, Lng: 58.3770},
		RadiusM: 250,
	},
	{
		ID:      "delivery-1",
		Name:    "Rusayl Industrial Estate",
		Type:    model.ZoneDelivery,
		Shape:   model.ShapePolygon,
		Client:  "Rusayl Manufacturing Co.",
		Ring: []model.LatLng{
			{Lat: 23.5340, Lng: 58.1850},
			{Lat: 23.5340, Lng: 58.2100},
			{Lat: 23.5150, Lng: 58.2100},
			{Lat: 23.5150, Lng: 58.1850},
		},
	},
	{
		ID:      "delivery-2",
		Name:    "Al Khuwair Fuel Station",
		Type:    model.ZoneDelivery,
		Shape:   model.ShapeCircle,
		Client:  "Gulf Retail Fuels",
		Center:  model.LatLng{Lat: 23.5986, Lng: 58.4350},
		RadiusM: 180,
	},
	{
		ID:      "delivery-3",
		Name:    "Seeb Airport Apron",
		Type:    model.ZoneDelivery,
		Shape:   model.ShapeCircle,
		Client:  "Muscat Aviation Services",
		Center:  model.LatLng{Lat: 23.5933, Lng: 58.2844},
		RadiusM: 350,
	},
	{
		ID:    "danger-1",
		Name:  "Wadi Crossing Restricted Area",
		Type:  model.ZoneDanger,
		Shape: model.ShapePolygon,
		Ring: []model.LatLng{
			{Lat: 23.5600, Lng: 58.3300},
			{Lat: 23.5660, Lng: 58.3450},
			{Lat: 23.5520, Lng: 58.3500},
			{Lat: 23.5460, Lng: 58.3360},
		},
	},
}

func init() {
	// Reject degenerate polygon rings at startup rather than mid-simulation.
	for _, z := range catalogue {
		if z.Shape != model.ShapePolygon {
			continue
		}
		if _, err := geo.RingPolygon(z.Ring); err != nil {
			panic(fmt.Sprintf("zone %s: %v", z.ID, err))
		}
	}
}

// All returns the full catalogue in registry order.
func All() []model.GeoZone {
	out := make([]model.GeoZone, len(catalogue))
	copy(out, catalogue)
	return out
}

// ByID looks up a zone by its identifier.
func ByID(id string) (model.GeoZone, bool) {
	for _, z := range catalogue {
		if z.ID == id {
			return z, true
		}
	}
	return model.GeoZone{}, false
}

// Assignable returns the zones a trip may target: depots and delivery zones.
// Danger zones are never assignable destinations.
func Assignable() []model.GeoZone {
	var out []model.GeoZone
	for _, z := range catalogue {
		if z.Type == model.ZoneDanger {
			continue
		}
		out = append(out, z)
	}
	return out
}

// Destination returns a zone's reference point as a trip waypoint: the
// center for circles, the ring centroid for polygons.
func Destination(z model.GeoZone) (model.Waypoint, error) {
	switch z.Shape {
	case model.ShapeCircle:
		return model.Waypoint{LatLng: z.Center, Name: z.Name}, nil
	case model.ShapePolygon:
		c, err := geo.RingCentroid(z.Ring)
		if err != nil {
			return model.Waypoint{}, fmt.Errorf("zone %s: %w", z.ID, err)
		}
		return model.Waypoint{LatLng: c, Name: z.Name}, nil
	default:
		return model.Waypoint{}, fmt.Errorf("zone %s: unknown shape %q", z.ID, z.Shape)
	}
}
