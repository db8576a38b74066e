// Package model holds the domain types shared across the simulation engine,
// the zone registry and the storage backends.
package model

import "time"

// Stream capacities. Oldest entries are evicted once a cap is reached.
const (
	TrailCap       = 20
	TruckLogCap    = 40
	DeliveryLogCap = 10
	AlertCap       = 50
	LossHistoryCap = 500
	ConsumptionCap = 1000
)

// LatLng is a WGS84 coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is a named coordinate used for trip origins and destinations.
type Waypoint struct {
	LatLng
	Name string `json:"name"`
}

// TruckStatus is the lifecycle state of a truck.
type TruckStatus string

const (
	StatusIdle       TruckStatus = "idle"
	StatusAssigned   TruckStatus = "assigned"
	StatusDelivering TruckStatus = "delivering"
	StatusCompleted  TruckStatus = "completed"
	StatusUplifting  TruckStatus = "uplifting"
)

// AlertType classifies alerts raised by the engine.
type AlertType string

const (
	AlertTheft          AlertType = "theft"
	AlertTampering      AlertType = "tampering"
	AlertOffline        AlertType = "offline"
	AlertTilt           AlertType = "tilt"
	AlertValve          AlertType = "valve"
	AlertLoss           AlertType = "loss"
	AlertRouteDeviation AlertType = "route_deviation"
)

// AlertSeverity ranks alerts for dashboard triage.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// ZoneType classifies geofence zones.
type ZoneType string

const (
	ZoneDepot    ZoneType = "depot"
	ZoneDelivery ZoneType = "delivery"
	ZoneDanger   ZoneType = "danger"
)

// ZoneShape discriminates the geometry carried by a GeoZone.
type ZoneShape string

const (
	ShapeCircle  ZoneShape = "circle"
	ShapePolygon ZoneShape = "polygon"
)

// GeoZone is an immutable geofence: a circle (Center+RadiusM) or a polygon
// (Ring, an ordered vertex ring that need not be closed).
type GeoZone struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    ZoneType  `json:"type"`
	Shape   ZoneShape `json:"shape"`
	Center  LatLng    `json:"center,omitempty"`
	RadiusM float64   `json:"radiusMeters,omitempty"`
	Ring    []LatLng  `json:"ring,omitempty"`
	Client  string    `json:"client,omitempty"`
}

// Compartment is one fuel tank segment of a truck. Identity is fixed for the
// truck's lifetime; only the numeric and flag fields mutate.
type Compartment struct {
	ID              string     `json:"id"`
	FuelType        string     `json:"fuelType"`
	CapacityLiters  float64    `json:"capacityLiters"`
	CurrentLevel    float64    `json:"currentLevel"`
	IsOffloading    bool       `json:"isOffloading"`
	TargetDelivery  float64    `json:"targetDelivery"`
	DeliveredLiters float64    `json:"deliveredLiters"`
	DeliveryLog     []LogEntry `json:"deliveryLog,omitempty"`
}

// Assignment tracks an in-progress delivery. Present only between the
// assigned transition and trip completion.
type Assignment struct {
	AssignedLiters        float64            `json:"assignedLiters"`
	StartTime             time.Time          `json:"startTime"`
	CompartmentTargets    map[string]float64 `json:"compartmentTargets"`
	ProvisionalLossLiters float64            `json:"provisionalLossLiters"`
}

// TripSummary is the snapshot written when a delivery completes.
type TripSummary struct {
	AssignedLiters  float64   `json:"assignedLiters"`
	DeliveredLiters float64   `json:"deliveredLiters"`
	LossLiters      float64   `json:"lossLiters"`
	LossPercent     float64   `json:"lossPercent"`
	CompletedAt     time.Time `json:"completedAt"`
}

// TrailPoint is one entry of a truck's bounded position history.
type TrailPoint struct {
	LatLng
	Timestamp time.Time `json:"timestamp"`
}

// LogEntry is a human-readable event line attached to a truck or compartment.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Truck is the unit of simulation.
type Truck struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Driver string      `json:"driver"`
	Client string      `json:"client"`
	Status TruckStatus `json:"status"`

	Position    LatLng    `json:"position"`
	Destination *Waypoint `json:"destination,omitempty"`
	StartPoint  *Waypoint `json:"startPoint,omitempty"`

	Compartments []Compartment `json:"compartments"`

	SpeedKmh   float64   `json:"speedKmh"`
	FuelFlow   float64   `json:"fuelFlow"`
	TiltDeg    float64   `json:"tiltDeg"`
	ValveOpen  bool      `json:"valveOpen"`
	Online     bool      `json:"online"`
	Heading    float64   `json:"heading"`
	LastUpdate time.Time `json:"lastUpdate"`

	Trail []TrailPoint `json:"trail"`
	Logs  []LogEntry   `json:"logs"`

	CurrentAssignment *Assignment  `json:"currentAssignment,omitempty"`
	LastTripSummary   *TripSummary `json:"lastTripSummary,omitempty"`
}

// Alert is an engine-raised event record. Only Acknowledged ever mutates,
// and only false -> true.
type Alert struct {
	ID           string        `json:"id"`
	Type         AlertType     `json:"type"`
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	Timestamp    time.Time     `json:"timestamp"`
	TruckID      string        `json:"truckId"`
	Location     LatLng        `json:"location"`
	Acknowledged bool          `json:"acknowledged"`
}

// FuelLossEntry is appended to the loss history when a delivery completes.
type FuelLossEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	TruckID         string    `json:"truckId"`
	AssignedLiters  float64   `json:"assignedLiters"`
	DeliveredLiters float64   `json:"deliveredLiters"`
	LossLiters      float64   `json:"lossLiters"`
	LossPercent     float64   `json:"lossPercent"`
}

// Session identifies one simulation run for the session recorder.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime,omitempty"`
	Seed      int64     `json:"seed"`
}

// ConsumptionSample is one fuel-flow reading taken while a truck is actively
// delivering.
type ConsumptionSample struct {
	Timestamp time.Time   `json:"timestamp"`
	TruckID   string      `json:"truckId"`
	FuelFlow  float64     `json:"fuelFlow"`
	Status    TruckStatus `json:"status"`
}

// AppendTrail appends a trail point, evicting the oldest beyond TrailCap.
func (t *Truck) AppendTrail(p TrailPoint) {
	t.Trail = append(t.Trail, p)
	if len(t.Trail) > TrailCap {
		t.Trail = t.Trail[len(t.Trail)-TrailCap:]
	}
}

// AppendLog appends a log entry, evicting the oldest beyond TruckLogCap.
func (t *Truck) AppendLog(now time.Time, msg string) {
	t.Logs = append(t.Logs, LogEntry{Timestamp: now, Message: msg})
	if len(t.Logs) > TruckLogCap {
		t.Logs = t.Logs[len(t.Logs)-TruckLogCap:]
	}
}

// AppendDeliveryLog appends a milestone entry to a compartment's delivery log.
func (c *Compartment) AppendDeliveryLog(now time.Time, msg string) {
	c.DeliveryLog = append(c.DeliveryLog, LogEntry{Timestamp: now, Message: msg})
	if len(c.DeliveryLog) > DeliveryLogCap {
		c.DeliveryLog = c.DeliveryLog[len(c.DeliveryLog)-DeliveryLogCap:]
	}
}

// Clone returns a deep copy of the truck, safe to hand to readers while the
// engine keeps mutating the original.
func (t *Truck) Clone() Truck {
	out := *t
	out.Compartments = make([]Compartment, len(t.Compartments))
	for i, c := range t.Compartments {
		out.Compartments[i] = c
		out.Compartments[i].DeliveryLog = append([]LogEntry(nil), c.DeliveryLog...)
	}
	out.Trail = append([]TrailPoint(nil), t.Trail...)
	out.Logs = append([]LogEntry(nil), t.Logs...)
	if t.Destination != nil {
		d := *t.Destination
		out.Destination = &d
	}
	if t.StartPoint != nil {
		s := *t.StartPoint
		out.StartPoint = &s
	}
	if t.CurrentAssignment != nil {
		a := *t.CurrentAssignment
		a.CompartmentTargets = make(map[string]float64, len(t.CurrentAssignment.CompartmentTargets))
		for k, v := range t.CurrentAssignment.CompartmentTargets {
			a.CompartmentTargets[k] = v
		}
		out.CurrentAssignment = &a
	}
	if t.LastTripSummary != nil {
		s := *t.LastTripSummary
		out.LastTripSummary = &s
	}
	return out
}
