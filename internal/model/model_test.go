package model

import (
	"fmt"
	"testing"
	"time"
)

func TestAppendTrailBounded(t *testing.T) {
	tr := &Truck{}
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < TrailCap+5; i++ {
		tr.AppendTrail(TrailPoint{
			LatLng:    LatLng{Lat: float64(i)},
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	if len(tr.Trail) != TrailCap {
		t.Fatalf("trail len = %d, want %d", len(tr.Trail), TrailCap)
	}
	if tr.Trail[0].Lat != 5 {
		t.Errorf("oldest surviving point lat = %f, want 5", tr.Trail[0].Lat)
	}
	if tr.Trail[len(tr.Trail)-1].Lat != float64(TrailCap+4) {
		t.Errorf("newest point lat = %f, want %d", tr.Trail[len(tr.Trail)-1].Lat, TrailCap+4)
	}
}

func TestAppendLogBounded(t *testing.T) {
	tr := &Truck{}
	now := time.Now()

	for i := 0; i < TruckLogCap+3; i++ {
		tr.AppendLog(now, fmt.Sprintf("entry %d", i))
	}

	if len(tr.Logs) != TruckLogCap {
		t.Fatalf("logs len = %d, want %d", len(tr.Logs), TruckLogCap)
	}
	if tr.Logs[0].Message != "entry 3" {
		t.Errorf("oldest surviving log = %q, want 'entry 3'", tr.Logs[0].Message)
	}
}

func TestAppendDeliveryLogBounded(t *testing.T) {
	c := &Compartment{}
	now := time.Now()

	for i := 0; i < DeliveryLogCap+2; i++ {
		c.AppendDeliveryLog(now, fmt.Sprintf("milestone %d", i))
	}

	if len(c.DeliveryLog) != DeliveryLogCap {
		t.Fatalf("delivery log len = %d, want %d", len(c.DeliveryLog), DeliveryLogCap)
	}
}

func TestClone(t *testing.T) {
	now := time.Now()
	dest := &Waypoint{LatLng: LatLng{Lat: 23.6, Lng: 58.4}, Name: "Al Khuwair Fuel Station"}
	orig := &Truck{
		ID:          "TRK-001",
		Status:      StatusDelivering,
		Destination: dest,
		Compartments: []Compartment{
			{ID: "A", CurrentLevel: 8000, DeliveryLog: []LogEntry{{Timestamp: now, Message: "start"}}},
		},
		Trail: []TrailPoint{{LatLng: LatLng{Lat: 23.6}}},
		Logs:  []LogEntry{{Timestamp: now, Message: "log"}},
		CurrentAssignment: &Assignment{
			AssignedLiters:     3750,
			CompartmentTargets: map[string]float64{"A": 3750},
		},
		LastTripSummary: &TripSummary{AssignedLiters: 1000},
	}

	clone := orig.Clone()

	clone.Compartments[0].CurrentLevel = 1
	clone.Compartments[0].DeliveryLog[0].Message = "changed"
	clone.Trail[0].Lat = 0
	clone.Logs[0].Message = "changed"
	clone.Destination.Name = "changed"
	clone.CurrentAssignment.CompartmentTargets["A"] = 1
	clone.LastTripSummary.AssignedLiters = 1

	if orig.Compartments[0].CurrentLevel != 8000 {
		t.Error("compartment level shared with clone")
	}
	if orig.Compartments[0].DeliveryLog[0].Message != "start" {
		t.Error("delivery log shared with clone")
	}
	if orig.Trail[0].Lat != 23.6 {
		t.Error("trail shared with clone")
	}
	if orig.Logs[0].Message != "log" {
		t.Error("logs shared with clone")
	}
	if orig.Destination.Name != "Al Khuwair Fuel Station" {
		t.Error("destination shared with clone")
	}
	if orig.CurrentAssignment.CompartmentTargets["A"] != 3750 {
		t.Error("assignment targets shared with clone")
	}
	if orig.LastTripSummary.AssignedLiters != 1000 {
		t.Error("trip summary shared with clone")
	}
}

func TestCloneNilPointers(t *testing.T) {
	orig := &Truck{ID: "TRK-002"}
	clone := orig.Clone()

	if clone.Destination != nil || clone.StartPoint != nil ||
		clone.CurrentAssignment != nil || clone.LastTripSummary != nil {
		t.Error("nil pointers should stay nil in clone")
	}
}
