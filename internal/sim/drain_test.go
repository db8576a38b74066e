package sim

import (
	"testing"

	"github.com/fueltrace/fleetsim/internal/model"
)

func deliveringTruck() *model.Truck {
	tr := testTruck()
	tr.Status = model.StatusDelivering
	tr.Destination = &model.Waypoint{LatLng: model.LatLng{Lat: 23.50, Lng: 58.40}}
	tr.CurrentAssignment = &model.Assignment{AssignedLiters: 5000, StartTime: tickTime}
	return tr
}

func TestDrainStopsAtTarget(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 25 // below the midpoint rate of 40

	var ev Events
	drained := drainCompartments(tr, tickTime, &scriptSource{}, DefaultParams(), &ev)

	if drained != 25 {
		t.Errorf("drained = %f, want 25", drained)
	}
	c := tr.Compartments[0]
	if c.DeliveredLiters != 25 {
		t.Errorf("delivered = %f, want 25", c.DeliveredLiters)
	}
	if c.IsOffloading {
		t.Error("offload should be finished at target")
	}
	if c.CurrentLevel != 9000-25 {
		t.Errorf("level = %f, want %f", c.CurrentLevel, 9000-25.0)
	}
}

func TestDrainRespectsReserveFloor(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[0].CurrentLevel = 460 // reserve floor is 450 for a 9000 L tank
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 500

	var ev Events
	drained := drainCompartments(tr, tickTime, &scriptSource{}, DefaultParams(), &ev)

	if drained != 10 {
		t.Errorf("drained = %f, want 10 (level minus reserve)", drained)
	}
	c := tr.Compartments[0]
	if c.CurrentLevel != 450 {
		t.Errorf("level = %f, want reserve floor 450", c.CurrentLevel)
	}
	if c.IsOffloading {
		t.Error("offload should finish at the reserve floor")
	}
}

func TestDrainSkipsInactiveCompartments(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[1].TargetDelivery = 500 // not offloading

	var ev Events
	drained := drainCompartments(tr, tickTime, &scriptSource{}, DefaultParams(), &ev)

	if drained != 0 {
		t.Errorf("drained = %f, want 0", drained)
	}
	if tr.Compartments[1].DeliveredLiters != 0 {
		t.Error("inactive compartment drained")
	}
}

func TestLossInjectionOnOffloadCompletion(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 2000
	tr.Compartments[0].DeliveredLiters = 1980
	tr.Compartments[0].CurrentLevel = 7020

	// First float feeds the injection roll; the 1.5% midpoint of the loss
	// range then yields round(2000 * 0.015) = 30 liters.
	r := &scriptSource{floats: []float64{0.1}}
	var ev Events
	drainCompartments(tr, tickTime, r, DefaultParams(), &ev)

	if tr.CurrentAssignment.ProvisionalLossLiters != 30 {
		t.Errorf("provisional loss = %f, want 30", tr.CurrentAssignment.ProvisionalLossLiters)
	}
	if len(ev.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(ev.Alerts))
	}
	a := ev.Alerts[0]
	if a.Type != model.AlertLoss || a.Severity != model.SeverityLow {
		t.Errorf("alert = %s/%s, want loss/low", a.Type, a.Severity)
	}
}

func TestNoLossWhenRollMisses(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 2000
	tr.Compartments[0].DeliveredLiters = 1980
	tr.Compartments[0].CurrentLevel = 7020

	// Default draw of 0.5 misses the 30% injection probability.
	var ev Events
	drainCompartments(tr, tickTime, &scriptSource{}, DefaultParams(), &ev)

	if tr.CurrentAssignment.ProvisionalLossLiters != 0 {
		t.Errorf("provisional loss = %f, want 0", tr.CurrentAssignment.ProvisionalLossLiters)
	}
	if len(ev.Alerts) != 0 {
		t.Errorf("unexpected alerts: %+v", ev.Alerts)
	}
}

func TestTheftIncidentDrainsCompartment(t *testing.T) {
	tr := deliveringTruck()
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 5000
	tr.Compartments[0].CurrentLevel = 8000

	// Delivering tick draw order: drain rate (Range), then theft roll.
	r := &scriptSource{floats: []float64{0.001}}
	ev := advanceTruck(tr, tickTime, r, DefaultParams())

	// Drained 40 at the midpoint rate, then 75 siphoned by theft.
	if tr.Compartments[0].CurrentLevel != 8000-40-75 {
		t.Errorf("level = %f, want %f", tr.Compartments[0].CurrentLevel, 8000-40-75.0)
	}
	var theft *model.Alert
	for i := range ev.Alerts {
		if ev.Alerts[i].Type == model.AlertTheft {
			theft = &ev.Alerts[i]
		}
	}
	if theft == nil {
		t.Fatal("no theft alert raised")
	}
	if theft.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", theft.Severity)
	}
}

func TestValveAndTiltIncidents(t *testing.T) {
	tr := deliveringTruck()
	tr.ValveOpen = true
	tr.Compartments[0].IsOffloading = true
	tr.Compartments[0].TargetDelivery = 5000

	// Theft misses, valve and tilt fire.
	r := &scriptSource{floats: []float64{0.9, 0.001, 0.001}}
	ev := advanceTruck(tr, tickTime, r, DefaultParams())

	if tr.ValveOpen {
		t.Error("valve fault should close the valve")
	}
	// Tilt pinned by the incident, not the random walk.
	if tr.TiltDeg != 12.5 {
		t.Errorf("tilt = %f, want 12.5", tr.TiltDeg)
	}
	types := map[model.AlertType]bool{}
	for _, a := range ev.Alerts {
		types[a.Type] = true
	}
	if !types[model.AlertValve] || !types[model.AlertTilt] {
		t.Errorf("missing incident alerts, got %v", types)
	}
}

func TestOfflineIncidentWhileUplifting(t *testing.T) {
	tr := testTruck()
	tr.Status = model.StatusUplifting
	tr.Compartments[0].CurrentLevel = 5000

	// The first float after the refill loop is the offline roll.
	r := &scriptSource{floats: []float64{0.0005}}
	ev := advanceTruck(tr, tickTime, r, DefaultParams())

	if tr.Online {
		t.Error("truck should be forced offline")
	}
	if len(ev.Alerts) != 1 || ev.Alerts[0].Type != model.AlertOffline {
		t.Fatalf("alerts = %+v, want one offline alert", ev.Alerts)
	}
	if ev.Alerts[0].Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", ev.Alerts[0].Severity)
	}
}

func TestAmbientAlert(t *testing.T) {
	tr := testTruck()

	// Ambient roll hits, severity roll lands in the high band.
	r := &scriptSource{floats: []float64{0.005, 0.2}}
	ev := advanceTruck(tr, tickTime, r, DefaultParams())

	if len(ev.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(ev.Alerts))
	}
	a := ev.Alerts[0]
	if a.Type != model.AlertTheft {
		t.Errorf("type = %s, want theft (first ambient type)", a.Type)
	}
	if a.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", a.Severity)
	}
	if a.TruckID != tr.ID {
		t.Errorf("truckId = %s, want %s", a.TruckID, tr.ID)
	}
}
