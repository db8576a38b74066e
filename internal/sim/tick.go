package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/rng"
)

// advanceTruck runs one simulation tick for a single truck and returns the
// fleet-level events it produced. The truck is mutated in place; callers
// must hold whatever lock guards it.
func advanceTruck(t *model.Truck, now time.Time, r rng.Source, p Params) Events {
	var ev Events
	var drained float64
	tiltForced := false
	offlineForced := false

	switch t.Status {
	case model.StatusIdle:
		// Parked trucks drift slightly so the map does not look frozen.
		t.Position.Lat += r.Range(-0.0002, 0.0002)
		t.Position.Lng += r.Range(-0.0002, 0.0002)

	case model.StatusAssigned:
		beginDelivery(t, now, r, p, &ev)

	case model.StatusDelivering:
		if t.Destination != nil && planarDistanceDeg(t.Position, t.Destination.LatLng) <= p.ArrivalThresholdDeg {
			completeTrip(t, now, p, &ev)
			break
		}
		moveTowardDestination(t, r, p)
		drained = drainCompartments(t, now, r, p, &ev)
		rollIncidents(t, now, r, p, &ev, &tiltForced)

	case model.StatusCompleted:
		for i := range t.Compartments {
			c := &t.Compartments[i]
			c.IsOffloading = false
			c.TargetDelivery = 0
			c.DeliveredLiters = 0
		}
		t.Status = model.StatusUplifting
		t.AppendLog(now, "Returning to depot for uplifting")

	case model.StatusUplifting:
		offlineForced = uplift(t, now, r, p, &ev)
	}

	// Ambient alert noise, independent of truck state.
	if r.Float64() < p.AmbientProb {
		rollAmbientAlert(t, now, r, &ev)
	}

	refreshTelemetry(t, now, r, p, drained, tiltForced, offlineForced)

	if t.Status == model.StatusDelivering && t.FuelFlow > 0 {
		ev.Samples = append(ev.Samples, model.ConsumptionSample{
			Timestamp: now,
			TruckID:   t.ID,
			FuelFlow:  t.FuelFlow,
			Status:    t.Status,
		})
	}
	return ev
}

// planarDistanceDeg is the Euclidean distance in raw degree space. Good
// enough as an arrival check at city scale and it keeps trips terminating
// deterministically regardless of latitude.
func planarDistanceDeg(a, b model.LatLng) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

func moveTowardDestination(t *model.Truck, r rng.Source, p Params) {
	d := t.Destination.LatLng
	t.Position.Lat += (d.Lat-t.Position.Lat)*p.MoveFraction + r.Range(-0.0002, 0.0002)
	t.Position.Lng += (d.Lng-t.Position.Lng)*p.MoveFraction + r.Range(-0.0002, 0.0002)
}

// beginDelivery allocates the trip total across compartments proportionally
// to their available fuel and moves the truck into the delivering state.
// Compartments at or below the minimum fill fraction are skipped, and the
// reserve floor is never part of the allocatable volume.
func beginDelivery(t *model.Truck, now time.Time, r rng.Source, p Params, ev *Events) {
	total := r.Range(p.MinAssignedLiters, p.MaxAssignedLiters)

	type slot struct {
		idx   int
		avail float64
	}
	var slots []slot
	var sumAvail float64
	for i := range t.Compartments {
		c := &t.Compartments[i]
		if c.CurrentLevel <= p.MinAvailabilityFraction*c.CapacityLiters {
			continue
		}
		avail := c.CurrentLevel - p.ReserveFraction*c.CapacityLiters
		if avail <= 0 {
			continue
		}
		slots = append(slots, slot{idx: i, avail: avail})
		sumAvail += avail
	}

	if len(slots) == 0 || sumAvail <= 0 {
		t.Status = model.StatusUplifting
		t.AppendLog(now, "Trip aborted: no compartment has allocatable fuel, heading to uplift")
		return
	}
	if total > sumAvail {
		total = sumAvail
	}

	targets := make(map[string]float64, len(slots))
	var assigned float64
	for _, s := range slots {
		c := &t.Compartments[s.idx]
		target := math.Round(total * s.avail / sumAvail)
		if target <= 0 {
			continue
		}
		c.TargetDelivery = target
		c.DeliveredLiters = 0
		c.IsOffloading = true
		c.AppendDeliveryLog(now, fmt.Sprintf("Offloading started, target %s", litersf(target)))
		targets[c.ID] = target
		assigned += target
	}

	t.CurrentAssignment = &model.Assignment{
		AssignedLiters:     assigned,
		StartTime:          now,
		CompartmentTargets: targets,
	}
	t.ValveOpen = true
	t.Status = model.StatusDelivering
	dest := "destination"
	if t.Destination != nil {
		dest = t.Destination.Name
	}
	t.AppendLog(now, fmt.Sprintf("Delivery started: %s across %d compartments toward %s",
		litersf(assigned), len(targets), dest))
}

// completeTrip finalizes the assignment, records the loss ledger entry and
// clears the in-progress assignment. Compartment flags are reset on the
// following tick by the completed state.
func completeTrip(t *model.Truck, now time.Time, p Params, ev *Events) {
	var delivered float64
	for i := range t.Compartments {
		delivered += t.Compartments[i].DeliveredLiters
	}

	var assigned, loss float64
	if a := t.CurrentAssignment; a != nil {
		assigned = a.AssignedLiters
		loss = a.ProvisionalLossLiters
	}
	pct := 0.0
	if assigned > 0 {
		pct = loss / assigned * 100
	}

	dest := "destination"
	if t.Destination != nil {
		dest = t.Destination.Name
	}
	t.LastTripSummary = &model.TripSummary{
		AssignedLiters:  assigned,
		DeliveredLiters: delivered,
		LossLiters:      loss,
		LossPercent:     pct,
		CompletedAt:     now,
	}
	t.CurrentAssignment = nil
	t.ValveOpen = false
	t.Status = model.StatusCompleted

	ev.LossEntries = append(ev.LossEntries, model.FuelLossEntry{
		Timestamp:       now,
		TruckID:         t.ID,
		AssignedLiters:  assigned,
		DeliveredLiters: delivered,
		LossLiters:      loss,
		LossPercent:     pct,
	})
	if pct > p.LossAlertPercent {
		ev.addAlert(now, t, model.AlertLoss, model.SeverityHigh,
			fmt.Sprintf("%s trip loss %.1f%% (%s of %s) at %s", t.Name, pct, litersf(loss), litersf(assigned), dest))
	}
	t.AppendLog(now, fmt.Sprintf("Delivery completed at %s: %s delivered of %s assigned, loss %s",
		dest, litersf(delivered), litersf(assigned), litersf(loss)))
}

// uplift refills compartments below the trigger fraction and flips the truck
// back to idle once every compartment reaches the target fraction. Returns
// true when an offline incident fired this tick.
func uplift(t *model.Truck, now time.Time, r rng.Source, p Params, ev *Events) bool {
	ready := true
	for i := range t.Compartments {
		if t.Compartments[i].CurrentLevel < p.RefillTargetFraction*t.Compartments[i].CapacityLiters {
			ready = false
			break
		}
	}
	if ready {
		t.Status = model.StatusIdle
		t.Destination = nil
		t.StartPoint = nil
		t.AppendLog(now, "Uplifting complete, ready for assignment")
		return false
	}

	for i := range t.Compartments {
		c := &t.Compartments[i]
		if c.CurrentLevel >= p.RefillTriggerFraction*c.CapacityLiters {
			continue
		}
		add := r.Range(p.RefillMinLiters, p.RefillMaxLiters)
		next := math.Min(c.CapacityLiters, c.CurrentLevel+add)
		if math.Floor(next/100) > math.Floor(c.CurrentLevel/100) {
			t.AppendLog(now, fmt.Sprintf("Compartment %s refilled past %s", c.ID, litersf(math.Floor(next/100)*100)))
		}
		c.CurrentLevel = next
	}

	if r.Float64() < p.OfflineProb {
		ev.addAlert(now, t, model.AlertOffline, model.SeverityHigh,
			fmt.Sprintf("%s lost telemetry link at depot", t.Name))
		t.AppendLog(now, "Telemetry link lost during uplifting")
		return true
	}
	return false
}
