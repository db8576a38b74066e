package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/rng"
)

// rollIncidents draws the per-tick incident probabilities for a delivering
// truck. Each incident is an independent Bernoulli trial; several can fire
// on the same tick.
func rollIncidents(t *model.Truck, now time.Time, r rng.Source, p Params, ev *Events, tiltForced *bool) {
	if r.Float64() < p.TheftProb {
		rollTheft(t, now, r, ev)
	}
	if r.Float64() < p.ValveFaultProb {
		t.ValveOpen = false
		ev.addAlert(now, t, model.AlertValve, model.SeverityMedium,
			fmt.Sprintf("%s valve closed unexpectedly mid-delivery", t.Name))
		t.AppendLog(now, "Valve fault: closed during offload")
	}
	if r.Float64() < p.TiltProb {
		t.TiltDeg = r.Range(10, 15)
		*tiltForced = true
		ev.addAlert(now, t, model.AlertTilt, model.SeverityMedium,
			fmt.Sprintf("%s tilt %.1f deg exceeds safe threshold", t.Name, t.TiltDeg))
		t.AppendLog(now, fmt.Sprintf("Excessive tilt detected: %.1f deg", t.TiltDeg))
	}
}

// rollTheft siphons fuel from a random compartment that is currently
// offloading. No-op when none is.
func rollTheft(t *model.Truck, now time.Time, r rng.Source, ev *Events) {
	var open []int
	for i := range t.Compartments {
		if t.Compartments[i].IsOffloading {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return
	}
	c := &t.Compartments[open[r.IntN(len(open))]]
	amount := r.Range(50, 100)
	c.CurrentLevel = math.Max(0, c.CurrentLevel-amount)
	ev.addAlert(now, t, model.AlertTheft, model.SeverityHigh,
		fmt.Sprintf("Suspected theft on %s: %s vanished from compartment %s", t.Name, litersf(amount), c.ID))
	t.AppendLog(now, fmt.Sprintf("Unexplained level drop of %s in compartment %s", litersf(amount), c.ID))
}

// rollAmbientAlert raises low-grade background noise so the alert feed stays
// realistic even on a quiet fleet.
func rollAmbientAlert(t *model.Truck, now time.Time, r rng.Source, ev *Events) {
	types := []model.AlertType{model.AlertTheft, model.AlertTampering, model.AlertTilt, model.AlertValve}
	typ := types[r.IntN(len(types))]

	sev := model.SeverityLow
	switch roll := r.Float64(); {
	case roll < 0.3:
		sev = model.SeverityHigh
	case roll < 0.6:
		sev = model.SeverityMedium
	}

	var msg string
	switch typ {
	case model.AlertTheft:
		msg = fmt.Sprintf("Irregular level fluctuation on %s", t.Name)
	case model.AlertTampering:
		msg = fmt.Sprintf("Seal sensor anomaly on %s", t.Name)
	case model.AlertTilt:
		msg = fmt.Sprintf("Brief tilt spike on %s", t.Name)
	default:
		msg = fmt.Sprintf("Valve chatter detected on %s", t.Name)
	}
	ev.addAlert(now, t, typ, sev, msg)
}
