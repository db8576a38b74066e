package sim

import (
	"math"
	"time"

	"github.com/fueltrace/fleetsim/internal/geo"
	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/rng"
)

// refreshTelemetry updates the per-tick sensor readings after the state
// machine ran. Incident handlers may have pinned tilt or forced the truck
// offline; those values win over the random walk.
func refreshTelemetry(t *model.Truck, now time.Time, r rng.Source, p Params, drained float64, tiltForced, offlineForced bool) {
	t.SpeedKmh = math.Max(0, t.SpeedKmh+r.Range(-5, 5))
	if !tiltForced {
		t.TiltDeg = math.Max(0, t.TiltDeg+r.Range(-1, 1))
	}

	online := r.Float64() < p.OnlineProb
	if offlineForced {
		online = false
	}
	t.Online = online

	if t.Status == model.StatusDelivering {
		if drained > 0 {
			t.FuelFlow = drained
		} else {
			t.FuelFlow = r.Range(10, 60)
		}
	} else {
		t.FuelFlow = 0
	}

	t.AppendTrail(model.TrailPoint{LatLng: t.Position, Timestamp: now})
	if n := len(t.Trail); n >= 2 {
		t.Heading = geo.Heading(t.Trail[n-2].LatLng, t.Trail[n-1].LatLng)
	}
	t.LastUpdate = now
}
