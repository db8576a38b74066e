package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/rng"
)

// drainCompartments offloads fuel from every active compartment for one tick
// and returns the total liters drained. A compartment never drains below its
// reserve floor, and an offload finishes when it hits either the target or
// that floor.
func drainCompartments(t *model.Truck, now time.Time, r rng.Source, p Params, ev *Events) float64 {
	var total float64
	for i := range t.Compartments {
		c := &t.Compartments[i]
		if !c.IsOffloading || c.CurrentLevel <= 0 || c.DeliveredLiters >= c.TargetDelivery {
			continue
		}
		reserve := p.ReserveFraction * c.CapacityLiters
		rate := r.Range(p.DrainMinLiters, p.DrainMaxLiters)
		drain := math.Min(rate, math.Min(c.TargetDelivery-c.DeliveredLiters, c.CurrentLevel-reserve))
		if drain > 0 {
			c.CurrentLevel -= drain
			c.DeliveredLiters += drain
			total += drain
		}
		if c.DeliveredLiters >= c.TargetDelivery || c.CurrentLevel <= reserve {
			finishOffload(t, c, now, r, p, ev)
		}
	}
	return total
}

// finishOffload closes a compartment's offload and rolls the stochastic
// shrinkage loss. Losses accumulate on the assignment and surface in the
// trip summary; large ones also raise an alert immediately.
func finishOffload(t *model.Truck, c *model.Compartment, now time.Time, r rng.Source, p Params, ev *Events) {
	c.IsOffloading = false
	c.AppendDeliveryLog(now, fmt.Sprintf("Offload complete: %s of %s target",
		litersf(c.DeliveredLiters), litersf(c.TargetDelivery)))

	if r.Float64() >= p.LossInjectProb {
		return
	}
	lossPct := r.Range(0.5, 2.5)
	lossLiters := math.Round(c.TargetDelivery * lossPct / 100)
	if lossLiters <= 0 {
		return
	}
	if t.CurrentAssignment != nil {
		t.CurrentAssignment.ProvisionalLossLiters += lossLiters
	}
	t.AppendLog(now, fmt.Sprintf("Compartment %s metered short by %s (%.1f%%)", c.ID, litersf(lossLiters), lossPct))
	if lossLiters > 10 || lossPct > 1 {
		sev := model.SeverityLow
		if lossPct > 2 {
			sev = model.SeverityMedium
		}
		ev.addAlert(now, t, model.AlertLoss, sev,
			fmt.Sprintf("%s compartment %s short by %s (%.1f%% of target)", t.Name, c.ID, litersf(lossLiters), lossPct))
	}
}
