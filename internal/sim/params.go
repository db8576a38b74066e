package sim

import "time"

// Params bundles the tunable constants of the simulation. Values not set by
// configuration fall back to DefaultParams.
type Params struct {
	// TickInterval is the fixed period of the simulation clock.
	TickInterval time.Duration

	// Assigned delivery totals are drawn uniformly from this range (liters).
	MinAssignedLiters float64
	MaxAssignedLiters float64

	// Per-tick compartment drain rate range (liters).
	DrainMinLiters float64
	DrainMaxLiters float64

	// Per-tick compartment refill increment range while uplifting (liters).
	RefillMinLiters float64
	RefillMaxLiters float64

	// ArrivalThresholdDeg is the planar degree-space distance at which a
	// delivering truck is considered to have reached its destination.
	// Deliberately not a geodesic distance; see the geo package notes.
	ArrivalThresholdDeg float64

	// MoveFraction is the share of the remaining vector covered per tick.
	MoveFraction float64

	// ReserveFraction of capacity is never drained from a compartment.
	ReserveFraction float64

	// MinAvailabilityFraction: compartments at or below this fill fraction
	// are excluded from delivery allocation.
	MinAvailabilityFraction float64

	// RefillTriggerFraction / RefillTargetFraction bound the uplifting
	// state: compartments below the trigger keep refilling, and the truck
	// returns to idle once all compartments reach the target.
	RefillTriggerFraction float64
	RefillTargetFraction  float64

	// Incident probabilities, independent Bernoulli draws per tick.
	TheftProb      float64
	ValveFaultProb float64
	TiltProb       float64
	OfflineProb    float64
	AmbientProb    float64

	// LossInjectProb is the chance a completed compartment offload records
	// a shrinkage loss.
	LossInjectProb float64

	// OnlineProb is the per-tick probability a truck reports online.
	OnlineProb float64

	// LossAlertPercent: trips whose loss percentage exceeds this raise an
	// alert at completion.
	LossAlertPercent float64
}

// DefaultParams returns the production parameter set.
func DefaultParams() Params {
	return Params{
		TickInterval:            1500 * time.Millisecond,
		MinAssignedLiters:       2500,
		MaxAssignedLiters:       5000,
		DrainMinLiters:          20,
		DrainMaxLiters:          60,
		RefillMinLiters:         40,
		RefillMaxLiters:         80,
		ArrivalThresholdDeg:     0.005,
		MoveFraction:            0.01,
		ReserveFraction:         0.05,
		MinAvailabilityFraction: 0.10,
		RefillTriggerFraction:   0.98,
		RefillTargetFraction:    0.95,
		TheftProb:               0.005,
		ValveFaultProb:          0.003,
		TiltProb:                0.002,
		OfflineProb:             0.001,
		AmbientProb:             0.01,
		LossInjectProb:          0.30,
		OnlineProb:              0.95,
		LossAlertPercent:        2.5,
	}
}
