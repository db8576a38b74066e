package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fueltrace/fleetsim/internal/model"
)

// Events collects everything a single truck produced during one tick that
// belongs to fleet-wide streams rather than to the truck itself. The tick
// functions mutate the truck in place but only ever append to an Events
// value; the engine merges batches into its bounded streams afterwards,
// under its own lock.
type Events struct {
	Alerts      []model.Alert
	LossEntries []model.FuelLossEntry
	Samples     []model.ConsumptionSample
}

func (e *Events) addAlert(now time.Time, t *model.Truck, typ model.AlertType, sev model.AlertSeverity, msg string) {
	e.Alerts = append(e.Alerts, model.Alert{
		ID:        uuid.NewString(),
		Type:      typ,
		Severity:  sev,
		Message:   msg,
		Timestamp: now,
		TruckID:   t.ID,
		Location:  t.Position,
	})
}

func (e *Events) merge(other Events) {
	e.Alerts = append(e.Alerts, other.Alerts...)
	e.LossEntries = append(e.LossEntries, other.LossEntries...)
	e.Samples = append(e.Samples, other.Samples...)
}

func litersf(v float64) string {
	return fmt.Sprintf("%.0f L", v)
}
