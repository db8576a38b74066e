package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fueltrace/fleetsim/internal/channel"
	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/rng"
	"github.com/fueltrace/fleetsim/internal/stream"
	"github.com/fueltrace/fleetsim/internal/zones"
)

var (
	// ErrTruckNotFound is returned by commands that address an unknown truck.
	ErrTruckNotFound = errors.New("truck not found")
	// ErrZoneNotAssignable is returned when a trip targets an unknown zone
	// or a danger zone.
	ErrZoneNotAssignable = errors.New("zone not assignable")
)

// Recorder receives a copy of everything the engine appends to its streams.
// Implementations must not block; the engine calls them from the tick
// goroutine while holding its lock.
type Recorder interface {
	RecordAlert(model.Alert)
	RecordLossEntry(model.FuelLossEntry)
	RecordConsumption(model.ConsumptionSample)
	RecordTruckSnapshot(model.Truck)
}

// Config assembles an Engine. Zero-value fields fall back to defaults.
type Config struct {
	Params     Params
	Rand       rng.Source
	Logger     *slog.Logger
	Recorder   Recorder
	FeedBuffer int
}

// Engine is the fleet simulation core. One mutex serializes tick advance,
// commands and snapshot reads; everything handed out is a deep copy.
type Engine struct {
	mu     sync.Mutex
	params Params
	rand   rng.Source
	logger *slog.Logger

	trucks []*model.Truck
	byID   map[string]*model.Truck

	alerts      *stream.Bounded[model.Alert]
	lossHistory *stream.Bounded[model.FuelLossEntry]
	consumption *stream.Bounded[model.ConsumptionSample]
	alertFeed   channel.Channel[model.Alert]

	recorder Recorder

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}

	tickCount    uint64
	lastTickDur  time.Duration
	ticksMetric  metric.Int64Counter
	alertsMetric metric.Int64Counter
	tripsMetric  metric.Int64Counter
	tickDurMs    metric.Float64Histogram
}

// New builds an Engine with the seed fleet.
func New(cfg Config) (*Engine, error) {
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}
	if cfg.Rand == nil {
		cfg.Rand = rng.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.FeedBuffer <= 0 {
		cfg.FeedBuffer = 64
	}

	e := &Engine{
		params:      cfg.Params,
		rand:        cfg.Rand,
		logger:      cfg.Logger,
		byID:        make(map[string]*model.Truck),
		alerts:      stream.NewBounded[model.Alert](model.AlertCap),
		lossHistory: stream.NewBounded[model.FuelLossEntry](model.LossHistoryCap),
		consumption: stream.NewBounded[model.ConsumptionSample](model.ConsumptionCap),
		alertFeed:   channel.NewFeed[model.Alert](cfg.FeedBuffer),
		recorder:    cfg.Recorder,
	}
	for _, t := range seedFleet() {
		e.trucks = append(e.trucks, t)
		e.byID[t.ID] = t
	}

	m := meter()
	var err error
	e.ticksMetric, err = m.Int64Counter(
		"fleetsim.ticks",
		metric.WithDescription("Total simulation ticks advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	e.alertsMetric, err = m.Int64Counter(
		"fleetsim.alerts.raised",
		metric.WithDescription("Total alerts raised by the engine"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating alert counter: %w", err)
	}
	e.tripsMetric, err = m.Int64Counter(
		"fleetsim.trips.completed",
		metric.WithDescription("Total delivery trips completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trip counter: %w", err)
	}
	e.tickDurMs, err = m.Float64Histogram(
		"fleetsim.tick.duration_ms",
		metric.WithDescription("Wall time of a full fleet tick in milliseconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	return e, nil
}

// Start runs the fixed-interval tick loop until ctx is canceled or Stop is
// called. It returns immediately; the loop runs on its own goroutine.
// Calling Start on a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	stop, done := e.stopChan, e.doneChan
	interval := e.params.TickInterval
	e.mu.Unlock()

	e.logger.Info("simulation started", "trucks", len(e.trucks), "tickInterval", interval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				e.logger.Info("simulation stopping", "reason", "context canceled")
				return
			case <-stop:
				e.logger.Info("simulation stopping", "reason", "stop requested")
				return
			case now := <-ticker.C:
				e.Advance(now)
			}
		}
	}()
}

// Stop halts the tick loop and waits for the in-flight tick to finish.
// Safe to call multiple times.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	stop, done := e.stopChan, e.doneChan
	e.mu.Unlock()

	close(stop)
	<-done
}

// Advance runs one full fleet tick at the given time. Exported so the
// command-line driver and tests can step the simulation without the ticker.
func (e *Engine) Advance(now time.Time) {
	start := time.Now()

	e.mu.Lock()
	var batch Events
	for _, t := range e.trucks {
		prev := t.Status
		ev := advanceTruck(t, now, e.rand, e.params)
		batch.merge(ev)
		if prev == model.StatusDelivering && t.Status == model.StatusCompleted {
			e.tripsMetric.Add(context.Background(), 1)
			if e.recorder != nil {
				e.recorder.RecordTruckSnapshot(t.Clone())
			}
		}
	}
	for _, a := range batch.Alerts {
		e.alerts.Push(a)
		e.alertFeed.Send(a)
		if e.recorder != nil {
			e.recorder.RecordAlert(a)
		}
	}
	for _, l := range batch.LossEntries {
		e.lossHistory.Push(l)
		if e.recorder != nil {
			e.recorder.RecordLossEntry(l)
		}
	}
	for _, s := range batch.Samples {
		e.consumption.Push(s)
		if e.recorder != nil {
			e.recorder.RecordConsumption(s)
		}
	}
	e.tickCount++
	e.lastTickDur = time.Since(start)
	dur := e.lastTickDur
	e.mu.Unlock()

	e.ticksMetric.Add(context.Background(), 1)
	if n := len(batch.Alerts); n > 0 {
		e.alertsMetric.Add(context.Background(), int64(n))
	}
	e.tickDurMs.Record(context.Background(), float64(dur)/float64(time.Millisecond),
		metric.WithAttributes(attribute.Int("trucks", len(e.trucks))))

	for _, a := range batch.Alerts {
		e.logger.Warn("alert raised",
			"alertId", a.ID, "type", a.Type, "severity", a.Severity,
			"truckId", a.TruckID, "message", a.Message)
	}
}

// AssignTrip dispatches a truck toward an assignable zone. Assigning a
// non-idle truck overwrites its current state with a warning; the previous
// assignment is discarded.
func (e *Engine) AssignTrip(truckID, zoneID string) error {
	z, ok := zones.ByID(zoneID)
	if !ok || z.Type == model.ZoneDanger {
		return fmt.Errorf("%w: %s", ErrZoneNotAssignable, zoneID)
	}
	dest, err := zones.Destination(z)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.byID[truckID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTruckNotFound, truckID)
	}
	if t.Status != model.StatusIdle {
		e.logger.Warn("assigning non-idle truck, discarding current state",
			"truckId", truckID, "status", t.Status, "zone", zoneID)
		for i := range t.Compartments {
			c := &t.Compartments[i]
			c.IsOffloading = false
			c.TargetDelivery = 0
			c.DeliveredLiters = 0
		}
		t.CurrentAssignment = nil
	}

	t.Status = model.StatusAssigned
	t.Destination = &dest
	t.StartPoint = &model.Waypoint{LatLng: t.Position, Name: "Start"}
	t.AppendLog(time.Now().UTC(), fmt.Sprintf("Trip assigned to %s", dest.Name))
	e.logger.Info("trip assigned", "truckId", truckID, "zone", zoneID, "destination", dest.Name)
	return nil
}

// AcknowledgeAlert marks an alert acknowledged. Unknown IDs and repeat
// acknowledgements are no-ops.
func (e *Engine) AcknowledgeAlert(alertID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	found := false
	e.alerts.Mutate(func(a *model.Alert) {
		if a.ID == alertID {
			a.Acknowledged = true
			found = true
		}
	})
	if !found {
		e.logger.Debug("acknowledge for unknown alert", "alertId", alertID)
	}
}

// Trucks returns a deep copy of the fleet in seed order.
func (e *Engine) Trucks() []model.Truck {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Truck, len(e.trucks))
	for i, t := range e.trucks {
		out[i] = t.Clone()
	}
	return out
}

// Truck returns a deep copy of one truck.
func (e *Engine) Truck(id string) (model.Truck, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.byID[id]
	if !ok {
		return model.Truck{}, fmt.Errorf("%w: %s", ErrTruckNotFound, id)
	}
	return t.Clone(), nil
}

// Alerts returns the alert window newest first.
func (e *Engine) Alerts() []model.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alerts.ItemsNewestFirst()
}

// FuelLossHistory returns the loss ledger oldest first.
func (e *Engine) FuelLossHistory() []model.FuelLossEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lossHistory.Items()
}

// FuelConsumption returns the consumption samples oldest first.
func (e *Engine) FuelConsumption() []model.ConsumptionSample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumption.Items()
}

// AlertFeed exposes the live alert channel. The feed drops its oldest
// pending alert when a subscriber falls behind.
func (e *Engine) AlertFeed() <-chan model.Alert {
	return e.alertFeed.Receive()
}

// Status summarizes the engine for monitoring.
type Status struct {
	TickCount        uint64                    `json:"tickCount"`
	LastTickDuration time.Duration             `json:"lastTickDuration"`
	Trucks           int                       `json:"trucks"`
	ByStatus         map[model.TruckStatus]int `json:"byStatus"`
	AlertCount       int                       `json:"alertCount"`
	LossEntryCount   int                       `json:"lossEntryCount"`
	SampleCount      int                       `json:"sampleCount"`
	Running          bool                      `json:"running"`
}

// Status returns a point-in-time summary of the engine.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{
		TickCount:        e.tickCount,
		LastTickDuration: e.lastTickDur,
		Trucks:           len(e.trucks),
		ByStatus:         make(map[model.TruckStatus]int),
		AlertCount:       e.alerts.Len(),
		LossEntryCount:   e.lossHistory.Len(),
		SampleCount:      e.consumption.Len(),
		Running:          e.running,
	}
	for _, t := range e.trucks {
		s.ByStatus[t.Status]++
	}
	return s
}
