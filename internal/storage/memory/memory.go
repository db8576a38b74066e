// Package memory stores one session's event log in memory and exports it to
// a JSON file when the session ends.
package memory

import (
	"sync"

	"github.com/fueltrace/fleetsim/internal/config"
	"github.com/fueltrace/fleetsim/internal/model"
)

// Backend accumulates session events in memory and exports to JSON.
type Backend struct {
	cfg     config.StorageConfig
	session *model.Session

	alerts      []model.Alert
	lossEntries []model.FuelLossEntry
	consumption []model.ConsumptionSample
	snapshots   []model.Truck

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.StorageConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session, discarding any prior data.
func (b *Backend) StartSession(s *model.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = s
	b.alerts = nil
	b.lossEntries = nil
	b.consumption = nil
	b.snapshots = nil
	return nil
}

// EndSession finalizes and exports the session data.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return nil
	}
	return b.exportJSON()
}

// RecordAlert stores an alert.
func (b *Backend) RecordAlert(a model.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, a)
}

// RecordLossEntry stores a fuel loss ledger entry.
func (b *Backend) RecordLossEntry(e model.FuelLossEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lossEntries = append(b.lossEntries, e)
}

// RecordConsumption stores a consumption sample.
func (b *Backend) RecordConsumption(c model.ConsumptionSample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumption = append(b.consumption, c)
}

// RecordTruckSnapshot stores a truck snapshot taken at trip completion.
func (b *Backend) RecordTruckSnapshot(t model.Truck) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, t)
}

// LastExportPath returns the path of the most recent export, if any.
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
