// Package storage defines the session recorder: a sink for everything the
// engine emits during one simulation run, exportable for later diagnosis.
package storage

import (
	"github.com/fueltrace/fleetsim/internal/model"
)

// Backend is the interface all session recorders must satisfy. The Record
// methods mirror sim.Recorder and must not block.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *model.Session) error
	EndSession() error

	// Event recording
	RecordAlert(a model.Alert)
	RecordLossEntry(e model.FuelLossEntry)
	RecordConsumption(c model.ConsumptionSample)
	RecordTruckSnapshot(t model.Truck)
}

// Exportable is an optional interface for backends that produce a session
// file on EndSession.
type Exportable interface {
	LastExportPath() string
}
