// Package monitor runs the periodic engine status reporter: a JSON status
// file on disk plus an engine_performance point in InfluxDB when the sink
// is connected.
package monitor

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/fueltrace/fleetsim/internal/influx"
	"github.com/fueltrace/fleetsim/internal/logging"
	"github.com/fueltrace/fleetsim/internal/sim"
)

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Engine     *sim.Engine
	LogManager *logging.SlogManager
	Influx     *influx.Manager
	StatusFile string
	Interval   time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(s.deps.StatusFile)
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer func() {
			if statusFile != nil {
				statusFile.Close()
			}
		}()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case now := <-ticker.C:
				status := s.deps.Engine.Status()

				if statusFile != nil {
					data, err := json.MarshalIndent(status, "", "  ")
					if err == nil {
						statusFile.Truncate(0)
						statusFile.Seek(0, 0)
						statusFile.Write(data)
						statusFile.WriteString("\n")
					}
				}

				if s.deps.Influx != nil && s.deps.Influx.IsValid {
					point := influx.StatusPoint(status, now)
					if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketPerformance, point); err != nil {
						logger.Error("Error writing status point", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		s.isRunning = false
		close(s.stopChan)
	}
}
