// Package influx ships fleet telemetry, alerts and engine performance
// measurements to InfluxDB. When the server is unreachable the manager
// degrades to a gzip-compressed line-protocol backup file so no data is
// dropped.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/fueltrace/fleetsim/internal/config"
	"github.com/fueltrace/fleetsim/internal/logging"
	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/sim"
)

// Bucket names used by the engine.
const (
	BucketTelemetry   = "fleet_telemetry"
	BucketAlerts      = "fleet_alerts"
	BucketPerformance = "engine_performance"
)

// DefaultBucketNames are the InfluxDB buckets provisioned on connect.
var DefaultBucketNames = []string{
	BucketTelemetry,
	BucketAlerts,
	BucketPerformance,
}

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string

	// pointLog is burst-sampled so per-tick writes do not flood the ops log.
	pointLog zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		IsValid:     false,
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
		pointLog:    logging.NewSampledLogger(log),
	}
}

// Connect establishes a connection to InfluxDB. When the server cannot be
// reached the manager falls back to the gzip backup writer instead of
// failing.
func (m *Manager) Connect() error {
	if !config.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		config.Influx().URL(),
		config.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())

	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %w", err)
			}
			m.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		m.IsValid = true
	}

	if m.IsValid {
		if err := m.setupOrganizationAndBuckets(); err != nil {
			return err
		}
		m.CreateWriters()
		m.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

func (m *Manager) setupOrganizationAndBuckets() error {
	ctx := context.Background()
	orgName := config.GetString("influx.org")

	_, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		_, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Error().Err(err).Str("org", orgName).Msg("Error getting organization")
		return err
	}

	// buckets get a 90 day retention rule
	for _, bucket := range m.BucketNames {
		_, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket)
		if err != nil {
			m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

			rule := domain.RetentionRuleTypeExpire
			_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
				Type:         &rule,
				EverySeconds: 60 * 60 * 24 * 90,
			})
			if err != nil {
				m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
				return err
			}
		}
	}

	return nil
}

// CreateWriters creates write APIs for all configured buckets.
func (m *Manager) CreateWriters() {
	orgName := config.GetString("influx.org")
	for _, bucket := range m.BucketNames {
		m.Logger.Trace().Str("bucket", bucket).Msg("Creating InfluxDB writer")
		m.Writers[bucket] = m.Client.WriteAPI(orgName, bucket)

		errorsCh := m.Writers[bucket].Errors()
		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, errorsCh)
	}

	m.Logger.Debug().Msg("InfluxDB writers initialized")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		if _, ok := m.Writers[bucket]; !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		m.Writers[bucket].WritePoint(point)
		m.pointLog.Debug().Str("bucket", bucket).Msg("Point written")
		return nil
	}

	if m.BackupWriter == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
	if _, err := m.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	m.pointLog.Debug().Str("bucket", bucket).Msg("Point written to backup")
	return nil
}

// Close flushes writers and the backup file.
func (m *Manager) Close() {
	if m.IsValid && m.Client != nil {
		for _, w := range m.Writers {
			w.Flush()
		}
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		if err := m.BackupWriter.Close(); err != nil {
			m.Logger.Error().Err(err).Msg("Error closing backup writer")
		}
	}
}

// TruckPoint converts a truck snapshot into a telemetry measurement.
func TruckPoint(t model.Truck) *influxdb2_write.Point {
	var level, capacity float64
	for _, c := range t.Compartments {
		level += c.CurrentLevel
		capacity += c.CapacityLiters
	}
	return influxdb2_write.NewPointWithMeasurement("truck_telemetry").
		AddTag("truckId", t.ID).
		AddTag("status", string(t.Status)).
		AddField("lat", t.Position.Lat).
		AddField("lng", t.Position.Lng).
		AddField("speedKmh", t.SpeedKmh).
		AddField("fuelFlow", t.FuelFlow).
		AddField("tiltDeg", t.TiltDeg).
		AddField("online", t.Online).
		AddField("fuelLevel", level).
		AddField("fuelCapacity", capacity).
		SetTime(t.LastUpdate)
}

// AlertPoint converts an alert into a measurement for the alerts bucket.
func AlertPoint(a model.Alert) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("alert").
		AddTag("truckId", a.TruckID).
		AddTag("type", string(a.Type)).
		AddTag("severity", string(a.Severity)).
		AddField("message", a.Message).
		AddField("lat", a.Location.Lat).
		AddField("lng", a.Location.Lng).
		SetTime(a.Timestamp)
}

// StatusPoint converts an engine status snapshot into a performance
// measurement.
func StatusPoint(s sim.Status, at time.Time) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement("engine_status").
		AddField("tickCount", int64(s.TickCount)).
		AddField("lastTickMs", float64(s.LastTickDuration)/float64(time.Millisecond)).
		AddField("trucks", s.Trucks).
		AddField("alerts", s.AlertCount).
		AddField("lossEntries", s.LossEntryCount).
		AddField("samples", s.SampleCount).
		SetTime(at)
	for status, n := range s.ByStatus {
		p.AddField("trucks_"+string(status), n)
	}
	return p
}
