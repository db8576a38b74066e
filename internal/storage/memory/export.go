package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fueltrace/fleetsim/internal/geo"
	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/zones"
)

// SessionExport is the root JSON structure of an exported session.
type SessionExport struct {
	Session     model.Session             `json:"session"`
	Zones       []model.GeoZone           `json:"zones"`
	Alerts      []model.Alert             `json:"alerts"`
	LossEntries []model.FuelLossEntry     `json:"lossEntries"`
	Consumption []model.ConsumptionSample `json:"consumption"`
	Snapshots   []model.Truck             `json:"truckSnapshots"`
	Trails      []TruckTrail              `json:"trails"`
}

// ProjectedTrailPoint pairs a recorded trail point with its EPSG:3857
// projection so map-tile consumers can plot trails without reprojecting.
type ProjectedTrailPoint struct {
	model.TrailPoint
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TruckTrail is the last recorded trail of one truck.
type TruckTrail struct {
	TruckID string                `json:"truckId"`
	Points  []ProjectedTrailPoint `json:"points"`
}

// projectTrails keeps the newest snapshot trail per truck, projected to
// web mercator. Trucks appear in the order they were first recorded.
func projectTrails(snapshots []model.Truck) []TruckTrail {
	idx := make(map[string]int)
	var trails []TruckTrail
	for _, t := range snapshots {
		points := make([]ProjectedTrailPoint, len(t.Trail))
		for i, p := range t.Trail {
			x, y := geo.WebMercator(p.LatLng)
			points[i] = ProjectedTrailPoint{TrailPoint: p, X: x, Y: y}
		}
		if i, ok := idx[t.ID]; ok {
			trails[i].Points = points
			continue
		}
		idx[t.ID] = len(trails)
		trails = append(trails, TruckTrail{TruckID: t.ID, Points: points})
	}
	return trails
}

// exportJSON writes the session data to a (optionally gzipped) JSON file.
// Caller holds b.mu.
func (b *Backend) exportJSON() error {
	b.session.EndTime = time.Now().UTC()

	export := SessionExport{
		Session:     *b.session,
		Zones:       zones.All(),
		Alerts:      b.alerts,
		LossEntries: b.lossEntries,
		Consumption: b.consumption,
		Snapshots:   b.snapshots,
		Trails:      projectTrails(b.snapshots),
	}

	name := strings.ReplaceAll(b.session.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
