package main

import (
	"fmt"

	"github.com/fueltrace/fleetsim/internal/model"
	"github.com/fueltrace/fleetsim/internal/zones"
)

// printZones writes the zone registry to stdout, one zone per line.
func printZones() {
	for _, z := range zones.All() {
		switch z.Shape {
		case model.ShapeCircle:
			fmt.Printf("%-12s %-10s %-35s circle  center=%.4f,%.4f r=%.0fm",
				z.ID, z.Type, z.Name, z.Center.Lat, z.Center.Lng, z.RadiusM)
		case model.ShapePolygon:
			fmt.Printf("%-12s %-10s %-35s polygon vertices=%d",
				z.ID, z.Type, z.Name, len(z.Ring))
		}
		if z.Client != "" {
			fmt.Printf("  client=%q", z.Client)
		}
		fmt.Println()
	}
}
