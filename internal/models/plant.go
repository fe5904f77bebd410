package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HasCoordinates reports whether the pair carries a usable position. A
// zero value means the caller had no location to give.
func (c Coordinate) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// GeoPoint wraps a coordinate so it can be stored in a
// PostGIS GEOMETRY(Point, 4326) column.
//
// Flow: Coordinate -> geom.Point -> WKT string on write,
// EWKB bytes -> geom.Point -> Coordinate on read.
type GeoPoint struct {
	Coordinate
}

// Value implements driver.Valuer for GeoPoint.
// Output example: "SRID=4326;POINT(34.78 32.08)" (lon lat order)
func (g *GeoPoint) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}

	point := geom.NewPointFlat(geom.XY, []float64{g.Longitude, g.Latitude})
	point.SetSRID(4326)

	wktString, err := wkt.Marshal(point)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal point to WKT: %w", err)
	}

	return fmt.Sprintf("SRID=%d;%s", point.SRID(), wktString), nil
}

// Scan implements sql.Scanner for GeoPoint.
func (g *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan GeoPoint: expected []byte, got %T", value)
	}

	geometry, err := ewkb.Unmarshal(bytes)
	if err != nil {
		return fmt.Errorf("failed to unmarshal EWKB: %w", err)
	}

	point, ok := geometry.(*geom.Point)
	if !ok {
		return fmt.Errorf("geometry is not a Point")
	}

	coords := point.FlatCoords()
	if len(coords) < 2 {
		return fmt.Errorf("point has no coordinates")
	}
	g.Longitude = coords[0]
	g.Latitude = coords[1]
	return nil
}

// PlantLocation describes where a plant sits on the premises.
// Latitude/Longitude may both be zero when the plant was registered
// without coordinates; such plants are excluded from routing.
type PlantLocation struct {
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	Section   string  `db:"section" json:"section"`
	Aisle     string  `db:"aisle" json:"aisle"`
}

// HasCoordinates reports whether the location carries usable coordinates.
func (l PlantLocation) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// PriorityTier buckets plants by how overdue their watering is.
type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityMedium PriorityTier = "medium"
	PriorityLow    PriorityTier = "low"
)

// Plant is an inventory record. Owned by the inventory collaborator,
// read-only in this service.
type Plant struct {
	ID                string        `db:"id" json:"id"`
	Name              string        `db:"name" json:"name"`
	Location          PlantLocation `json:"location"`
	WaterIntervalDays int           `db:"water_interval_days" json:"water_interval_days"`
	LastWateredAt     time.Time     `db:"last_watered_at" json:"last_watered_at"`
}

// OverdueDays returns how many full days the plant is past its watering
// interval at the given instant. Never negative.
func (p Plant) OverdueDays(now time.Time) int {
	daysSince := int(math.Floor(now.Sub(p.LastWateredAt).Hours() / 24))
	overdue := daysSince - p.WaterIntervalDays
	if overdue < 0 {
		return 0
	}
	return overdue
}

// Priority derives the routing tier from the overdue days.
func (p Plant) Priority(now time.Time) PriorityTier {
	switch overdue := p.OverdueDays(now); {
	case overdue >= 3:
		return PriorityHigh
	case overdue >= 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
