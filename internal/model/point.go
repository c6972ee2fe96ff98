// Package model holds the shared domain types for the MAUP analysis toolkit.
package model

import "fmt"

// BBox is a geographic bounding box in WGS84 degrees.
type BBox struct {
	MinLat float64 `json:"min_lat" mapstructure:"min_lat"`
	MinLon float64 `json:"min_lon" mapstructure:"min_lon"`
	MaxLat float64 `json:"max_lat" mapstructure:"max_lat"`
	MaxLon float64 `json:"max_lon" mapstructure:"max_lon"`
}

// Valid reports whether the box has positive extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxLat > b.MinLat && b.MaxLon > b.MinLon
}

// Contains reports whether the point lies inside the box, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Point is one synthetic warehouse location with its socioeconomic attributes.
// Points are immutable once generated; a dataset lives for one analysis session.
type Point struct {
	ID         string             `json:"id"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	Hub        string             `json:"hub"`
	Department string             `json:"department"`
	Attrs      map[string]float64 `json:"attrs"`
}

// Hub is a logistics cluster center that warehouse points scatter around.
type Hub struct {
	Name       string  `json:"name" mapstructure:"name"`
	Lat        float64 `json:"lat" mapstructure:"lat"`
	Lon        float64 `json:"lon" mapstructure:"lon"`
	Department string  `json:"department" mapstructure:"department"`

	// Attribute baselines for points generated around this hub.
	Employees     float64 `json:"employees" mapstructure:"employees"`
	MedianIncome  float64 `json:"median_income" mapstructure:"median_income"`
	Accessibility float64 `json:"accessibility" mapstructure:"accessibility"`
}

// Department is one Île-de-France département with its socioeconomic profile.
type Department struct {
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	EmploymentRate   float64 `json:"employment_rate"`
	MedianIncome     float64 `json:"median_income"`
	Accessibility    float64 `json:"accessibility"`
	AreaKM2          float64 `json:"area_km2"`
	WarehouseCount   int     `json:"warehouse_count"`
	WarehouseDensity float64 `json:"warehouse_density"`
}

// Point attribute names. Every generated point carries all three.
const (
	AttrEmployees     = "employees"
	AttrMedianIncome  = "median_income"
	AttrAccessibility = "accessibility"
)

// PointAttrs lists the point attribute names in canonical order.
func PointAttrs() []string {
	return []string{AttrAccessibility, AttrEmployees, AttrMedianIncome}
}

// Indicator identifies a dashboard indicator derived from the dataset.
type Indicator string

// Dashboard indicators, matching the selector in the UI.
const (
	IndicatorWarehouseDensity Indicator = "warehouse_density"
	IndicatorEmploymentRate   Indicator = "employment_rate"
	IndicatorMedianIncome     Indicator = "median_income"
	IndicatorAccessibility    Indicator = "logistics_accessibility"
)

// Indicators lists all dashboard indicators in display order.
func Indicators() []Indicator {
	return []Indicator{
		IndicatorWarehouseDensity,
		IndicatorEmploymentRate,
		IndicatorMedianIncome,
		IndicatorAccessibility,
	}
}

// ParseIndicator validates an indicator name from user input.
func ParseIndicator(s string) (Indicator, error) {
	for _, ind := range Indicators() {
		if string(ind) == s {
			return ind, nil
		}
	}
	return "", fmt.Errorf("unknown indicator %q", s)
}
