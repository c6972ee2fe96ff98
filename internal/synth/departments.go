package synth

import (
	"sort"

	"github.com/geodesic-labs/arealens/internal/model"
)

// departmentBaselines holds the fixed socioeconomic profile of each
// Île-de-France département. Values are plausible synthetic figures, not
// INSEE data.
var departmentBaselines = []model.Department{
	{Code: "75", Name: "Paris", EmploymentRate: 0.68, MedianIncome: 28500, Accessibility: 92, AreaKM2: 105.4},
	{Code: "77", Name: "Seine-et-Marne", EmploymentRate: 0.64, MedianIncome: 23200, Accessibility: 61, AreaKM2: 5915.3},
	{Code: "78", Name: "Yvelines", EmploymentRate: 0.66, MedianIncome: 27800, Accessibility: 68, AreaKM2: 2284.4},
	{Code: "91", Name: "Essonne", EmploymentRate: 0.66, MedianIncome: 24900, Accessibility: 70, AreaKM2: 1804.4},
	{Code: "92", Name: "Hauts-de-Seine", EmploymentRate: 0.69, MedianIncome: 29400, Accessibility: 88, AreaKM2: 175.6},
	{Code: "93", Name: "Seine-Saint-Denis", EmploymentRate: 0.58, MedianIncome: 18800, Accessibility: 79, AreaKM2: 236.2},
	{Code: "94", Name: "Val-de-Marne", EmploymentRate: 0.64, MedianIncome: 23900, Accessibility: 82, AreaKM2: 245.0},
	{Code: "95", Name: "Val-d'Oise", EmploymentRate: 0.62, MedianIncome: 22400, Accessibility: 75, AreaKM2: 1246.0},
}

// DepartmentStats joins the fixed socioeconomic profiles with warehouse
// counts from the dataset and derives per-département warehouse density
// (warehouses per 100 km²). Output order is by département code.
func DepartmentStats(points []model.Point) []model.Department {
	counts := make(map[string]int)
	for _, p := range points {
		counts[p.Department]++
	}

	out := make([]model.Department, len(departmentBaselines))
	copy(out, departmentBaselines)
	for i := range out {
		out[i].WarehouseCount = counts[out[i].Code]
		out[i].WarehouseDensity = float64(out[i].WarehouseCount) / out[i].AreaKM2 * 100
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
