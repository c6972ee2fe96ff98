// Package i18n provides the English and French label catalog for the
// dashboard, mirroring the bilingual UI of the analysis tool.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/geodesic-labs/arealens/internal/model"
)

var supported = []language.Tag{
	language.English, // default
	language.French,
}

var matcher = language.NewMatcher(supported)

// Match resolves an Accept-Language header or ?lang= value to a supported
// language, defaulting to English.
func Match(lang string) language.Tag {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	if base.String() == "fr" {
		return language.French
	}
	return language.English
}

// IndicatorLabel holds the localized name and description of one indicator.
type IndicatorLabel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var indicatorLabels = map[language.Tag]map[model.Indicator]IndicatorLabel{
	language.English: {
		model.IndicatorWarehouseDensity: {
			Name:        "Warehouse Density",
			Description: "Number of warehouses per unit area",
		},
		model.IndicatorEmploymentRate: {
			Name:        "Employment Rate",
			Description: "Percentage of employed working-age population",
		},
		model.IndicatorMedianIncome: {
			Name:        "Median Income",
			Description: "Median annual household income in euros",
		},
		model.IndicatorAccessibility: {
			Name:        "Logistics Accessibility",
			Description: "Index of transportation and logistics infrastructure access",
		},
	},
	language.French: {
		model.IndicatorWarehouseDensity: {
			Name:        "Densité d'Entrepôts",
			Description: "Nombre d'entrepôts par unité de surface",
		},
		model.IndicatorEmploymentRate: {
			Name:        "Taux d'Emploi",
			Description: "Pourcentage de la population active ayant un emploi",
		},
		model.IndicatorMedianIncome: {
			Name:        "Revenu Médian",
			Description: "Revenu médian annuel des ménages en euros",
		},
		model.IndicatorAccessibility: {
			Name:        "Accessibilité Logistique",
			Description: "Indice d'accès aux infrastructures de transport et logistique",
		},
	},
}

// Indicator returns the localized label for one indicator.
func Indicator(lang language.Tag, ind model.Indicator) IndicatorLabel {
	labels, ok := indicatorLabels[lang]
	if !ok {
		labels = indicatorLabels[language.English]
	}
	l := labels[ind]
	l.ID = string(ind)
	return l
}

// Indicators returns the localized labels for all indicators in display order.
func Indicators(lang language.Tag) []IndicatorLabel {
	out := make([]IndicatorLabel, 0, len(model.Indicators()))
	for _, ind := range model.Indicators() {
		out = append(out, Indicator(lang, ind))
	}
	return out
}
