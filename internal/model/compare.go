package model

// CorrelationReport holds the correlation between two attributes' per-cell
// means at one granularity. Pearson is nil when fewer than two cells carry
// both attributes.
type CorrelationReport struct {
	Granularity   Granularity `json:"granularity"`
	XAttr         string      `json:"x_attr"`
	YAttr         string      `json:"y_attr"`
	CellsUsed     int         `json:"cells_used"`
	OccupiedCells int         `json:"occupied_cells"`
	Pearson       *float64    `json:"pearson"`
}

// CorrelationShift is the change in the correlation coefficient between two
// adjacent granularities. Delta is nil when either side is undefined.
type CorrelationShift struct {
	From  Granularity `json:"from"`
	To    Granularity `json:"to"`
	Delta *float64    `json:"delta"`
}

// ComparisonResult pairs two or more granularities' aggregate statistics and
// reports how the chosen correlation moves across them. Recomputing with
// identical inputs yields an identical result.
type ComparisonResult struct {
	XAttr   string              `json:"x_attr"`
	YAttr   string              `json:"y_attr"`
	Sets    []AggregateSet      `json:"sets"`
	Reports []CorrelationReport `json:"reports"`
	Shifts  []CorrelationShift  `json:"shifts"`
}
