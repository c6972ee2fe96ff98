package model

import "time"

// CompareParams captures everything needed to reproduce a comparison run.
type CompareParams struct {
	Seed          int64         `json:"seed"`
	Count         int           `json:"count"`
	Granularities []Granularity `json:"granularities"`
	XAttr         string        `json:"x_attr"`
	YAttr         string        `json:"y_attr"`
}

// Run is one stored comparison: its parameters and full result.
// Comparisons are synchronous, so a run is only written once complete.
type Run struct {
	ID        string            `json:"id"`
	Params    CompareParams     `json:"params"`
	Result    *ComparisonResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
