package domain

// Series name constants for persisted band rows.
const (
	SeriesInvest = "invest"
	SeriesBuy    = "buy"
)

// BandPoint is one persisted row of a percentile-band timeseries.
type BandPoint struct {
	RunID  string
	Series string
	Month  int
	P10    float64
	P50    float64
	P90    float64
}

// FlattenBands explodes a BandSeries into per-month rows for bulk insert.
func FlattenBands(runID, series string, b BandSeries) []*BandPoint {
	points := make([]*BandPoint, len(b.P50))
	for t := range b.P50 {
		points[t] = &BandPoint{
			RunID:  runID,
			Series: series,
			Month:  t,
			P10:    b.P10[t],
			P50:    b.P50[t],
			P90:    b.P90[t],
		}
	}
	return points
}
