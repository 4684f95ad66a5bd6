package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/soaringjerry/Guidance/internal/models"
)

// ExportTrendCSV renders a trend window as CSV, one row per point.
// Absent scores and counts are written as empty cells.
func ExportTrendCSV(t models.AssessmentType, points []models.TrendPoint) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"assessment_type", "date", "level", "score", "requires_intervention", "count"})
	for _, p := range points {
		rec := []string{
			string(t),
			p.Date.UTC().Format(time.RFC3339),
			p.Level,
			optionalInt(p.Score),
			strconv.FormatBool(p.RequiresIntervention),
			optionalInt(p.Count),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
