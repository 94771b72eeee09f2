package output

import (
	"encoding/json"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// JSONFormatter serializes the aggregate report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.AggregateReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
