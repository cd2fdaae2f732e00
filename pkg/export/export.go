package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/solhub/solarsched/core/model"
)

// WriteJSON writes the appliance schedule to w in JSON format.
func WriteJSON(w io.Writer, schedule []model.ScheduleItem) error {
	enc := json.NewEncoder(w)
	return enc.Encode(schedule)
}

// WriteCSV writes the appliance schedule to w in CSV format.
func WriteCSV(w io.Writer, schedule []model.ScheduleItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"appliance", "start", "end", "solar_coverage", "grid_kwh", "savings"}); err != nil {
		return err
	}
	for _, item := range schedule {
		rec := []string{
			item.Appliance.Name,
			item.StartTime.Format(time.RFC3339),
			item.EndTime.Format(time.RFC3339),
			strconv.FormatFloat(item.SolarCoverage, 'f', -1, 64),
			strconv.FormatFloat(item.GridUsage, 'f', -1, 64),
			strconv.FormatFloat(item.CostSavings, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
