package catalogio

import (
	"encoding/csv"
	"io"
	"strconv"

	"academy/internal/application/projections"
)

var audienceHeader = []string{"employee_id", "name", "department", "progress", "completed"}

// WriteAudienceCSV writes one row per enrolled employee, header first.
func WriteAudienceCSV(w io.Writer, audience []projections.AudienceMember) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(audienceHeader); err != nil {
		return err
	}
	for _, m := range audience {
		if err := cw.Write([]string{
			m.EmployeeID,
			m.Name,
			m.Department,
			strconv.FormatFloat(m.Percent, 'f', -1, 64),
			strconv.FormatBool(m.Completed),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
