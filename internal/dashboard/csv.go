package dashboard

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVHeader is the first line written by WriteCSV.
var CSVHeader = []string{"date", "open", "high", "low", "close", "volume"}

// WriteCSV writes rows in the order given.
func WriteCSV(out io.Writer, rows []Row) error {
	w := csv.NewWriter(out)

	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date,
			formatF(r.Open), formatF(r.High), formatF(r.Low), formatF(r.Close),
			strconv.FormatInt(r.Volume, 10),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
