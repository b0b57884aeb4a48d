package report

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// CSVReporter writes one row per residual sample: p, s, the fitted s and the residual.
type CSVReporter struct {
	Path string
}

// Report implements Reporter.
func (r *CSVReporter) Report(_ context.Context, data *Data) error {
	file, err := os.Create(r.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", r.Path)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	err = w.Write([]string{"dp", "ds", "ds_fit", "residual"})
	if err != nil {
		return errors.Wrap(err, "unable to write csv header")
	}

	for i := range data.P {
		fitted := data.Fit.At(data.P[i])

		err := w.Write([]string{
			formatFloat(data.P[i]),
			formatFloat(data.S[i]),
			formatFloat(fitted),
			formatFloat(data.S[i] - fitted),
		})
		if err != nil {
			return errors.Wrapf(err, "unable to write csv row %d", i+1)
		}
	}

	w.Flush()

	return errors.Wrap(w.Error(), "unable to flush csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
