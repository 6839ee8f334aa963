// internal/results/export_csv.go
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

// WriteWideCSV flattens a scenario table into the wide column convention
// plotting tools expect: per configuration a FPR_n_k and a TPR_n_k column,
// one row per noise level. Undefined rates become empty cells. This layout
// is purely a presentation convenience; the keyed ScenarioTable remains the
// canonical form.
func WriteWideCSV(w io.Writer, st ScenarioTable) error {
	keys := st.SortedKeys()
	if len(keys) == 0 {
		return fmt.Errorf("scenario table is empty")
	}

	rows := len(st[keys[0]])
	for _, key := range keys {
		if len(st[key]) != rows {
			return fmt.Errorf("curve %s has %d points, expected %d; curves must share one noise grid",
				key, len(st[key]), rows)
		}
	}

	cw := csv.NewWriter(w)

	header := []string{"PNP"}
	for _, key := range keys {
		header = append(header,
			fmt.Sprintf("FPR_%d_%d", key.N, key.K),
			fmt.Sprintf("TPR_%d_%d", key.N, key.K))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		record := []string{formatFloat(st[keys[0]][i].PNP)}
		for _, key := range keys {
			point := st[key][i]
			record = append(record, formatRate(point.FPR), formatRate(point.TPR))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatRate(r sweep.Rate) string {
	if !r.Defined {
		return ""
	}
	return formatFloat(r.Value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
