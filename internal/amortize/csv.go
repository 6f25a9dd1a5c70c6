package amortize

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

func WriteScheduleCSV(path string, periods []Period) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeScheduleCSV(f, periods)
}

// EncodeScheduleCSV writes one row per period with a header row.
func EncodeScheduleCSV(out io.Writer, periods []Period) error {
	w := csv.NewWriter(out)

	header := []string{
		"period",
		"payment_date",
		"payment",
		"principal_paid",
		"interest_paid",
		"start_balance",
		"ending_balance",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range periods {
		row := []string{
			strconv.Itoa(p.Index),
			p.PaymentDate.String(),
			fmtMoney(p.Payment),
			fmtMoney(p.PrincipalPaid),
			fmtMoney(p.InterestPaid),
			fmtMoney(p.StartBalance),
			fmtMoney(p.EndingBalance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtMoney(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
