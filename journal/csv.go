package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal mirrors every transaction to a CSV file, one row per trade.
type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "kind", "instrument", "quantity", "unit_price", "total", "time"}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordTransaction(t Transaction) error {
	err := j.w.Write([]string{
		t.ID,
		string(t.Kind),
		t.Instrument,
		strconv.FormatInt(t.Quantity, 10),
		strconv.FormatInt(t.UnitPrice, 10),
		t.Total().String(),
		t.At.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}
