package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"run_id", "client", "broker", "symbol", "side", "qty", "status", "message", "demo", "placed_at"}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordOrder(rec OrderRecord) error {
	err := j.w.Write([]string{
		rec.RunID,
		rec.Client,
		rec.Broker,
		rec.Symbol,
		rec.Side,
		strconv.Itoa(rec.Qty),
		rec.Status,
		rec.Message,
		strconv.FormatBool(rec.Demo),
		rec.PlacedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}
