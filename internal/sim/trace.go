package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var traceHeader = []string{"tick", "event", "pid", "from"}

// WriteCSV writes the event trace as CSV, one row per event.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, ev := range r.Trace {
		rec := []string{
			strconv.FormatInt(ev.Tick, 10),
			ev.Kind.String(),
			strconv.Itoa(int(ev.PID)),
			strconv.Itoa(int(ev.From)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the event trace to path.
func (r *Report) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write trace %s: %w", path, err)
	}
	return f.Close()
}
