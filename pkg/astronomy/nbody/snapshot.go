package nbody

import (
	"bufio"
	"encoding/json"
	"os"
)

// SnapshotSink receives the states of a system.
type SnapshotSink interface {
	OnSnapshot(tDays float64, bodies []Body) error
	Close() error
}

// JSONLSnapshotWriter writes one JSON object per snapshot.
type JSONLSnapshotWriter struct {
	f  *os.File
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	TimeDays float64 `json:"time_days"`
	Bodies   []Body  `json:"bodies"`
}

func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSnapshotWriter) OnSnapshot(tDays float64, bodies []Body) error {
	rec := jsonlSnapshot{TimeDays: tDays, Bodies: bodies}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		if err := w.bw.Flush(); err != nil {
			w.f.Close()
			return err
		}
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

// WriteSnapshot sends the current state of s to sink.
func (s *System) WriteSnapshot(sink SnapshotSink) error {
	return sink.OnSnapshot(s.Time, s.Bodies)
}
