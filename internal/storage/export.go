package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []FrameRecord `json:"frames"`
}

// ExportJSON writes a stored run and its frames as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Frames: frames})
}

// ExportCSV writes the stored frame table.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return writeFramesCSV(w, frames)
}

func writeFramesCSV(out io.Writer, frames []FrameRecord) error {
	w := csv.NewWriter(out)

	width := 0
	for _, f := range frames {
		if len(f.Values) > width {
			width = len(f.Values)
		}
	}

	header := []string{"seq", "phase", "state", "comparisons", "writes", "highlight"}
	for i := 0; i < width; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatUint(f.Seq, 10),
			f.Phase,
			f.State,
			strconv.Itoa(f.Comparisons),
			strconv.Itoa(f.Writes),
			f.Highlight,
		}
		for _, v := range f.Values {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
