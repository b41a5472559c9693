package recorder

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/pkg/errors"

	"MarketSentinel/internal/model"
)

// FileRecorder writes the snapshot as JSON and the trailing rows of the
// enriched series as CSV into Dir.
type FileRecorder struct {
	Dir          string
	TrailingRows int
}

func NewFileRecorder(dir string, trailingRows int) *FileRecorder {
	return &FileRecorder{Dir: dir, TrailingRows: trailingRows}
}

// Slug turns an instrument symbol into a file-name prefix, e.g. "RHM.DE" -> "rhm_de".
func Slug(symbol string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(symbol) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (f *FileRecorder) SnapshotPath(symbol string) string {
	return filepath.Join(f.Dir, Slug(symbol)+"_latest.json")
}

func (f *FileRecorder) TablePath(symbol string) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s_prices_last%d.csv", Slug(symbol), f.TrailingRows))
}

func (f *FileRecorder) Record(_ context.Context, snap *model.Snapshot, enriched *model.Enriched) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", f.Dir, err)
	}
	if err := writeFile(f.SnapshotPath(snap.Instrument), func(w io.Writer) error {
		return WriteSnapshotJSON(w, snap)
	}); err != nil {
		return err
	}
	return writeFile(f.TablePath(snap.Instrument), func(w io.Writer) error {
		return WriteTrailingCSV(w, enriched, f.TrailingRows)
	})
}

func (f *FileRecorder) Close() error { return nil }

// writeFile writes through a temp file and renames it into place so readers
// never see a half-written export.
func writeFile(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return os.Rename(tmp.Name(), path)
}

// WriteSnapshotJSON writes the snapshot as indented JSON. Undefined values are null.
func WriteSnapshotJSON(w io.Writer, snap *model.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(snap)
}

// TableHeader is the column set of the trailing-window export.
func TableHeader() []string {
	return append([]string{"date", "open", "high", "low", "close", "volume"}, model.IndicatorColumns...)
}

// WriteTrailingCSV writes the last rows bars of the enriched series with
// every indicator column. Undefined cells are left empty.
func WriteTrailingCSV(w io.Writer, enriched *model.Enriched, rows int) error {
	if enriched == nil || enriched.Series == nil || enriched.Series.Len() == 0 {
		return model.ErrEmptySeries
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader()); err != nil {
		return errors.Wrap(err, "writing header")
	}

	bars := enriched.Series.Bars
	start := 0
	if len(bars) > rows {
		start = len(bars) - rows
	}
	columns := enriched.Columns()
	for i := start; i < len(bars); i++ {
		b := bars[i]
		record := []string{
			b.Date.Format(model.DateLayout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		}
		for _, col := range columns {
			record = append(record, formatCell(col, i))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing record")
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCell(col model.IndicatorSeries, i int) string {
	if i >= len(col) {
		return ""
	}
	return formatNull(col[i])
}

func formatNull(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}
