package recorder

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSentinel/internal/calculator"
	"MarketSentinel/internal/model"
)

var lastDay = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func rampSeries(symbol string, n int) *model.Series {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{
			Date:   lastDay.AddDate(0, 0, i-n+1),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.Series{Symbol: symbol, Bars: bars}
}

func compute(t *testing.T, series *model.Series) (*model.Snapshot, *model.Enriched) {
	t.Helper()
	p := calculator.DefaultParams()
	e, err := calculator.Compute(series, p)
	require.NoError(t, err)
	snap, err := calculator.Assemble(e, p)
	require.NoError(t, err)
	return snap, e
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "rhm_de", Slug("RHM.DE"))
	assert.Equal(t, "_gspc", Slug("^GSPC"))
}

func TestWriteSnapshotJSON_Shape(t *testing.T) {
	snap, _ := compute(t, rampSeries("RHM.DE", 10))
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotJSON(&buf, snap))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "RHM.DE", doc["instrument"])
	assert.Equal(t, "2025-06-30", doc["as_of_date"])

	price := doc["price"].(map[string]any)
	assert.Equal(t, 109.0, price["close"])
	assert.Equal(t, 1000.0, price["volume"])

	ind := doc["indicators"].(map[string]any)
	boll := ind["bollinger"].(map[string]any)
	assert.Contains(t, boll, "ma")
	assert.Nil(t, boll["ma"])
	assert.Nil(t, ind["rsi"])
	assert.Nil(t, ind["cmf"])
	assert.Equal(t, 9000.0, ind["obv"])
	macd := ind["macd"].(map[string]any)
	assert.NotNil(t, macd["line"])

	levels := doc["levels"].(map[string]any)
	assert.Equal(t, 104.0, levels["support_hint"])
	assert.Equal(t, 110.0, levels["resistance_hint"])

	vol := doc["volatility"].(map[string]any)
	assert.Nil(t, vol["proxy"])
	assert.NotEmpty(t, vol["note"])
}

func TestWriteTrailingCSV_LastRows(t *testing.T) {
	series := rampSeries("X", 200)
	_, e := compute(t, series)

	var buf bytes.Buffer
	require.NoError(t, WriteTrailingCSV(&buf, e, 120))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 121)
	assert.Equal(t, TableHeader(), records[0])
	assert.Len(t, records[0], 15)

	rows := records[1:]
	assert.Equal(t, series.Bars[80].Date.Format(model.DateLayout), rows[0][0])
	assert.Equal(t, "2025-06-30", rows[119][0])
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1][0], rows[i][0])
	}
	assert.Equal(t, "299", rows[119][4])
	assert.Equal(t, "1000", rows[119][5])
	assert.Equal(t, "", rows[119][9], "rsi undefined for a pure ramp")
	assert.Equal(t, "199000", rows[119][14])
}

func TestWriteTrailingCSV_ShortSeries(t *testing.T) {
	_, e := compute(t, rampSeries("X", 3))
	var buf bytes.Buffer
	require.NoError(t, WriteTrailingCSV(&buf, e, 120))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2025-06-28,99.5,101,99,100,1000,,,,,0,0,0,,0", lines[1])
}

func TestWriteTrailingCSV_Empty(t *testing.T) {
	err := WriteTrailingCSV(&bytes.Buffer{}, &model.Enriched{Series: &model.Series{}}, 120)
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
}

func TestFileRecorder_Record(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	rec := NewFileRecorder(dir, 120)
	snap, e := compute(t, rampSeries("RHM.DE", 150))

	require.NoError(t, rec.Record(context.Background(), snap, e))
	assert.FileExists(t, filepath.Join(dir, "rhm_de_latest.json"))
	assert.FileExists(t, filepath.Join(dir, "rhm_de_prices_last120.csv"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sentinel.db"))
	require.NoError(t, err)
	defer rec.Close()

	ctx := context.Background()
	snap, e := compute(t, rampSeries("RHM.DE", 10))
	require.NoError(t, rec.Record(ctx, snap, e))

	got, err := rec.LatestSnapshot(ctx, "RHM.DE")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	// rerun for the same day replaces the row
	snap2 := *snap
	snap2.Price.Close = 111.11
	require.NoError(t, rec.Record(ctx, &snap2, e))
	got, err = rec.LatestSnapshot(ctx, "RHM.DE")
	require.NoError(t, err)
	assert.Equal(t, 111.11, got.Price.Close)

	var rows int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestNewSQLiteRecorder_CreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "history", "market_sentinel.db")
	rec, err := NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()

	snap, e := compute(t, rampSeries("RHM.DE", 10))
	require.NoError(t, rec.Record(context.Background(), snap, e))

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

type stubRecorder struct {
	calls  int
	err    error
	closed bool
}

func (s *stubRecorder) Record(context.Context, *model.Snapshot, *model.Enriched) error {
	s.calls++
	return s.err
}

func (s *stubRecorder) Close() error {
	s.closed = true
	return nil
}

func TestMultiRecorder(t *testing.T) {
	failing := &stubRecorder{err: errors.New("disk full")}
	ok := &stubRecorder{}
	multi := MultiRecorder{failing, NewNoopRecorder(), ok}

	err := multi.Record(context.Background(), &model.Snapshot{}, nil)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	require.NoError(t, multi.Close())
	assert.True(t, failing.closed)
	assert.True(t, ok.closed)
}
