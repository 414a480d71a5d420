package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRecordOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orders.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	at := time.Date(2023, 6, 8, 9, 30, 0, 0, time.UTC)
	rec := testRecord("RUN1", -900, at)
	rec.Demo = true

	require.NoError(t, j.RecordOrder(rec))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"run_id", "client", "broker", "symbol", "side", "qty", "status", "message", "demo", "placed_at"}, rows[0])
	assert.Equal(t, "RUN1", rows[1][0])
	assert.Equal(t, "-900", rows[1][5])
	assert.Equal(t, "true", rows[1][8])
	assert.Equal(t, "2023-06-08T09:30:00Z", rows[1][9])
}
