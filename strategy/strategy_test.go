package strategy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStrategy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := writeStrategy(t, `
scrip: banknifty
expiry: 2023-06-08
entry:
  strikes: "44000-44500"
  hedge_gap: 500
exit:
  strikes: "43500-45000"
  hedge_gap: 500
clients:
  ravi:
    entry_qty: 30
    exit_qty: 15
`)

	st, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "BANKNIFTY", st.Scrip, "scrip is upper-cased")
	assert.Equal(t, ClientQty{EntryQty: 30, ExitQty: 15}, st.Clients["ravi"])

	exp, err := st.ExpiryTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 8, 0, 0, 0, 0, time.UTC), exp)
}

func TestLoadFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Strategy {
		return &Strategy{
			Scrip:   "NIFTY",
			Entry:   LegSpec{Strikes: "19500-19700", HedgeGap: 300},
			Clients: map[string]ClientQty{"a": {EntryQty: 50}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Strategy)
		wantErr string
	}{
		{"ok", func(s *Strategy) {}, ""},
		{"missing scrip", func(s *Strategy) { s.Scrip = "" }, "scrip is required"},
		{"unknown scrip", func(s *Strategy) { s.Scrip = "RELIANCE" }, "unsupported scrip"},
		{"bad expiry", func(s *Strategy) { s.Expiry = "08-06-2023" }, "expiry must be"},
		{"bad strikes", func(s *Strategy) { s.Entry.Strikes = "19500" }, "entry strikes"},
		{"negative gap", func(s *Strategy) { s.Entry.HedgeGap = -1 }, "hedge_gap"},
		{"no clients", func(s *Strategy) { s.Clients = nil }, "at least one client"},
		{"negative qty", func(s *Strategy) { s.Clients["a"] = ClientQty{EntryQty: -5} }, "must not be negative"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := valid()
			tt.mutate(st)
			err := st.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseStrikes(t *testing.T) {
	t.Parallel()

	pe, ce, err := LegSpec{Strikes: "44000-44500"}.ParseStrikes()
	require.NoError(t, err)
	assert.Equal(t, 44000, pe)
	assert.Equal(t, 44500, ce)

	pe, ce, err = LegSpec{}.ParseStrikes()
	require.NoError(t, err)
	assert.Zero(t, pe)
	assert.Zero(t, ce)

	_, _, err = LegSpec{Strikes: "44000"}.ParseStrikes()
	assert.Error(t, err)

	_, _, err = LegSpec{Strikes: "x-44500"}.ParseStrikes()
	assert.Error(t, err)
}

func TestSetExpiry(t *testing.T) {
	t.Parallel()

	st := &Strategy{}
	st.SetExpiry(time.Date(2023, 6, 8, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-06-08", st.Expiry)
}
