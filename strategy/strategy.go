// Package strategy loads declarative multi-leg option strategies and expands
// them into signed-quantity legs ready for slicing and execution.
package strategy

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/optioner/market"
)

// Strategy describes one entry/exit/hedge specification for a single scrip,
// with per-client quantities.
type Strategy struct {
	Scrip string `yaml:"scrip"`
	// Expiry is YYYY-MM-DD. Empty means resolve the nearest weekly expiry
	// from the master contract list before trading.
	Expiry  string               `yaml:"expiry,omitempty"`
	Entry   LegSpec              `yaml:"entry"`
	Exit    LegSpec              `yaml:"exit"`
	Clients map[string]ClientQty `yaml:"clients"`
}

// LegSpec holds one side (entry or exit) of the strategy. Strikes is a
// "putStrike-callStrike" pair; either half may be 0 to skip that option type.
type LegSpec struct {
	Strikes  string `yaml:"strikes"`
	HedgeGap int    `yaml:"hedge_gap"`
}

// ClientQty carries the per-account quantities for the strategy.
type ClientQty struct {
	EntryQty int `yaml:"entry_qty"`
	ExitQty  int `yaml:"exit_qty"`
}

const expiryLayout = "2006-01-02"

// LoadFromFile loads and validates a strategy file (YAML).
func LoadFromFile(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}

	st := &Strategy{}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parse strategy: %w", err)
	}
	st.Scrip = strings.ToUpper(strings.TrimSpace(st.Scrip))

	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}
	return st, nil
}

// Validate checks the strategy before any order is placed. Every problem it
// can catch here is one the run never has to abort on mid-flight.
func (s *Strategy) Validate() error {
	if s.Scrip == "" {
		return fmt.Errorf("scrip is required")
	}
	if !market.Supported(s.Scrip) {
		return fmt.Errorf("unsupported scrip: %s", s.Scrip)
	}
	if s.Expiry != "" {
		if _, err := time.Parse(expiryLayout, s.Expiry); err != nil {
			return fmt.Errorf("expiry must be YYYY-MM-DD: %w", err)
		}
	}
	if _, _, err := s.Entry.ParseStrikes(); err != nil {
		return fmt.Errorf("entry strikes: %w", err)
	}
	if _, _, err := s.Exit.ParseStrikes(); err != nil {
		return fmt.Errorf("exit strikes: %w", err)
	}
	if s.Entry.HedgeGap < 0 || s.Exit.HedgeGap < 0 {
		return fmt.Errorf("hedge_gap must not be negative")
	}
	if len(s.Clients) == 0 {
		return fmt.Errorf("at least one client is required")
	}
	for name, q := range s.Clients {
		if q.EntryQty < 0 || q.ExitQty < 0 {
			return fmt.Errorf("client %s: quantities must not be negative", name)
		}
	}
	return nil
}

// ExpiryTime parses the strategy expiry. The zero time is returned when no
// expiry has been set or resolved yet.
func (s *Strategy) ExpiryTime() (time.Time, error) {
	if s.Expiry == "" {
		return time.Time{}, nil
	}
	return time.Parse(expiryLayout, s.Expiry)
}

// SetExpiry stores a resolved expiry date back on the strategy.
func (s *Strategy) SetExpiry(t time.Time) {
	s.Expiry = t.Format(expiryLayout)
}

// ParseStrikes splits the "putStrike-callStrike" pair. An empty spec means
// both sides are skipped; a 0 on either side skips that side.
func (ls LegSpec) ParseStrikes() (pe, ce int, err error) {
	raw := strings.TrimSpace(ls.Strikes)
	if raw == "" {
		return 0, 0, nil
	}

	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want \"putStrike-callStrike\", got %q", raw)
	}
	pe, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("put strike %q: %w", parts[0], err)
	}
	ce, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("call strike %q: %w", parts[1], err)
	}
	if pe < 0 || ce < 0 {
		return 0, 0, fmt.Errorf("strikes must not be negative: %q", raw)
	}
	return pe, ce, nil
}
