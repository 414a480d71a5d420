// Package master downloads and parses the NFO master contract list published
// by Shoonya, and resolves strategy expiries from it.
package master

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xyproto/unzip"
	"go.uber.org/zap"
)

const (
	// DefaultHost serves the zipped master files.
	DefaultHost = "https://api.shoonya.com"
	// NFOArchive is the derivatives segment master archive.
	NFOArchive = "NFO_symbols.txt.zip"
)

// Contract is one row of the master list.
type Contract struct {
	Token         string
	LotSize       int
	Symbol        string
	TradingSymbol string
	Expiry        time.Time
	Instrument    string // e.g. OPTIDX, FUTIDX
	OptionType    string // CE, PE, XX
	Strike        float64
}

// Download fetches the NFO master archive into dir, extracts it, and returns
// the path of the extracted text file. The archive itself is removed after
// extraction.
func Download(ctx context.Context, client *http.Client, host, dir string, logger *zap.Logger) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if host == "" {
		host = DefaultHost
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	url := strings.TrimRight(host, "/") + "/" + NFOArchive
	logger.Info("downloading master contract list", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download masters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download masters: http status %d", resp.StatusCode)
	}

	zipPath := filepath.Join(dir, NFOArchive)
	tmp := zipPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(tmp)
		return "", copyErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return "", closeErr
	}
	if err := os.Rename(tmp, zipPath); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	if err := unzip.Extract(zipPath, dir); err != nil {
		return "", fmt.Errorf("extract masters: %w", err)
	}
	_ = os.Remove(zipPath)

	txtPath := filepath.Join(dir, strings.TrimSuffix(NFOArchive, ".zip"))
	if _, err := os.Stat(txtPath); err != nil {
		return "", fmt.Errorf("masters extracted but %s missing: %w", txtPath, err)
	}

	logger.Info("master contract list ready", zap.String("path", txtPath))
	return txtPath, nil
}

// Load parses an extracted master file. Rows that fail to parse are skipped;
// the file carries tens of thousands of rows and the odd malformed one must
// not sink a run.
func Load(path string) ([]Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open masters: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read masters header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, want := range []string{"Token", "Symbol", "TradingSymbol", "Expiry"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("masters header missing column %q", want)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var contracts []Contract
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read masters: %w", err)
		}

		expiry, err := parseExpiry(field(row, "Expiry"))
		if err != nil {
			continue
		}
		lot, _ := strconv.Atoi(field(row, "LotSize"))
		strike, _ := strconv.ParseFloat(field(row, "StrikePrice"), 64)

		contracts = append(contracts, Contract{
			Token:         field(row, "Token"),
			LotSize:       lot,
			Symbol:        field(row, "Symbol"),
			TradingSymbol: field(row, "TradingSymbol"),
			Expiry:        expiry,
			Instrument:    field(row, "Instrument"),
			OptionType:    field(row, "OptionType"),
			Strike:        strike,
		})
	}
	return contracts, nil
}

// parseExpiry reads the master file's "29-JUN-2023" format. Month casing in
// the file is all-caps, which time.Parse refuses, so normalize it first.
func parseExpiry(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[1]) != 3 {
		return time.Time{}, fmt.Errorf("bad expiry %q", s)
	}
	mon := strings.ToUpper(parts[1][:1]) + strings.ToLower(parts[1][1:])
	return time.Parse("02-Jan-2006", parts[0]+"-"+mon+"-"+parts[2])
}
