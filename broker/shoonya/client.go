// Package shoonya implements the broker capability set against the Finvasia
// Shoonya (Noren) API. Noren is a form-POST protocol: every call carries a
// jData JSON payload and, once logged in, a jKey session token.
package shoonya

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/optioner/broker"
)

// DefaultBaseURL is the production Noren endpoint.
const DefaultBaseURL = "https://api.shoonya.com/NorenWClientTP"

type Config struct {
	BaseURL    string // defaults to DefaultBaseURL
	UserID     string
	Password   string
	Factor2    string // TOTP or PAN, generated out of band
	VendorCode string
	APISecret  string
	IMEI       string
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	cfg        Config
	token      string // susertoken, set by Login or SetSession
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Name() string { return "shoonya" }

// SetSession installs an existing susertoken, skipping Login.
func (c *Client) SetSession(token string) { c.token = token }

// Login runs the Noren authorize flow. The password and the "uid|api_secret"
// app key both travel as SHA-256 digests. On success the returned susertoken
// signs every subsequent call.
func (c *Client) Login(ctx context.Context) error {
	payload := map[string]string{
		"source":     "API",
		"apkversion": "1.0.0",
		"uid":        c.cfg.UserID,
		"pwd":        sha256Hex(c.cfg.Password),
		"factor2":    c.cfg.Factor2,
		"vc":         c.cfg.VendorCode,
		"appkey":     sha256Hex(c.cfg.UserID + "|" + c.cfg.APISecret),
		"imei":       c.cfg.IMEI,
	}

	resp, err := c.post(ctx, "/QuickAuth", payload, false)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if !c.IsSuccess(resp) {
		return fmt.Errorf("authorize rejected: %s", broker.Message(resp))
	}

	token, _ := resp["susertoken"].(string)
	if token == "" {
		return fmt.Errorf("authorize reply missing susertoken")
	}
	c.token = token
	c.logger.Debug("shoonya session established", zap.String("uid", c.cfg.UserID))
	return nil
}

// TradingSymbol builds the NFO trading symbol for an option contract,
// e.g. "BANKNIFTY08JUN23C44000".
func TradingSymbol(q broker.OptionQuery) string {
	return fmt.Sprintf("%s%s%c%d",
		strings.ToUpper(q.Scrip),
		strings.ToUpper(q.Expiry.Format("02Jan06")),
		q.Opt[0],
		q.Strike,
	)
}

type searchResponse struct {
	Stat   string `json:"stat"`
	Values []struct {
		Token string `json:"token"`
		TSym  string `json:"tsym"`
	} `json:"values"`
}

// ResolveInstrument searches the NFO segment for the contract's trading
// symbol and returns its token.
func (c *Client) ResolveInstrument(ctx context.Context, q broker.OptionQuery) (broker.Instrument, error) {
	tsym := TradingSymbol(q)

	raw, err := c.post(ctx, "/SearchScrip", map[string]string{
		"uid":   c.cfg.UserID,
		"exch":  "NFO",
		"stext": url.QueryEscape(tsym),
	}, true)
	if err != nil {
		return broker.Instrument{}, fmt.Errorf("search scrip: %w", err)
	}
	if !c.IsSuccess(raw) {
		return broker.Instrument{}, fmt.Errorf("search scrip %q: %s", tsym, broker.Message(raw))
	}

	var resp searchResponse
	if err := remarshal(raw, &resp); err != nil {
		return broker.Instrument{}, fmt.Errorf("search scrip reply: %w", err)
	}
	if len(resp.Values) == 0 {
		return broker.Instrument{}, fmt.Errorf("no NFO match for %q", tsym)
	}

	return broker.Instrument{Symbol: tsym, Token: resp.Values[0].Token}, nil
}

// PlaceOrder submits a normal-product market order on NFO, retained for the
// day.
func (c *Client) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.Response, error) {
	payload := map[string]string{
		"ordersource": "API",
		"uid":         c.cfg.UserID,
		"actid":       c.cfg.UserID,
		"trantype":    string(req.Side),
		"prd":         "M",
		"exch":        "NFO",
		"tsym":        url.QueryEscape(req.Instrument.Symbol),
		"qty":         strconv.Itoa(req.Qty),
		"dscqty":      "0",
		"prctyp":      "MKT",
		"prc":         "0",
		"ret":         "DAY",
	}

	resp, err := c.post(ctx, "/PlaceOrder", payload, true)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return resp, nil
}

// IsSuccess is the Noren success predicate: stat == "Ok".
func (c *Client) IsSuccess(resp broker.Response) bool {
	stat, _ := resp["stat"].(string)
	return stat == "Ok"
}

// post sends a jData form payload, appending jKey when the call is signed.
func (c *Client) post(ctx context.Context, path string, values map[string]string, signed bool) (broker.Response, error) {
	jData, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal jData: %w", err)
	}

	body := "jData=" + string(jData)
	if signed {
		if c.token == "" {
			return nil, fmt.Errorf("no session: call Login or SetSession first")
		}
		body += "&jKey=" + c.token
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out broker.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// remarshal re-decodes a raw response into a typed view of it.
func remarshal(raw broker.Response, out any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
