// Package fivepaisa implements the broker capability set against the 5paisa
// OpenAPI. Sessions are established out of band; the client only needs the
// access token from the user's config.
package fivepaisa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/optioner/broker"
)

// DefaultBaseURL is the production OpenAPI endpoint.
const DefaultBaseURL = "https://openapi.5paisa.com/VendorsAPI/Service1.svc"

type Config struct {
	BaseURL     string // defaults to DefaultBaseURL
	AppKey      string
	ClientCode  string
	AccessToken string // session token, established before the run
	Timeout     time.Duration
}

type Client struct {
	baseURL    string
	appKey     string
	clientCode string
	token      string
	httpClient *http.Client
}

// New creates a 5paisa client from an already-established session.
func New(cfg Config) *Client {
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
		appKey:     cfg.AppKey,
		clientCode: cfg.ClientCode,
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "fivepaisa" }

// head is the request envelope every OpenAPI call carries.
type head struct {
	Key string `json:"key"`
}

type feedScrip struct {
	Exch        string `json:"Exch"`
	ExchType    string `json:"ExchType"`
	Symbol      string `json:"Symbol"`
	Expiry      string `json:"Expiry"`
	StrikePrice string `json:"StrikePrice"`
	OptionType  string `json:"OptionType"`
}

type feedRequest struct {
	Head head `json:"head"`
	Body struct {
		ClientCode     string      `json:"ClientCode"`
		MarketFeedData []feedScrip `json:"MarketFeedData"`
	} `json:"body"`
}

type feedResponse struct {
	Body struct {
		Data []struct {
			Token int `json:"Token"`
		} `json:"Data"`
	} `json:"body"`
}

// Symbol builds the display symbol 5paisa expects for an option contract,
// e.g. "BANKNIFTY 08 JUN 2023 CE 44000.00".
func Symbol(q broker.OptionQuery) string {
	return fmt.Sprintf("%s %s %s %s %s %.2f",
		strings.ToUpper(q.Scrip),
		q.Expiry.Format("02"),
		strings.ToUpper(q.Expiry.Format("Jan")),
		q.Expiry.Format("2006"),
		q.Opt,
		float64(q.Strike),
	)
}

// ResolveInstrument looks the contract up through the market feed and returns
// its scrip code.
func (c *Client) ResolveInstrument(ctx context.Context, q broker.OptionQuery) (broker.Instrument, error) {
	sym := Symbol(q)

	req := feedRequest{Head: head{Key: c.appKey}}
	req.Body.ClientCode = c.clientCode
	req.Body.MarketFeedData = []feedScrip{{
		Exch:        "N",
		ExchType:    "D",
		Symbol:      sym,
		Expiry:      q.Expiry.Format("20060102"),
		StrikePrice: strconv.Itoa(q.Strike),
		OptionType:  string(q.Opt),
	}}

	var resp feedResponse
	if err := c.post(ctx, "/V1/MarketFeed", req, &resp); err != nil {
		return broker.Instrument{}, fmt.Errorf("market feed: %w", err)
	}
	if len(resp.Body.Data) == 0 {
		return broker.Instrument{}, fmt.Errorf("no scrip code for %q", sym)
	}

	return broker.Instrument{
		Symbol: sym,
		Token:  strconv.Itoa(resp.Body.Data[0].Token),
	}, nil
}

type orderRequest struct {
	Head head `json:"head"`
	Body struct {
		ClientCode   string `json:"ClientCode"`
		OrderType    string `json:"OrderType"`
		Exchange     string `json:"Exchange"`
		ExchangeType string `json:"ExchangeType"`
		ScripCode    int    `json:"ScripCode"`
		Qty          int    `json:"Qty"`
		Price        int    `json:"Price"`
		IsIntraday   bool   `json:"IsIntraday"`
		AtMarket     bool   `json:"AtMarket"`
	} `json:"body"`
}

type orderResponse struct {
	Body broker.Response `json:"body"`
}

// PlaceOrder submits a delivery market order on the NSE derivatives segment.
func (c *Client) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.Response, error) {
	code, err := strconv.Atoi(req.Instrument.Token)
	if err != nil {
		return nil, fmt.Errorf("bad scrip code %q: %w", req.Instrument.Token, err)
	}

	order := orderRequest{Head: head{Key: c.appKey}}
	order.Body.ClientCode = c.clientCode
	order.Body.OrderType = string(req.Side)
	order.Body.Exchange = "N"
	order.Body.ExchangeType = "D"
	order.Body.ScripCode = code
	order.Body.Qty = req.Qty
	order.Body.Price = 0
	order.Body.AtMarket = true

	var resp orderResponse
	if err := c.post(ctx, "/V1/PlaceOrderRequest", order, &resp); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return resp.Body, nil
}

// IsSuccess is the 5paisa success predicate: Message == "Success".
func (c *Client) IsSuccess(resp broker.Response) bool {
	msg, _ := resp["Message"].(string)
	return msg == "Success"
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
