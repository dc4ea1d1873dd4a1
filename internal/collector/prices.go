package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	DefaultTickerURL = "https://api.binance.com/api/v3/ticker/price"
	DefaultFXURL     = "https://api.exchangerate-api.com/v4/latest/USD"
	ioSymbol         = "IOUSDT"
)

type tickerResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type fxResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// PriceClient получает цену IO в USDT и курс USD/CNY
type PriceClient struct {
	client    *resty.Client
	tickerURL string
	fxURL     string
}

func NewPriceClient(tickerURL, fxURL string, timeout time.Duration) *PriceClient {
	client := resty.New()
	client.SetTimeout(timeout)

	return &PriceClient{
		client:    client,
		tickerURL: tickerURL,
		fxURL:     fxURL,
	}
}

func (c *PriceClient) IOPrice(ctx context.Context) (decimal.Decimal, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", ioSymbol).
		Get(c.tickerURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("requesting io price: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("requesting io price: unexpected status code: %d", resp.StatusCode())
	}

	var ticker tickerResponse
	if err := json.Unmarshal(resp.Body(), &ticker); err != nil {
		return decimal.Zero, fmt.Errorf("decoding io price: %w", err)
	}
	if !ticker.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("io price must be positive, got %s", ticker.Price)
	}
	return ticker.Price, nil
}

func (c *PriceClient) USDCNYRate(ctx context.Context) (decimal.Decimal, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.fxURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("requesting fx rates: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("requesting fx rates: unexpected status code: %d", resp.StatusCode())
	}

	var fx fxResponse
	if err := json.Unmarshal(resp.Body(), &fx); err != nil {
		return decimal.Zero, fmt.Errorf("decoding fx rates: %w", err)
	}

	rate, ok := fx.Rates["CNY"]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("CNY rate missing from fx response")
	}
	return rate, nil
}
