package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"dwight/internal/config"
	"dwight/internal/logger"
)

const chartPath = "/v8/finance/chart/{symbol}"

// chartResponse is the subset of the Yahoo Finance v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				RegularMarketTime  *int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooProvider reads daily closes from the Yahoo Finance chart API.
type YahooProvider struct {
	client *resty.Client
}

// NewYahooProvider creates a YahooProvider from the market settings.
func NewYahooProvider(cfg config.Market) *YahooProvider {
	client := resty.New().
		SetDebug(cfg.Debug).
		SetTimeout(cfg.Timeout).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; dwight/1.0)")
	return &YahooProvider{client: client}
}

// LastPrice returns the most recent daily close, falling back to the
// regular market price, rounded to cents.
func (p *YahooProvider) LastPrice(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.TrimSpace(symbol)
	log := logger.Get()

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "5d",
		}).
		Get(chartPath)
	if err != nil {
		log.Errorw("error while dialing market data provider", "error", err, "symbol", symbol)
		return nil, fmt.Errorf("market data request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNoPriceData
	}
	if resp.IsError() {
		return nil, fmt.Errorf("market data provider returned %s", resp.Status())
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		log.Errorw("can't unmarshal chart response", "error", err, "symbol", symbol)
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	return parseChart(symbol, &chart)
}

func parseChart(symbol string, chart *chartResponse) (*Quote, error) {
	if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
		return nil, ErrNoPriceData
	}
	result := chart.Chart.Result[0]

	var (
		price *float64
		asOf  time.Time
	)
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] == nil {
				continue
			}
			price = closes[i]
			if i < len(result.Timestamp) {
				asOf = time.Unix(result.Timestamp[i], 0).UTC()
			}
			break
		}
	}
	if price == nil && result.Meta.RegularMarketPrice != nil {
		price = result.Meta.RegularMarketPrice
		if result.Meta.RegularMarketTime != nil {
			asOf = time.Unix(*result.Meta.RegularMarketTime, 0).UTC()
		}
	}
	if price == nil {
		return nil, ErrNoPriceData
	}

	if result.Meta.Symbol != "" {
		symbol = result.Meta.Symbol
	}
	rounded, _ := decimal.NewFromFloat(*price).Round(2).Float64()
	return &Quote{Symbol: symbol, CurrentPrice: rounded, AsOf: asOf}, nil
}
