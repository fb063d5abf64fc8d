// Package market looks up last-traded prices from an external data source.
// It is not connected to the holdings store.
package market

import (
	"context"
	"errors"
	"time"
)

// ErrNoPriceData is returned when the source knows nothing about a symbol.
var ErrNoPriceData = errors.New("no price data")

// Quote is the last known price for a symbol.
type Quote struct {
	Symbol       string    `json:"symbol" example:"AAPL"`
	CurrentPrice float64   `json:"current_price" example:"189.84"`
	AsOf         time.Time `json:"as_of"`
}

// PriceProvider fetches the last price for a symbol.
type PriceProvider interface {
	LastPrice(ctx context.Context, symbol string) (*Quote, error)
}
