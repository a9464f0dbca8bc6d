package coingecko

import "time"

// CoinSummary is one row of the markets endpoint.
type CoinSummary struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

type CoinDetail struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	Image       Image             `json:"image"`
	Description map[string]string `json:"description"`
	MarketData  *MarketData       `json:"market_data"`
}

type Image struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// MarketData keeps the USD leg of every quote the detail screen shows.
type MarketData struct {
	CurrentPrice ConvertedData `json:"current_price"`
	MarketCap    ConvertedData `json:"market_cap"`
	TotalVolume  ConvertedData `json:"total_volume"`
	High24h      ConvertedData `json:"high_24h"`
	Low24h       ConvertedData `json:"low_24h"`
}

type ConvertedData struct {
	USD float64 `json:"usd"`
}

type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries is ordered as the provider returned it.
type PriceSeries []PricePoint

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}
