package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/publisher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coins() []coingecko.CoinSummary {
	return []coingecko.CoinSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 64000, PriceChangePercentage24h: 1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3100, PriceChangePercentage24h: -2},
	}
}

func TestPrintTop(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printTop(&buf, tr, coins(), "", 0))
	out := buf.String()
	assert.Less(t, strings.Index(out, "Bitcoin"), strings.Index(out, "Ethereum"))
	assert.Contains(t, out, "$64,000")
	assert.Contains(t, out, "-2.00%")

	buf.Reset()
	require.NoError(t, printTop(&buf, tr, coins(), "", 1))
	assert.NotContains(t, buf.String(), "Ethereum")

	buf.Reset()
	require.NoError(t, printTop(&buf, tr, coins(), "doge", 0))
	assert.Contains(t, buf.String(), "No coins match your search.")
}

func TestPrintCoin(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)

	detail := &coingecko.CoinDetail{
		Name:        "Bitcoin",
		Symbol:      "btc",
		Description: map[string]string{"en": "<b>Peer</b> to peer cash."},
		MarketData:  &coingecko.MarketData{CurrentPrice: coingecko.ConvertedData{USD: 64000}},
	}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	series := coingecko.PriceSeries{
		{Time: start, Price: 1},
		{Time: start.Add(24 * time.Hour), Price: 3},
		{Time: start.Add(48 * time.Hour), Price: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, printCoin(&buf, tr, detail, series, 7, time.UTC))
	out := buf.String()
	assert.Contains(t, out, "Bitcoin (BTC)")
	assert.Contains(t, out, "$64,000")
	assert.Contains(t, out, "01/03 - 03/03")
	assert.Contains(t, out, "About Bitcoin")
	assert.Contains(t, out, "Peer to peer cash.")

	buf.Reset()
	require.NoError(t, printCoin(&buf, tr, nil, nil, 7, time.UTC))
	assert.Contains(t, buf.String(), "Coin not found.")
}

func TestPrintSnapshot(t *testing.T) {
	at := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, printSnapshot(&buf, publisher.NewSnapshot(coins(), at), time.UTC))
	assert.Equal(t, "2024-03-01 09:30:00  2 coins  BTC $64,000  ETH $3,100\n", buf.String())
}
