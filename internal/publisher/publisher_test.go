package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.FixedZone("IRST", 12600))
	coins := []coingecko.CoinSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 64000, PriceChangePercentage24h: -1.5},
	}

	data, err := Encode(coins, at)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "2024-05-01T06:30:00Z", got["fetched_at"])
	assert.Equal(t, 1.0, got["count"])

	entry := got["coins"].([]any)[0].(map[string]any)
	assert.Equal(t, "bitcoin", entry["id"])
	assert.Equal(t, 64000.0, entry["price"])
	assert.Equal(t, -1.5, entry["price_change_percentage_24h"])
}

func TestNopPublisher(t *testing.T) {
	var pub Publisher = Nop{}
	assert.NoError(t, pub.PublishMarkets(context.Background(), nil))
	pub.Close()
}

type failingPublisher struct{ Nop }

func (failingPublisher) PublishMarkets(context.Context, []coingecko.CoinSummary) error {
	return errors.New("broker down")
}

func TestObserverLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	Observer(context.Background(), failingPublisher{}, logger)(nil)
	assert.Contains(t, buf.String(), "broker down")
}
