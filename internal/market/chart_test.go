package market

import (
	"context"
	"testing"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(prices ...float64) coingecko.PriceSeries {
	start := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	out := make(coingecko.PriceSeries, len(prices))
	for i, p := range prices {
		out[i] = coingecko.PricePoint{Time: start.Add(time.Duration(i) * 24 * time.Hour), Price: p}
	}
	return out
}

func TestFormatLabel(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "14:30", FormatLabel(ts, 1, time.UTC))
	for _, days := range []int{7, 30, 90, 365} {
		assert.Equal(t, "05/03", FormatLabel(ts, days, time.UTC))
	}

	tehran := time.FixedZone("IRST", 3*3600+1800)
	assert.Equal(t, "18:00", FormatLabel(ts, 1, tehran))
}

func TestValidWindow(t *testing.T) {
	for _, days := range Windows {
		assert.True(t, ValidWindow(days))
	}
	assert.False(t, ValidWindow(0))
	assert.False(t, ValidWindow(14))
}

func TestChartSelect(t *testing.T) {
	source := &fakeProvider{}
	chart := NewChartController(source, "bitcoin")
	assert.Equal(t, DefaultWindow, chart.Days())

	changed, err := chart.Select(14)
	require.ErrorIs(t, err, ErrInvalidWindow)
	assert.False(t, changed)
	assert.Equal(t, DefaultWindow, chart.Days())

	changed, err = chart.Select(DefaultWindow)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = chart.Select(30)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 30, chart.Days())
	assert.Zero(t, source.chartCalls.Load(), "an unmounted chart does not fetch")
}

func TestChartMountAndSelectFetch(t *testing.T) {
	source := &fakeProvider{
		charts: []gatedResult[coingecko.PriceSeries]{
			{value: series(1, 2, 3)},
			{value: series(4, 5)},
		},
	}
	chart := NewChartController(source, "bitcoin", WithLocation(time.UTC))

	assert.False(t, chart.View().Ready)

	chart.Mount(context.Background())
	require.Eventually(t, func() bool { return chart.View().Ready }, time.Second, time.Millisecond)

	view := chart.View()
	assert.Equal(t, DefaultWindow, view.Days)
	assert.Equal(t, []float64{1, 2, 3}, view.Prices)
	assert.Equal(t, []string{"05/03", "06/03", "07/03"}, view.Labels)
	assert.Equal(t, Windows, view.Windows)

	_, err := chart.Select(1)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(chart.View().Prices) == 2 }, time.Second, time.Millisecond)

	view = chart.View()
	assert.Equal(t, 1, view.Days)
	assert.Equal(t, []string{"14:30", "14:30"}, view.Labels)

	source.mu.Lock()
	assert.Equal(t, []int{7, 1}, source.chartDays)
	source.mu.Unlock()

	chart.Unmount()
}

func TestChartFailureKeepsSeries(t *testing.T) {
	source := &fakeProvider{
		charts: []gatedResult[coingecko.PriceSeries]{
			{value: series(1, 2, 3)},
			{err: errProvider},
		},
	}
	chart := NewChartController(source, "bitcoin", WithLocation(time.UTC))

	require.NoError(t, chart.Refresh(context.Background()))
	require.ErrorIs(t, chart.Refresh(context.Background()), errProvider)

	view := chart.View()
	assert.True(t, view.Ready)
	assert.Equal(t, []float64{1, 2, 3}, view.Prices)
}

func TestChartEmptyIDDoesNotMount(t *testing.T) {
	source := &fakeProvider{}
	chart := NewChartController(source, "")

	chart.Mount(context.Background())
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, source.chartCalls.Load())
}
