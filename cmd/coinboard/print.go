package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/format"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/market"
	"github.com/navid-fn/coinboard/internal/publisher"
)

const (
	graphHeight = 12
	graphWidth  = 70
)

func printTop(w io.Writer, tr *i18n.Store, coins []coingecko.CoinSummary, search string, limit int) error {
	coins = market.FilterCoins(coins, search)
	if limit > 0 && len(coins) > limit {
		coins = coins[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t\t%s\t%s\n", tr.T("coin"), tr.T("price"), tr.T("change"))
	if len(coins) == 0 {
		fmt.Fprintln(tw, tr.T("no_results"))
	}
	for _, c := range coins {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.Name,
			strings.ToUpper(c.Symbol),
			format.USD(c.CurrentPrice, tr.Language()),
			format.Percent(c.PriceChangePercentage24h),
		)
	}
	return tw.Flush()
}

func printCoin(w io.Writer, tr *i18n.Store, detail *coingecko.CoinDetail, series coingecko.PriceSeries, days int, loc *time.Location) error {
	if detail == nil {
		_, err := fmt.Fprintln(w, tr.T("not_found"))
		return err
	}

	lang := tr.Language()
	fmt.Fprintf(w, "%s (%s)\n\n", detail.Name, strings.ToUpper(detail.Symbol))

	if md := detail.MarketData; md != nil {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s\n", tr.T("price"), format.USD(md.CurrentPrice.USD, lang))
		fmt.Fprintf(tw, "%s\t%s\n", tr.T("market_cap"), format.USD(md.MarketCap.USD, lang))
		fmt.Fprintf(tw, "%s\t%s\n", tr.T("volume_24h"), format.USD(md.TotalVolume.USD, lang))
		fmt.Fprintf(tw, "%s\t%s\n", tr.T("high_24h"), format.USD(md.High24h.USD, lang))
		fmt.Fprintf(tw, "%s\t%s\n", tr.T("low_24h"), format.USD(md.Low24h.USD, lang))
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(series) > 0 {
		prices := make([]float64, len(series))
		for i, p := range series {
			prices[i] = p.Price
		}
		caption := fmt.Sprintf("%s, %s  %s - %s",
			tr.T("price_chart"),
			tr.T("chart_window", "days", days),
			market.FormatLabel(series[0].Time, days, loc),
			market.FormatLabel(series[len(series)-1].Time, days, loc),
		)
		fmt.Fprintln(w, asciigraph.Plot(prices,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(caption),
		))
		fmt.Fprintln(w)
	}

	if description := market.LocalizedDescription(detail.Description, lang); description != "" {
		fmt.Fprintln(w, tr.T("about", "coinName", detail.Name))
		fmt.Fprintln(w, description)
	}
	return nil
}

// printSnapshot writes one line per snapshot with its leading coins.
func printSnapshot(w io.Writer, snapshot publisher.MarketSnapshot, loc *time.Location) error {
	const shown = 3

	parts := make([]string, 0, shown)
	for _, c := range snapshot.Coins[:min(shown, len(snapshot.Coins))] {
		parts = append(parts, fmt.Sprintf("%s %s", strings.ToUpper(c.Symbol), format.USD(c.Price, "en")))
	}
	_, err := fmt.Fprintf(w, "%s  %d coins  %s\n",
		snapshot.FetchedAt.In(loc).Format(time.DateTime), snapshot.Count, strings.Join(parts, "  "))
	return err
}
