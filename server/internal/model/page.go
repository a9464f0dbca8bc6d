package model

import (
	"github.com/navid-fn/coinboard/internal/chart"
	"github.com/navid-fn/coinboard/internal/market"
)

// Layout carries what every page renders around its body.
type Layout struct {
	Lang      string
	Dir       string
	Theme     string
	Path      string
	// Route is the view the page shows; its socket only refreshes while the
	// screen still shows it.
	Route     string
	Languages []LanguageOption
	// Version is the screen change count the page was rendered at.
	Version uint64
}

type LanguageOption struct {
	Code   string
	Label  string
	Active bool
}

type ListPage struct {
	Layout
	Search   string
	View     market.ListView
	Skeleton []int
}

type DetailPage struct {
	Layout
	View  market.DetailView
	Chart ChartPanel
}

type ChartPanel struct {
	market.ChartView
	Paths   chart.Paths
	Width   int
	Height  int
	First   string
	Last    string
	Options []WindowOption
}

type WindowOption struct {
	Days   int
	Href   string
	Active bool
}
