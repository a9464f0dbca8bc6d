package service

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/navid-fn/coinboard/internal/chart"
	"github.com/navid-fn/coinboard/internal/format"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/market"
	"github.com/navid-fn/coinboard/internal/shell"
	"github.com/navid-fn/coinboard/internal/theme"
	"github.com/navid-fn/coinboard/server/internal/model"
)

const (
	ChartWidth   = 800
	ChartHeight  = 300
	SkeletonRows = 10
)

var languageLabels = map[string]string{
	"en": "English",
	"ru": "Русский",
	"ar": "العربية",
}

// PagesService turns screen state and the shared preferences into page models.
type PagesService struct {
	i18n  *i18n.Store
	theme *theme.Store
}

func NewPagesService(translations *i18n.Store, themes *theme.Store) *PagesService {
	return &PagesService{
		i18n:  translations,
		theme: themes,
	}
}

func (ps *PagesService) Layout(screen *shell.Screen, route shell.Route, path string) model.Layout {
	active := ps.i18n.Language()

	languages := make([]model.LanguageOption, 0, len(ps.i18n.Languages()))
	for _, code := range ps.i18n.Languages() {
		label, ok := languageLabels[code]
		if !ok {
			label = strings.ToUpper(code)
		}
		languages = append(languages, model.LanguageOption{
			Code:   code,
			Label:  label,
			Active: code == active,
		})
	}

	return model.Layout{
		Lang:      active,
		Dir:       ps.i18n.Dir(),
		Theme:     ps.theme.Attribute(),
		Path:      path,
		Route:     route.Path(),
		Languages: languages,
		Version:   screen.Version(),
	}
}

// ListPage shows the list on screen and snapshots it narrowed by search.
func (ps *PagesService) ListPage(screen *shell.Screen, list *market.ListController, path, search string) model.ListPage {
	layout := ps.Layout(screen, shell.ListRoute(), path)
	return model.ListPage{
		Layout:   layout,
		Search:   search,
		View:     list.View(search),
		Skeleton: make([]int, SkeletonRows),
	}
}

func (ps *PagesService) DetailPage(screen *shell.Screen, detail *market.DetailController, prices *market.ChartController, path string) model.DetailPage {
	layout := ps.Layout(screen, shell.CoinRoute(detail.CoinID()), path)
	view := prices.View()

	panel := model.ChartPanel{
		ChartView: view,
		Paths:     chart.Build(view.Prices, ChartWidth, ChartHeight),
		Width:     ChartWidth,
		Height:    ChartHeight,
	}
	if n := len(view.Labels); n > 0 {
		panel.First, panel.Last = view.Labels[0], view.Labels[n-1]
	}
	for _, days := range view.Windows {
		panel.Options = append(panel.Options, model.WindowOption{
			Days:   days,
			Href:   market.CoinPath(detail.CoinID()) + "?days=" + strconv.Itoa(days),
			Active: days == view.Days,
		})
	}

	return model.DetailPage{
		Layout: layout,
		View:   detail.View(ps.i18n.Language()),
		Chart:  panel,
	}
}

func (ps *PagesService) ToggleTheme() (theme.Theme, error) {
	return ps.theme.Toggle()
}

func (ps *PagesService) SetLanguage(code string) error {
	return ps.i18n.SetLanguage(code)
}

// Funcs are the template helpers. Text and numbers follow the active language.
func (ps *PagesService) Funcs() template.FuncMap {
	return template.FuncMap{
		"t": ps.i18n.T,
		"usd": func(v float64) string {
			return format.USD(v, ps.i18n.Language())
		},
		"pct":      format.Percent,
		"up":       format.IsUp,
		"upper":    strings.ToUpper,
		"coinPath": market.CoinPath,
		"windowLabel": func(days int) string {
			return ps.i18n.T("chart_window", "days", days)
		},
	}
}
