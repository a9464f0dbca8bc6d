package shell

import (
	"net/url"
	"strings"
)

type Kind int

const (
	KindList Kind = iota
	KindCoin
)

// Route is a resolved location: the coin list or one coin's detail.
type Route struct {
	Kind   Kind
	CoinID string
}

func ListRoute() Route { return Route{Kind: KindList} }

func CoinRoute(id string) Route { return Route{Kind: KindCoin, CoinID: id} }

// ParseRoute resolves "/" and "/coin/{id}". Anything else is unknown.
func ParseRoute(path string) (Route, bool) {
	if path == "" || path == "/" {
		return ListRoute(), true
	}

	rest, ok := strings.CutPrefix(path, "/coin/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{}, false
	}
	id, err := url.PathUnescape(rest)
	if err != nil || id == "" {
		return Route{}, false
	}
	return CoinRoute(id), true
}

func (r Route) Path() string {
	if r.Kind == KindCoin {
		return "/coin/" + url.PathEscape(r.CoinID)
	}
	return "/"
}
