package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/market"
	"github.com/navid-fn/coinboard/internal/shell"
	"github.com/navid-fn/coinboard/server/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	ScreenCookie    = "coinboard_screen"
	screenCookieAge = 30 * 24 * 60 * 60
	screenKey       = "screen"
)

type PageHandler struct {
	pages    *service.PagesService
	registry *shell.Registry
	logger   *logrus.Entry
}

func NewPageHandler(pages *service.PagesService, registry *shell.Registry, logger *logrus.Logger) *PageHandler {
	return &PageHandler{
		pages:    pages,
		registry: registry,
		logger:   logger.WithField("component", "pages"),
	}
}

// Session attaches the caller's screen, opening one for new visitors.
func (h *PageHandler) Session(c *gin.Context) {
	id, _ := c.Cookie(ScreenCookie)
	screen := h.registry.GetOrOpen(id)
	if screen.ID() != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ScreenCookie, screen.ID(), screenCookieAge, "/", "", false, true)
	}
	c.Set(screenKey, screen)
	c.Next()
}

func screenOf(c *gin.Context) *shell.Screen {
	return c.MustGet(screenKey).(*shell.Screen)
}

func (h *PageHandler) List(c *gin.Context) {
	screen := screenOf(c)
	list := screen.ShowList(c.Request.Context())
	if list == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	page := h.pages.ListPage(screen, list, c.Request.URL.RequestURI(), c.Query("q"))
	c.HTML(http.StatusOK, "list", page)
}

func (h *PageHandler) Coin(c *gin.Context) {
	screen := screenOf(c)
	coinID := c.Param("coinId")

	days := 0
	if raw := c.Query("days"); raw != "" {
		days, _ = strconv.Atoi(raw)
	}

	detail, chart, err := screen.ShowCoin(c.Request.Context(), coinID, days)
	if detail == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if errors.Is(err, market.ErrInvalidWindow) {
		h.logger.WithField("days", c.Query("days")).Debug("ignoring invalid chart window")
	}

	page := h.pages.DetailPage(screen, detail, chart, c.Request.URL.RequestURI())
	c.HTML(http.StatusOK, "detail", page)
}

func (h *PageHandler) ToggleTheme(c *gin.Context) {
	if _, err := h.pages.ToggleTheme(); err != nil {
		h.logger.Errorf("Failed to toggle theme: %v", err)
		c.String(http.StatusInternalServerError, "failed to save theme")
		return
	}
	c.Redirect(http.StatusSeeOther, nextPath(c.PostForm("next")))
}

func (h *PageHandler) SetLanguage(c *gin.Context) {
	if err := h.pages.SetLanguage(c.Param("code")); err != nil {
		if errors.Is(err, i18n.ErrUnknownLanguage) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("Failed to set language: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusSeeOther, nextPath(c.PostForm("next")))
}

func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"screens": h.registry.Len(),
	})
}

// nextPath keeps a post-action redirect on one of our own pages.
func nextPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	route, ok := shell.ParseRoute(u.EscapedPath())
	if !ok {
		return "/"
	}
	if u.RawQuery != "" {
		return route.Path() + "?" + u.RawQuery
	}
	return route.Path()
}
