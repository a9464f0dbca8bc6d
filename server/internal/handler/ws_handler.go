package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/navid-fn/coinboard/internal/shell"
	"github.com/sirupsen/logrus"
)

const (
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
	PongTimeout  = 10 * time.Second
)

// RefreshMessage tells the page to reload itself.
type RefreshMessage struct {
	Type string `json:"type"`
}

var refresh = RefreshMessage{Type: "refresh"}

type WSHandler struct {
	registry *shell.Registry
	upgrader websocket.Upgrader
	logger   *logrus.Entry
}

func NewWSHandler(registry *shell.Registry, logger *logrus.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithField("component", "ws"),
	}
}

// Serve pushes a refresh message whenever the caller's screen changes while
// it still shows the page's route. A page rendered at an older version is
// refreshed right away. Pages whose route was replaced by another tab stay
// quiet, so two tabs sharing a screen never reload each other.
func (h *WSHandler) Serve(c *gin.Context) {
	route, ok := shell.ParseRoute(c.Query("route"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	id, _ := c.Cookie(ScreenCookie)
	screen, ok := h.registry.Get(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	updates, release := screen.Subscribe()
	defer release()

	logger := h.logger.WithFields(logrus.Fields{"screen": screen.ID(), "route": route.Path()})
	logger.Debug("client connected")

	conn.SetReadDeadline(time.Now().Add(PingInterval + PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PingInterval + PongTimeout))
	})

	// The page never sends; reading only surfaces close frames and deadlines.
	readErrors := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErrors <- err
				return
			}
		}
	}()

	rendered, err := strconv.ParseUint(c.Query("v"), 10, 64)
	if err == nil && rendered != screen.Version() && screen.Shows(route) {
		if err := h.send(conn, refresh); err != nil {
			logger.Debugf("send failed: %v", err)
			return
		}
	}

	pingTicker := time.NewTicker(PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return

		case err := <-readErrors:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("read error: %v", err)
			}
			return

		case _, open := <-updates:
			if !open {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "screen closed"),
					time.Now().Add(WriteTimeout))
				return
			}
			if !screen.Shows(route) {
				logger.Debug("skipping refresh for a replaced view")
				continue
			}
			if err := h.send(conn, refresh); err != nil {
				logger.Debugf("send failed: %v", err)
				return
			}

		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteTimeout)); err != nil {
				logger.Debugf("ping failed: %v", err)
				return
			}
		}
	}
}

func (h *WSHandler) send(conn *websocket.Conn, msg RefreshMessage) error {
	conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteJSON(msg)
}
