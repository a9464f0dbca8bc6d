// Package server serves the dashboard pages and their refresh socket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/shell"
	"github.com/navid-fn/coinboard/internal/theme"
	"github.com/navid-fn/coinboard/server/internal/handler"
	"github.com/navid-fn/coinboard/server/internal/router"
	"github.com/navid-fn/coinboard/server/internal/service"
	"github.com/navid-fn/coinboard/server/internal/templates"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Port       string
	Registry   *shell.Registry
	I18n       *i18n.Store
	Theme      *theme.Store
	Logger     *logrus.Logger
	ScreenIdle time.Duration
	Debug      bool
}

type Server struct {
	cfg    Config
	engine *gin.Engine
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	pages := service.NewPagesService(cfg.I18n, cfg.Theme)
	tmpl, err := templates.Parse(pages.Funcs())
	if err != nil {
		return nil, err
	}

	engine := router.NewRouter(&router.Config{
		PageHandler: handler.NewPageHandler(pages, cfg.Registry, cfg.Logger),
		WSHandler:   handler.NewWSHandler(cfg.Registry, cfg.Logger),
		Templates:   tmpl,
		Logger:      cfg.Logger,
	})

	return &Server{cfg: cfg, engine: engine}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down and closes every screen.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.Port),
		Handler: s.engine,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.cfg.Registry.Run(janitorCtx, s.cfg.ScreenIdle)

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.cfg.Registry.Close()
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("Received shutdown signal, gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; closing the
	// screens releases them.
	s.cfg.Registry.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
