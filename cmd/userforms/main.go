// Command userforms serves the login, signup and profile forms.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tinywasm/userforms"
)

func main() {
	cfg, err := userforms.ParseConfig()
	if err != nil {
		logrus.WithError(err).Fatal("parse config")
	}
	logger, err := userforms.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("init logger")
	}

	db, err := userforms.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("open database")
	}
	defer db.Close()

	srv, err := userforms.NewServer(cfg, userforms.NewExecutor(db), logger)
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeLoop(ctx, srv, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", cfg.Addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("serve")
	}
}

func purgeLoop(ctx context.Context, srv *userforms.Server, logger logrus.FieldLogger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := srv.Purge(); err != nil {
				logger.WithError(err).Warn("purge")
			}
		}
	}
}
