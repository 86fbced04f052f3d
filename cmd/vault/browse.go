package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Cyclone1070/vault/internal/ui"
	"github.com/Cyclone1070/vault/internal/ui/services"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func runBrowse(ctx context.Context, a *app, args []string) error {
	flagSet := pflag.NewFlagSet("browse", pflag.ContinueOnError)
	metricsAddr := flagSet.String("metrics-addr", "", "serve Prometheus metrics on this address while browsing")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           metricsMux(a),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.log.Info("serving metrics", zap.String("addr", *metricsAddr))
	}

	explorer := ui.NewUI(ctx, a.ws, a.cfg.UI, services.GlamourRenderer{}, ui.DefaultSpinner)
	a.store.OnStatus(explorer.SetSaveStatus)
	return explorer.Start()
}

func metricsMux(a *app) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}
