package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"MarketSentinel/internal/metrics"
	"MarketSentinel/internal/scheduler"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the snapshot on the daily cron and expose /metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := newRecorder(cfg)
		defer out.all.Close()

		m := metrics.New()
		sched := scheduler.NewScheduler(ctx, newCollector(cfg), out.all, m)
		if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		g, ctx := errgroup.WithContext(ctx)

		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			log.Infof("metrics listening on %s", cfg.Metrics.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if out.telegram != nil {
			g.Go(func() error {
				out.telegram.StartPolling(ctx, sched.HandleCommand)
				return nil
			})
			log.Info("telegram polling started")
		}

		if runOnStart || os.Getenv("RUN_ON_START") == "true" {
			log.Info("running snapshot on start")
			g.Go(func() error {
				if _, err := sched.RunOnce(ctx); err != nil {
					log.WithError(err).Error("snapshot on start failed")
				}
				return nil
			})
		}

		log.Info("MarketSentinel is running. Press Ctrl+C to stop.")
		err = g.Wait()
		log.Info("MarketSentinel stopped")
		return err
	},
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-now", false, "compute a snapshot immediately instead of waiting for the cron")
}
