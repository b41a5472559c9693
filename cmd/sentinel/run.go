package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"MarketSentinel/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "fetch the series, compute the snapshot and write every sink once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := newRecorder(cfg)
		defer out.all.Close()

		sched := scheduler.NewScheduler(ctx, newCollector(cfg), out.all, nil)
		res, err := sched.RunOnce(ctx)
		if err != nil {
			return err
		}

		log.Infof("wrote %s and %s", out.files.SnapshotPath(res.Snapshot.Instrument), out.files.TablePath(res.Snapshot.Instrument))
		return nil
	},
}
