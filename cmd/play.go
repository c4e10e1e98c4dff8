package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soundfolio/player/internal/app"
	"github.com/soundfolio/player/internal/errmsg"
	"github.com/soundfolio/player/internal/metrics"
	"github.com/soundfolio/player/internal/session"
	"github.com/soundfolio/player/internal/spectrum"
	"github.com/soundfolio/player/internal/stderr"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the player",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The terminal belongs to the UI; log to the file only.
		if err := setup(nil); err != nil {
			return err
		}

		if restore, err := stderr.Capture(log.Named("stderr")); err != nil {
			log.Warn("stderr capture unavailable", zap.Error(err))
		} else {
			defer restore()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var reg *prometheus.Registry
		if cfg.HasMetrics() {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			mc := cfg.GetMetricsConfig()
			go func() {
				if err := metrics.Serve(ctx, mc.Addr, mc.Path, reg, log.Named("metrics")); err != nil {
					log.Error("metrics server failed", zap.Error(err))
				}
			}()
		}

		sess, err := build(ctx, reg)
		if err != nil {
			return errmsg.Wrap(errmsg.OpInitialize, err)
		}
		defer func() {
			if cerr := sess.Close(); cerr != nil {
				log.Warn("close session", zap.Error(cerr))
			}
		}()

		vc := cfg.GetVisualizerConfig()
		interval := spectrum.Config{FrameRate: vc.FrameRate}.FrameInterval()
		log.Info("player started", zap.String("session", sess.ID()))
		return app.Run(ctx, sess, interval)
	},
}

// build keeps a nil *prometheus.Registry from turning into a non-nil
// Registerer interface.
func build(ctx context.Context, reg *prometheus.Registry) (*session.Session, error) {
	if reg == nil {
		return session.Build(ctx, cfg, log, nil)
	}
	return session.Build(ctx, cfg, log, reg)
}

func init() {
	rootCmd.AddCommand(playCmd)
}
