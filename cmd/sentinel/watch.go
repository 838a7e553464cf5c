package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ReviewSentinel/internal/collector"
	"ReviewSentinel/internal/notifier"
	"ReviewSentinel/internal/scheduler"
	"ReviewSentinel/internal/watchlist"
)

func watchCommand() *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyze the watchlist on a schedule and alert over Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if os.Getenv("RUN_ON_START") == "true" {
				runNow = true
			}
			return runWatch(cmd.Context(), a, runNow)
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "analyze the watchlist immediately on start")
	return cmd
}

func runWatch(ctx context.Context, a *app, runNow bool) error {
	log := a.logger
	cfg := a.cfg

	wl, err := watchlist.NewManager(cfg.Watch.StateFile, cfg.Watch.AlertScore, cfg.Watch.AlertCooldown, log)
	if err != nil {
		return err
	}
	for _, u := range cfg.Watch.Products {
		if err := collector.ValidateProductURL(u); err != nil {
			log.Warn("skipping configured product", zap.Error(err))
			continue
		}
		if _, err := wl.Add(u); err != nil {
			return err
		}
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, a.detector, wl, tn, a.metrics, log)
	if err := sched.RegisterAll(cfg.Watch.Cron, cfg.Watch.DigestCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("telegram polling started")

	if runNow {
		log.Info("running watch task on start")
		go sched.RunWatchNow()
	}

	log.Info("ReviewSentinel is watching", zap.Int("products", len(wl.URLs())), zap.String("cron", cfg.Watch.Cron))
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	return nil
}
