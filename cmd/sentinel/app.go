package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"ReviewSentinel/internal/collector"
	"ReviewSentinel/internal/config"
	"ReviewSentinel/internal/detector"
	"ReviewSentinel/internal/logger"
	"ReviewSentinel/internal/metrics"
	"ReviewSentinel/internal/recorder"
)

// app holds the components every command shares.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	fetcher  *collector.TokopediaFetcher
	recorder recorder.Recorder
	detector *detector.Detector
}

func newApp(watch bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	validate := cfg.Validate
	if watch {
		validate = cfg.ValidateWatch
	}
	if err := validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	fetcher := collector.NewTokopediaFetcher(collector.FetcherOptions{
		BaseURL:           cfg.Marketplace.BaseURL,
		ProxyURL:          cfg.Proxy,
		Timeout:           cfg.Marketplace.Timeout,
		RequestsPerSecond: cfg.Marketplace.RequestsPerSecond,
		Burst:             cfg.Marketplace.Burst,
		BreakerTimeout:    cfg.Marketplace.BreakerTimeout,
		OnBreakerChange: func(name string, _, to gobreaker.State) {
			m.SetBreakerState(name, to)
		},
	}, log)
	log.Info("data source", zap.String("fetcher", fetcher.Name()), zap.String("base_url", cfg.Marketplace.BaseURL))

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	col := collector.NewCollector(fetcher, cfg.Analysis.PageSize, log)
	det := detector.New(col, rec, m, detector.Options{
		FullPages:             cfg.Analysis.FullPages,
		QuickPages:            cfg.Analysis.QuickPages,
		AlternativesThreshold: cfg.Analysis.AlternativesThreshold,
		SearchRows:            cfg.Analysis.SearchRows,
		MaxCandidates:         cfg.Analysis.MaxCandidates,
		TopSellers:            cfg.Analysis.TopSellers,
		SellerConcurrency:     cfg.Analysis.SellerConcurrency,
		Location:              loc,
	}, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		registry: reg,
		metrics:  m,
		fetcher:  fetcher,
		recorder: rec,
		detector: det,
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}
