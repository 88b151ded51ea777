package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"btree/bench"
)

func newBenchCommand() *cobra.Command {
	cfg := bench.NewConfig()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure cumulative insert, search and delete time on random keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(cmd.Flags()); err != nil {
				return err
			}
			return runBench(cfg)
		},
	}
	cfg.RegisterFlags(cmd.Flags())
	return cmd
}

func runBench(cfg *bench.Config) error {
	lg, props, err := log.InitLogger(&cfg.Log, zap.AddStacktrace(zap.FatalLevel))
	if err != nil {
		return errors.Annotate(err, "init logger")
	}
	log.ReplaceGlobals(lg, props)
	defer func() {
		_ = log.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := bench.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		srv, addr, err := bench.ServeMetrics(cfg.MetricsAddr, reg)
		if err != nil {
			return err
		}
		defer srv.Close()
		log.Info("serving metrics", zap.String("addr", addr))
	}

	res, err := bench.Run(ctx, cfg, metrics)
	if err != nil {
		log.Error("bench failed", zap.Error(err))
		return err
	}
	res.LogSummary()

	if cfg.Chart == "" {
		return nil
	}
	f, err := os.Create(cfg.Chart)
	if err != nil {
		return errors.Annotatef(err, "create chart file %s", cfg.Chart)
	}
	defer f.Close()
	if err := bench.RenderChart(f, res); err != nil {
		return err
	}
	log.Info("chart written", zap.String("path", cfg.Chart))
	return nil
}
