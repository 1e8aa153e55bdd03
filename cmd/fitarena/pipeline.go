package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fitarena/fitarena/internal/analytics"
	"github.com/fitarena/fitarena/internal/anomaly"
	"github.com/fitarena/fitarena/internal/config"
	"github.com/fitarena/fitarena/internal/features"
	fio "github.com/fitarena/fitarena/internal/io"
	"github.com/fitarena/fitarena/internal/metrics"
	"github.com/fitarena/fitarena/internal/recommend"
	"github.com/fitarena/fitarena/internal/table"
)

var pipelineMetrics = newPipelineMetrics()

func newPipelineMetrics() *metrics.Registry {
	reg := metrics.NewRegistry()
	reg.Register(prometheus.DefaultRegisterer)
	return reg
}

// loadPipeline resolves config and input table from the command flags and
// runs the feature engine, the shared front half of every subcommand.
func loadPipeline(cmd *cobra.Command) (*config.PipelineConfig, *table.FeatureTable, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	input, _ := cmd.Flags().GetString("input")
	records, err := fio.LoadActivityCSV(input)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	ft := features.NewEngine(cfg.Features).BuildAll(records)
	pipelineMetrics.StageDuration.WithLabelValues("features").Observe(time.Since(start).Seconds())
	pipelineMetrics.RowsFeatured.Add(float64(ft.Len()))

	return cfg, ft, nil
}

func runFeatures(cmd *cobra.Command, args []string) error {
	_, ft, err := loadPipeline(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := fio.WriteJSONAtomic(output, ft.Rows); err != nil {
		return fmt.Errorf("failed to write feature table: %w", err)
	}
	log.Info().Str("output", output).Int("rows", ft.Len()).Msg("feature table written")
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, ft, err := loadPipeline(cmd)
	if err != nil {
		return err
	}

	method, _ := cmd.Flags().GetString("method")
	if method == "" {
		method = cfg.Anomaly.Method
	}

	fitMetrics := cfg.Anomaly.Metrics
	if flagged, _ := cmd.Flags().GetStringSlice("metrics"); len(flagged) > 0 {
		fitMetrics = flagged
	}

	detector := anomaly.NewDetector(cfg.Anomaly.Threshold)
	detector.Fit(ft, fitMetrics)

	start := time.Now()
	result, err := detector.Detect(ft, method)
	if err != nil {
		return err
	}
	pipelineMetrics.StageDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())
	pipelineMetrics.AnomaliesFlagged.WithLabelValues(method).Add(float64(result.Count()))

	output, _ := cmd.Flags().GetString("output")
	if err := fio.WriteJSONAtomic(output, result); err != nil {
		return fmt.Errorf("failed to write anomaly result: %w", err)
	}
	log.Info().Str("output", output).Int("anomalies", result.Count()).Msg("anomaly result written")
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, ft, err := loadPipeline(cmd)
	if err != nil {
		return err
	}

	athlete, _ := cmd.Flags().GetString("athlete")
	all, _ := cmd.Flags().GetBool("all")
	if athlete == "" && !all {
		return fmt.Errorf("either --athlete or --all is required")
	}

	engine := recommend.NewEngine(cfg.Rules)

	start := time.Now()
	var reports []*recommend.Report
	if all {
		reports, err = engine.Batch(ft, nil)
	} else {
		var rep *recommend.Report
		rep, err = engine.Comprehensive(ft, athlete)
		if rep != nil {
			reports = []*recommend.Report{rep}
		}
	}
	if err != nil {
		return err
	}
	pipelineMetrics.StageDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds())
	for _, rep := range reports {
		pipelineMetrics.RecommendationsGenerated.WithLabelValues("high").Add(float64(rep.HighPriorityCount))
		pipelineMetrics.RecommendationsGenerated.WithLabelValues("medium").Add(float64(rep.MediumPriorityCount))
		pipelineMetrics.RecommendationsGenerated.WithLabelValues("low").Add(float64(rep.LowPriorityCount))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := fio.WriteJSONAtomic(output, reports); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	log.Info().Str("output", output).Int("athletes", len(reports)).Msg("recommendations written")
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	_, ft, err := loadPipeline(cmd)
	if err != nil {
		return err
	}

	athlete, _ := cmd.Flags().GetString("athlete")
	if athlete == "" {
		return fmt.Errorf("--athlete is required")
	}

	start := time.Now()
	report := analytics.GeneratePerformanceReport(ft, athlete)
	pipelineMetrics.StageDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
	pipelineMetrics.ReportsGenerated.Inc()

	output, _ := cmd.Flags().GetString("output")
	if err := fio.WriteJSONAtomic(output, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("output", output).Str("athlete", athlete).Msg("performance report written")
	return nil
}
