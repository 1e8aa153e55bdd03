package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "v1.0.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "fitarena",
		Short:   "Athlete activity analytics pipeline",
		Version: version,
		Long: `FitArena ingests per-athlete daily activity snapshots and produces
engineered features, statistical anomaly flags, and prioritized
personalized recommendations.`,
	}
	rootCmd.PersistentFlags().String("config", "", "Pipeline config YAML (defaults apply when omitted)")
	rootCmd.PersistentFlags().String("input", "activity.csv", "Activity records CSV snapshot")

	featuresCmd := &cobra.Command{
		Use:   "features",
		Short: "Run the feature engine",
		Long:  "Computes calendar, activity, performance and windowed features for every record",
		RunE:  runFeatures,
	}
	featuresCmd.Flags().String("output", "out/features.json", "Feature table output path")

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Fit and run anomaly detection",
		Long:  "Fits reference statistics on the input table and flags anomalous athlete-days",
		RunE:  runDetect,
	}
	detectCmd.Flags().String("method", "zscore", "Detection method (zscore|iqr)")
	detectCmd.Flags().StringSlice("metrics", nil, "Metrics to score (default: config)")
	detectCmd.Flags().String("output", "out/anomalies.json", "Anomaly result output path")

	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate personalized recommendations",
		Long:  "Analyzes activity patterns and emits prioritized recommendations per athlete",
		RunE:  runRecommend,
	}
	recommendCmd.Flags().String("athlete", "", "Athlete ID (required unless --all)")
	recommendCmd.Flags().Bool("all", false, "Generate for every athlete in the table")
	recommendCmd.Flags().String("output", "out/recommendations.json", "Recommendation output path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a performance report",
		Long:  "Builds the comprehensive analytics report for one athlete",
		RunE:  runReport,
	}
	reportCmd.Flags().String("athlete", "", "Athlete ID (required)")
	reportCmd.Flags().String("output", "out/report.json", "Report output path")

	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
