// Package anomaly flags athlete-days whose metrics fall outside reference
// distributions fitted from a training table.
package anomaly

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// Detection methods.
const (
	MethodZScore = "zscore"
	MethodIQR    = "iqr"
)

// DefaultThreshold is the z-score cutoff used when none is configured.
const DefaultThreshold = 2.5

// stdGuard keeps z-scores finite for zero-variance training columns.
const stdGuard = 1e-6

// ErrNotFitted is returned when Detect is called before Fit. This is a
// programming error in the caller, not a data condition.
var ErrNotFitted = errors.New("anomaly: detector not fitted")

// FittedStats is the frozen reference distribution for one metric.
type FittedStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Q1   float64 `json:"q1"`
	Q3   float64 `json:"q3"`
	IQR  float64 `json:"iqr"`
}

// Detector scores rows against statistics frozen at fit time. It has two
// states, unfitted and fitted; Fit transitions it and may be called again
// to replace the statistics wholesale. Fit and Detect need external
// synchronization if invoked concurrently.
type Detector struct {
	threshold float64
	fitted    map[string]FittedStats
}

// NewDetector creates a detector with the given z-score threshold; zero or
// negative falls back to DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Fit computes reference statistics for each requested metric present in
// the training table. Metrics the table does not carry are skipped.
// Calling Fit again replaces any prior statistics.
func (d *Detector) Fit(ft *table.FeatureTable, metrics []string) {
	fitted := make(map[string]FittedStats, len(metrics))
	for _, m := range metrics {
		col, ok := ft.Column(m)
		if !ok {
			continue
		}
		q1 := stats.Quantile(col, 0.25)
		q3 := stats.Quantile(col, 0.75)
		fitted[m] = FittedStats{
			Mean: stats.Mean(col),
			Std:  stats.SampleStd(col),
			Q1:   q1,
			Q3:   q3,
			IQR:  q3 - q1,
		}
	}
	d.fitted = fitted
	log.Info().Int("metrics", len(fitted)).Msg("anomaly detector fitted")
}

// Fitted reports whether Fit has been called.
func (d *Detector) Fitted() bool {
	return d.fitted != nil
}

// Stats returns the frozen statistics for a fitted metric.
func (d *Detector) Stats(metric string) (FittedStats, bool) {
	s, ok := d.fitted[metric]
	return s, ok
}

// Result holds per-metric anomaly flags for one detect call. Flags has one
// bool column per fitted metric present in the scored table; IsAnomaly is
// the row-level OR across them. Row indices match the scored table.
type Result struct {
	Flags     map[string][]bool `json:"flags"`
	IsAnomaly []bool            `json:"is_anomaly"`
}

// Count returns the number of rows flagged anomalous.
func (r *Result) Count() int {
	n := 0
	for _, a := range r.IsAnomaly {
		if a {
			n++
		}
	}
	return n
}

// Detect scores every row of the table against the fitted statistics using
// the given method. NaN observations never flag.
func (d *Detector) Detect(ft *table.FeatureTable, method string) (*Result, error) {
	if !d.Fitted() {
		return nil, ErrNotFitted
	}
	if method != MethodZScore && method != MethodIQR {
		return nil, fmt.Errorf("anomaly: unknown method %q", method)
	}

	res := &Result{
		Flags:     make(map[string][]bool),
		IsAnomaly: make([]bool, ft.Len()),
	}

	for metric, st := range d.fitted {
		col, ok := ft.Column(metric)
		if !ok {
			continue
		}
		flags := make([]bool, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			switch method {
			case MethodZScore:
				z := math.Abs(v-st.Mean) / (st.Std + stdGuard)
				flags[i] = z > d.threshold
			case MethodIQR:
				flags[i] = v < st.Q1-1.5*st.IQR || v > st.Q3+1.5*st.IQR
			}
			if flags[i] {
				res.IsAnomaly[i] = true
			}
		}
		res.Flags[metric] = flags
	}

	log.Info().
		Str("method", method).
		Int("rows", ft.Len()).
		Int("anomalies", res.Count()).
		Msg("anomaly detection completed")
	return res, nil
}
