package features

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// RollingFeatures computes trailing-window mean/std/max/min per athlete for
// each metric and window size. Windows never cross athlete boundaries and
// use min-periods-1 semantics: row i sees the last min(i+1, w) observations
// of its athlete, so the first row's rolling mean is its own value. The
// sample std of a single observation is NaN.
func (e *Engine) RollingFeatures(ft *table.FeatureTable, metrics []string, windows []int) {
	for _, g := range athleteGroups(ft) {
		for _, m := range metrics {
			vals := groupColumn(ft, g[0], g[1], m)
			for _, w := range windows {
				if w < 1 {
					continue
				}
				meanKey := fmt.Sprintf("%s_rolling_mean_%dd", m, w)
				stdKey := fmt.Sprintf("%s_rolling_std_%dd", m, w)
				maxKey := fmt.Sprintf("%s_rolling_max_%dd", m, w)
				minKey := fmt.Sprintf("%s_rolling_min_%dd", m, w)

				for i := range vals {
					lo := i - w + 1
					if lo < 0 {
						lo = 0
					}
					win := vals[lo : i+1]
					row := &ft.Rows[g[0]+i]
					row.Series[meanKey] = stats.Mean(win)
					row.Series[stdKey] = stats.SampleStd(win)
					row.Series[maxKey] = stats.Max(win)
					row.Series[minKey] = stats.Min(win)
				}
			}
		}
	}
	log.Debug().Ints("windows", windows).Msg("rolling features created")
}

// LagFeatures shifts each metric by the configured offsets within each
// athlete's series. The first lag rows of every athlete are NaN.
func (e *Engine) LagFeatures(ft *table.FeatureTable, metrics []string, lags []int) {
	for _, g := range athleteGroups(ft) {
		for _, m := range metrics {
			vals := groupColumn(ft, g[0], g[1], m)
			for _, lag := range lags {
				if lag < 1 {
					continue
				}
				key := fmt.Sprintf("%s_lag_%d", m, lag)
				for i := range vals {
					row := &ft.Rows[g[0]+i]
					if i < lag {
						row.Series[key] = math.NaN()
					} else {
						row.Series[key] = vals[i-lag]
					}
				}
			}
		}
	}
	log.Debug().Ints("lags", lags).Msg("lag features created")
}

// ChangeFeatures computes the absolute and percentage change from the
// previous row of the same athlete. The first row of each athlete is NaN;
// a zero previous value yields ±Inf (or NaN for 0→0), matching the
// source-table semantics rather than masking the division.
func (e *Engine) ChangeFeatures(ft *table.FeatureTable, metrics []string) {
	for _, g := range athleteGroups(ft) {
		for _, m := range metrics {
			vals := groupColumn(ft, g[0], g[1], m)
			changeKey := m + "_change"
			pctKey := m + "_pct_change"
			for i := range vals {
				row := &ft.Rows[g[0]+i]
				if i == 0 {
					row.Series[changeKey] = math.NaN()
					row.Series[pctKey] = math.NaN()
					continue
				}
				row.Series[changeKey] = vals[i] - vals[i-1]
				row.Series[pctKey] = (vals[i] - vals[i-1]) / vals[i-1] * 100
			}
		}
	}
	log.Debug().Msg("change features created")
}

// AggregateFeatures computes each athlete's full-history mean/std/max/min
// per metric, broadcast to every row, plus each row's deviation from its
// athlete's mean.
func (e *Engine) AggregateFeatures(ft *table.FeatureTable, metrics []string) {
	for _, g := range athleteGroups(ft) {
		for _, m := range metrics {
			vals := groupColumn(ft, g[0], g[1], m)
			mean := stats.Mean(vals)
			std := stats.SampleStd(vals)
			max := stats.Max(vals)
			min := stats.Min(vals)

			for i := range vals {
				s := ft.Rows[g[0]+i].Series
				s[m+"_user_mean"] = mean
				s[m+"_user_std"] = std
				s[m+"_user_max"] = max
				s[m+"_user_min"] = min
				s[m+"_deviation_from_mean"] = vals[i] - mean
			}
		}
	}
	log.Debug().Msg("aggregate features created")
}
