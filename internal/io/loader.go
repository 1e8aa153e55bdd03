package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	stdio "io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/table"
)

// ErrMissingColumn indicates a required input column is absent from the
// CSV header. Optional columns degrade to schema flags instead.
var ErrMissingColumn = errors.New("io: required column missing")

// Required CSV header names. Optional columns: distance_km, calories, the
// three *_active_minutes buckets (all or none), sedentary_minutes.
const (
	headerAthleteID = "athlete_id"
	headerDate      = "date"
	headerSteps     = "steps"
)

const dateLayout = "2006-01-02"

// LoadActivityCSV reads a plain CSV snapshot of activity records and
// resolves the schema from the header once. This is the loader boundary:
// vendor export parsing and validation happen upstream of this file.
func LoadActivityCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{headerAthleteID, headerDate, headerSteps} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	hasIntensity := hasAll(cols, "very_active_minutes", "fairly_active_minutes", "lightly_active_minutes")
	schema := table.Schema{
		HasDistance:  hasCol(cols, "distance_km"),
		HasCalories:  hasCol(cols, "calories"),
		HasIntensity: hasIntensity,
		HasSedentary: hasCol(cols, "sedentary_minutes"),
	}

	var rows []table.Record
	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, stdio.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		rec := table.Record{AthleteID: strings.TrimSpace(fields[cols[headerAthleteID]])}

		rec.Date, err = time.Parse(dateLayout, strings.TrimSpace(fields[cols[headerDate]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		rec.Steps, err = atoi(fields[cols[headerSteps]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad steps: %w", line, err)
		}

		if schema.HasDistance {
			if rec.Distance, err = atof(fields[cols["distance_km"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad distance_km: %w", line, err)
			}
		}
		if schema.HasCalories {
			if rec.Calories, err = atof(fields[cols["calories"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad calories: %w", line, err)
			}
		}
		if schema.HasIntensity {
			if rec.VeryActiveMinutes, err = atoi(fields[cols["very_active_minutes"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad very_active_minutes: %w", line, err)
			}
			if rec.FairlyActiveMinutes, err = atoi(fields[cols["fairly_active_minutes"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad fairly_active_minutes: %w", line, err)
			}
			if rec.LightlyActiveMinutes, err = atoi(fields[cols["lightly_active_minutes"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad lightly_active_minutes: %w", line, err)
			}
		}
		if schema.HasSedentary {
			if rec.SedentaryMinutes, err = atoi(fields[cols["sedentary_minutes"]]); err != nil {
				return nil, fmt.Errorf("line %d: bad sedentary_minutes: %w", line, err)
			}
		}

		rows = append(rows, rec)
	}

	log.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Bool("has_distance", schema.HasDistance).
		Bool("has_calories", schema.HasCalories).
		Bool("has_intensity", schema.HasIntensity).
		Bool("has_sedentary", schema.HasSedentary).
		Msg("activity records loaded")
	return table.New(schema, rows), nil
}

func hasCol(cols map[string]int, name string) bool {
	_, ok := cols[name]
	return ok
}

func hasAll(cols map[string]int, names ...string) bool {
	for _, n := range names {
		if !hasCol(cols, n) {
			return false
		}
	}
	return true
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func atof(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
