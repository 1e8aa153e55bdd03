package io

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadActivityCSV_FullSchema(t *testing.T) {
	path := writeCSV(t, `athlete_id,date,steps,distance_km,calories,very_active_minutes,fairly_active_minutes,lightly_active_minutes,sedentary_minutes
A,2023-05-01,8000,5.2,2100,45,30,120,600
A,2023-05-02,9500,6.1,2300,50,25,110,580
B,2023-05-01,4000,2.5,1500,10,15,90,700
`)

	tbl, err := LoadActivityCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Schema.HasDistance)
	assert.True(t, tbl.Schema.HasCalories)
	assert.True(t, tbl.Schema.HasIntensity)
	assert.True(t, tbl.Schema.HasSedentary)

	r := tbl.Rows[0]
	assert.Equal(t, "A", r.AthleteID)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, 8000, r.Steps)
	assert.InDelta(t, 5.2, r.Distance, 1e-9)
	assert.InDelta(t, 2100.0, r.Calories, 1e-9)
	assert.Equal(t, 45, r.VeryActiveMinutes)
	assert.Equal(t, 600, r.SedentaryMinutes)
}

func TestLoadActivityCSV_MinimalSchema(t *testing.T) {
	path := writeCSV(t, `athlete_id,date,steps
A,2023-05-01,8000
`)

	tbl, err := LoadActivityCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.Schema.HasDistance)
	assert.False(t, tbl.Schema.HasCalories)
	assert.False(t, tbl.Schema.HasIntensity)
	assert.False(t, tbl.Schema.HasSedentary)
}

func TestLoadActivityCSV_IntensityIsAllOrNone(t *testing.T) {
	// Only one of the three intensity buckets present: intensity stays off.
	path := writeCSV(t, `athlete_id,date,steps,very_active_minutes
A,2023-05-01,8000,45
`)

	tbl, err := LoadActivityCSV(path)
	require.NoError(t, err)
	assert.False(t, tbl.Schema.HasIntensity)
	assert.Equal(t, 0, tbl.Rows[0].VeryActiveMinutes)
}

func TestLoadActivityCSV_HeaderIsCaseInsensitive(t *testing.T) {
	path := writeCSV(t, `Athlete_ID, Date ,STEPS
A,2023-05-01,8000
`)

	tbl, err := LoadActivityCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, tbl.Rows[0].Steps)
}

func TestLoadActivityCSV_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, `athlete_id,date,distance_km
A,2023-05-01,5.2
`)

	_, err := LoadActivityCSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "steps")
}

func TestLoadActivityCSV_EmptyNumericFieldsAreZero(t *testing.T) {
	path := writeCSV(t, `athlete_id,date,steps,calories
A,2023-05-01,8000,
`)

	tbl, err := LoadActivityCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tbl.Rows[0].Calories)
}

func TestLoadActivityCSV_BadValuesReportLine(t *testing.T) {
	path := writeCSV(t, `athlete_id,date,steps
A,2023-05-01,8000
A,not-a-date,9000
`)

	_, err := LoadActivityCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "bad date")

	path = writeCSV(t, `athlete_id,date,steps
A,2023-05-01,lots
`)
	_, err = LoadActivityCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad steps")
}

func TestLoadActivityCSV_MissingFile(t *testing.T) {
	_, err := LoadActivityCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
