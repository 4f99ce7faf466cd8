package main

import (
	"FlightPrepare/src/config"
	"FlightPrepare/src/processor"
	"FlightPrepare/src/storage"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testConfig(t *testing.T, rawPath string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RawPath = rawPath
	cfg.OutDir = filepath.Join(dir, "data", "processed")
	cfg.ReportPath = filepath.Join(dir, "report", "report.xlsx")
	cfg.LogName = ""
	return cfg
}

func testLogger(t *testing.T) *storage.Logger {
	t.Helper()
	logger, err := storage.NewLogger("")
	require.NoError(t, err)
	return logger
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, "processor/testdata/flights.csv")
	logger := testLogger(t)

	require.NoError(t, run(cfg, config.DefaultDataConfig(), logger))

	rows, err := storage.LoadParquet[processor.FlightRecord](cfg.OutPath())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	legs := make([]string, len(rows))
	for i, r := range rows {
		legs[i] = r.LegID
		assert.GreaterOrEqual(t, r.DaysToDeparture, int64(0))
		assert.Greater(t, r.DurationMin, int64(0))
	}
	assert.Equal(t, []string{"l1", "l2", "l3", "l10"}, legs)
	assert.Equal(t, 910.0, rows[1].TotalTravelDistance)
	assert.Equal(t, "Delta", rows[0].MainAirline)

	f, err := excelize.OpenFile(cfg.ReportPath)
	require.NoError(t, err)
	defer f.Close()
	report, err := f.GetRows("report")
	require.NoError(t, err)
	assert.Equal(t, []string{"step", "rows", "columns", "dropped_rows"}, report[0])
	assert.Equal(t, "input", report[1][0])
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t, "processor/testdata/flights.csv")
	cfg.ReportPath = ""
	logger := testLogger(t)

	require.NoError(t, run(cfg, config.DefaultDataConfig(), logger))
	first, err := os.ReadFile(cfg.OutPath())
	require.NoError(t, err)

	require.NoError(t, run(cfg, config.DefaultDataConfig(), logger))
	second, err := os.ReadFile(cfg.OutPath())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestRunHeaderOnlyInput(t *testing.T) {
	raw := filepath.Join(t.TempDir(), "flights.csv")
	header := strings.Join(config.DefaultDataConfig().Columns, ",") + "\n"
	require.NoError(t, os.WriteFile(raw, []byte(header), 0644))
	cfg := testConfig(t, raw)

	require.NoError(t, run(cfg, config.DefaultDataConfig(), testLogger(t)))

	rows, err := storage.LoadParquet[processor.FlightRecord](cfg.OutPath())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing.csv"))

	err := run(cfg, config.DefaultDataConfig(), testLogger(t))
	require.Error(t, err)

	_, statErr := os.Stat(cfg.OutPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSchemaMismatch(t *testing.T) {
	raw := filepath.Join(t.TempDir(), "flights.csv")
	require.NoError(t, os.WriteFile(raw, []byte("legId,searchDate,flightDate\nx,2022-04-16,2022-04-20\n"), 0644))
	cfg := testConfig(t, raw)

	err := run(cfg, config.DefaultDataConfig(), testLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, processor.ErrMissingColumns)

	_, statErr := os.Stat(cfg.OutPath())
	assert.True(t, os.IsNotExist(statErr))
}
