package utils

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseTime(t *testing.T) {
	s := series.New([]string{"2022-04-16", "2022/04/16 08:15:00", "bad", "NaN"}, series.String, "d")
	layouts := []string{"2006-01-02", "2006/01/02 15:04:05"}

	got, ok := ParseTime(s.Elem(0), layouts)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2022, 4, 16, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseTime(s.Elem(1), layouts)
	assert.True(t, ok)
	assert.Equal(t, 8, got.Hour())

	_, ok = ParseTime(s.Elem(2), layouts)
	assert.False(t, ok)
	_, ok = ParseTime(s.Elem(3), layouts)
	assert.False(t, ok)
}

func TestSubSeriesDays(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"2024-01-10 00:00:00", "2024-01-01 12:00:00"}, series.String, "from"),
		series.New([]string{"2024-01-05 00:00:00", "2024-01-03 00:00:00"}, series.String, "to"),
	)

	out, err := SubSeriesDays(df, "from", "to", "days")
	require.NoError(t, err)
	assert.Equal(t, []string{"-5", "1"}, out.Col("days").Records())

	_, err = SubSeriesDays(df, "from", "nope", "days")
	assert.Error(t, err)
}

func TestIsMissingNumber(t *testing.T) {
	s := series.New([]string{"1.5", "NaN", "x"}, series.String, "n")
	assert.False(t, IsMissingNumber(s.Elem(0)))
	assert.True(t, IsMissingNumber(s.Elem(1)))
	assert.True(t, IsMissingNumber(s.Elem(2)))

	f := series.New([]float64{math.NaN()}, series.Float, "f")
	assert.True(t, IsMissingNumber(f.Elem(0)))
}

func TestMissingColumns(t *testing.T) {
	df := dataframe.New(series.New([]string{"a"}, series.String, "legId"))
	assert.Equal(t, []string{"totalFare", "baseFare"}, MissingColumns(df, []string{"totalFare", "legId", "baseFare"}))
	assert.True(t, HasColumn(df, "legId"))
}

func TestSaveToExcel(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"input", "drop_missing"}, series.String, "step"),
		series.New([]int{10, 4}, series.Int, "rows"),
	)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveToExcel(df, path, "report"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("report")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"step", "rows"}, {"input", "10"}, {"drop_missing", "4"}}, rows)
}
