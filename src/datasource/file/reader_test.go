package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var naValues = []string{"", "NA", "NaN", "nan"}

func TestLoadCSVKeepsStrings(t *testing.T) {
	csv := "legId,totalFare,seatsRemaining\n" +
		"a1,120.50,7\n" +
		"a2,,3\n"

	df, err := LoadCSV(strings.NewReader(csv), Options{NaValues: naValues})
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"legId", "totalFare", "seatsRemaining"}, df.Names())
	assert.Equal(t, "120.50", df.Col("totalFare").Elem(0).String())
	assert.True(t, df.Col("totalFare").Elem(1).IsNA())
	assert.Equal(t, "7", df.Col("seatsRemaining").Elem(0).String())
}

func TestLoadCSVGBK(t *testing.T) {
	raw := "legId,segmentsAirlineName\nb1,中国国际航空\n"
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(raw)
	require.NoError(t, err)

	df, err := LoadCSV(strings.NewReader(encoded), Options{Encoding: "gbk"})
	require.NoError(t, err)
	assert.Equal(t, "中国国际航空", df.Col("segmentsAirlineName").Elem(0).String())
}

func TestLoadCSVUnknownEncoding(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("a\n1\n"), Options{Encoding: "latin-9"})
	assert.Error(t, err)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	df, err := LoadCSV(strings.NewReader("legId,totalFare,seatsRemaining\n"), Options{NaValues: naValues})
	require.NoError(t, err)

	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, []string{"legId", "totalFare", "seatsRemaining"}, df.Names())
	assert.Equal(t, series.String, df.Col("totalFare").Type())
}

func TestLoadCSVEmptyInput(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""), Options{})
	assert.Error(t, err)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadDataFrame(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("flights")
	require.NoError(t, err)
	for _, r := range [][]string{
		{"legId", "travelDuration", "totalFare"},
		{"x1", "PT2H", "99.9"},
		{"", "", ""},
		{"x2", "PT45M"},
	} {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))

	df, err := ReadDataFrame(path, Options{SheetName: "flights", NaValues: naValues})
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, "PT45M", df.Col("travelDuration").Elem(1).String())
	assert.True(t, df.Col("totalFare").Elem(1).IsNA())

	_, err = ReadXLSX(path, Options{SheetName: "missing"})
	assert.Error(t, err)
}

func TestReadXLSXHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("flights")
	require.NoError(t, err)
	row := sheet.AddRow()
	for _, v := range []string{"legId", "travelDuration", "totalFare"} {
		row.AddCell().SetString(v)
	}
	require.NoError(t, f.Save(path))

	df, err := ReadDataFrame(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, []string{"legId", "travelDuration", "totalFare"}, df.Names())
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "processed")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, EnsureDir(file))
}
