package processor

import (
	"strconv"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
)

func TestParseDurationText(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT5H30M", 330, true},
		{"PT45M", 45, true},
		{"PT2H", 120, true},
		{"PT", 0, true},
		{"PT0H0M", 0, true},
		{" PT1H5M ", 0, false},
		{"PT1H ", 0, false},
		{"PT26H", 1560, true},
		{"PT1H30M20S", 0, false},
		{"P1DT2H", 0, false},
		{"5H30M", 0, false},
		{"PT30M5H", 0, false},
		{"pt5h", 0, false},
		{"", 0, false},
		{"garbage", 0, false},
		{"PT99999999999999999999H", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDurationText(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDurationElement(t *testing.T) {
	s := series.New([]string{"PT1H1M", "NaN", "bad"}, series.String, "travelDuration")

	m, ok := ParseDuration(s.Elem(0))
	assert.True(t, ok)
	assert.Equal(t, 61, m)

	_, ok = ParseDuration(s.Elem(1))
	assert.False(t, ok, "missing input is missing output")

	_, ok = ParseDuration(s.Elem(2))
	assert.False(t, ok)

	_, ok = ParseDuration(nil)
	assert.False(t, ok)
}

func TestParseDurationMatchesFormula(t *testing.T) {
	for h := 0; h < 30; h += 7 {
		for m := 0; m < 60; m += 13 {
			got, ok := ParseDurationText("PT" + strconv.Itoa(h) + "H" + strconv.Itoa(m) + "M")
			assert.True(t, ok)
			assert.Equal(t, 60*h+m, got)
		}
	}
}
