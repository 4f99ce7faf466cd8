package processor

import (
	"FlightPrepare/src/utils"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// groupMean 分组内非缺失值的累计
type groupMean struct {
	sum   float64
	count int
}

func (g *groupMean) mean() (float64, bool) {
	if g == nil || g.count == 0 {
		return math.NaN(), false
	}
	return g.sum / float64(g.count), true
}

// ImputeDistance 按 (出发机场, 到达机场) 分组，用组内均值填充缺失的距离
// 组内没有任何观测值时保持缺失
func (fc *FlightCleaner) ImputeDistance(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	keys := fc.Dcfg.GetGroupKeys()
	if missing := utils.MissingColumns(df, keys); len(missing) > 0 {
		return df, errors.Wrapf(ErrMissingColumns, "group keys: %s", strings.Join(missing, ", "))
	}

	filled := FillGroupMean(df, keys, ColTotalTravelDist)
	return df.Mutate(series.New(filled, series.Float, ColTotalTravelDist)), nil
}

// FillGroupMean 返回 target 列填充后的值，缺失保持为 NaN
// 分组键存在缺失的行不参与分组，结果为 NaN
func FillGroupMean(df dataframe.DataFrame, keys []string, target string) []float64 {
	n := df.Nrow()
	values := df.Col(target)
	keyCols := make([]series.Series, len(keys))
	for i, k := range keys {
		keyCols[i] = df.Col(k)
	}

	rowKeys := make([]string, n)
	valid := make([]bool, n)
	groups := make(map[string]*groupMean)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.NaN()
		key, ok := groupKey(keyCols, i)
		if !ok {
			continue
		}
		if el := values.Elem(i); !utils.IsMissingNumber(el) {
			out[i] = el.Float()
		}
		rowKeys[i] = key
		valid[i] = true

		if math.IsNaN(out[i]) {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &groupMean{}
			groups[key] = g
		}
		g.sum += out[i]
		g.count++
	}

	for i := 0; i < n; i++ {
		if !math.IsNaN(out[i]) || !valid[i] {
			continue
		}
		if m, ok := groups[rowKeys[i]].mean(); ok {
			out[i] = m
		}
	}
	return out
}

func groupKey(cols []series.Series, row int) (string, bool) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		el := c.Elem(row)
		if el.IsNA() {
			return "", false
		}
		parts[i] = el.String()
	}
	return strings.Join(parts, "\x00"), true
}
