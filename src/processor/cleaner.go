package processor

import (
	"FlightPrepare/src/config"
	"FlightPrepare/src/storage"
	"FlightPrepare/src/utils"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// FlightCleaner 航班票价数据清洗流水线
type FlightCleaner struct {
	Dcfg   *config.DataConfig
	logger *storage.Logger
	Stats  []StepStat
}

func NewFlightCleaner(dcfg *config.DataConfig, logger *storage.Logger) *FlightCleaner {
	return &FlightCleaner{
		Dcfg:   dcfg,
		logger: logger,
	}
}

func (fc *FlightCleaner) info(msg string) {
	if fc.logger != nil {
		fc.logger.Info(msg)
	}
}

func (fc *FlightCleaner) steps() []step {
	return []step{
		{"select_columns", fc.SelectColumns},
		{"parse_dates", fc.ParseDates},
		{"lead_time", fc.AddLeadTime},
		{"duration", fc.AddDuration},
		{"calendar", fc.AddCalendar},
		{"main_segments", fc.AddMainSegments},
		{"impute_distance", fc.ImputeDistance},
		{"drop_missing", fc.DropMissing},
	}
}

// Run 按固定顺序执行全部清洗步骤，返回新的DataFrame
func (fc *FlightCleaner) Run(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, errors.Wrap(ErrInvalidFrame, df.Err.Error())
	}
	fc.Stats = fc.Stats[:0]
	fc.record("input", df)

	var err error
	for _, s := range fc.steps() {
		df, err = s.fn(df)
		if err != nil {
			return df, errors.Wrapf(err, "step %s", s.name)
		}
		if df.Err != nil {
			return df, errors.Wrapf(ErrInvalidFrame, "step %s: %v", s.name, df.Err)
		}
		fc.record(s.name, df)
	}
	return df, nil
}

// DataProcessFunc 实现DataProcess接口
func (fc *FlightCleaner) DataProcessFunc(data *dataframe.DataFrame) error {
	out, err := fc.Run(*data)
	if err != nil {
		return err
	}
	*data = out
	return nil
}

func (fc *FlightCleaner) record(name string, df dataframe.DataFrame) {
	fc.Stats = append(fc.Stats, StepStat{Step: name, Rows: df.Nrow(), Cols: df.Ncol()})
	fc.info(fmt.Sprintf("%-16s 行数: %d, 列数: %d", name, df.Nrow(), df.Ncol()))
}

// StatsFrame 将处理统计转换为DataFrame，用于输出报告
func (fc *FlightCleaner) StatsFrame() dataframe.DataFrame {
	names := make([]string, len(fc.Stats))
	rows := make([]int, len(fc.Stats))
	cols := make([]int, len(fc.Stats))
	dropped := make([]int, len(fc.Stats))
	for i, s := range fc.Stats {
		names[i] = s.Step
		rows[i] = s.Rows
		cols[i] = s.Cols
		if i > 0 {
			dropped[i] = fc.Stats[i-1].Rows - s.Rows
		}
	}
	return dataframe.New(
		series.New(names, series.String, "step"),
		series.New(rows, series.Int, "rows"),
		series.New(cols, series.Int, "columns"),
		series.New(dropped, series.Int, "dropped_rows"),
	)
}

// SelectColumns 只保留配置中的列，缺列直接报错
func (fc *FlightCleaner) SelectColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cols := fc.Dcfg.GetColumns()
	if missing := utils.MissingColumns(df, cols); len(missing) > 0 {
		return df, errors.Wrapf(ErrMissingColumns, "%s", strings.Join(missing, ", "))
	}
	return df.Select(cols), nil
}

// ParseDates 统一两列日期格式，任一列无法解析的行被删除
func (fc *FlightCleaner) ParseDates(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	layouts := fc.Dcfg.GetDateLayouts()

	for _, col := range []string{ColSearchDate, ColFlightDate} {
		src := df.Col(col)
		values := make([]string, src.Len())
		for i := 0; i < src.Len(); i++ {
			t, ok := utils.ParseTime(src.Elem(i), layouts)
			if !ok {
				values[i] = "NaN"
				continue
			}
			values[i] = t.Format(utils.TimeLayout)
		}
		df = df.Mutate(series.New(values, series.String, col))
	}

	return df.FilterAggregation(
		dataframe.And,
		dataframe.F{Colname: ColSearchDate, Comparator: series.CompFunc, Comparando: notNA},
		dataframe.F{Colname: ColFlightDate, Comparator: series.CompFunc, Comparando: notNA},
	), nil
}

// AddLeadTime 计算提前购票天数，删除负值
func (fc *FlightCleaner) AddLeadTime(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	df, err := utils.SubSeriesDays(df, ColSearchDate, ColFlightDate, ColDaysToDeparture)
	if err != nil {
		return df, err
	}

	return df.Filter(
		dataframe.F{
			Colname:    ColDaysToDeparture,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				v, err := el.Int()
				return err == nil && v >= 0
			},
		},
	), nil
}

// AddDuration 解析飞行时长，删除缺失或非正的行，并移除原始列
func (fc *FlightCleaner) AddDuration(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	src := df.Col(ColTravelDuration)

	keep := make([]int, 0, src.Len())
	minutes := make([]int, 0, src.Len())
	for i := 0; i < src.Len(); i++ {
		m, ok := ParseDuration(src.Elem(i))
		if !ok || m <= 0 {
			continue
		}
		keep = append(keep, i)
		minutes = append(minutes, m)
	}

	df = df.Subset(keep)
	if df.Err != nil {
		return df, df.Err
	}
	return df.Mutate(series.New(minutes, series.Int, ColDurationMin)).Drop(ColTravelDuration), nil
}

// AddCalendar 根据航班日期派生月份、星期和周末标记
func (fc *FlightCleaner) AddCalendar(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	src := df.Col(ColFlightDate)

	months := make([]int, src.Len())
	days := make([]string, src.Len())
	weekend := make([]int, src.Len())
	for i := 0; i < src.Len(); i++ {
		t, err := time.Parse(utils.TimeLayout, src.Elem(i).String())
		if err != nil {
			return df, fmt.Errorf("flightDate at row %d: %w", i, err)
		}
		months[i] = int(t.Month())
		days[i] = t.Weekday().String()
		if fc.Dcfg.IsWeekend(days[i]) {
			weekend[i] = 1
		}
	}

	return df.
		Mutate(series.New(months, series.Int, ColFlightMonth)).
		Mutate(series.New(days, series.String, ColFlightDayOfWeek)).
		Mutate(series.New(weekend, series.Int, ColIsWeekend)), nil
}

// AddMainSegments 取多航段字段的第一段作为主航司/主舱位
// 缺失值先转为字符串 "nan"，与原始数据处理保持一致
func (fc *FlightCleaner) AddMainSegments(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	delim := fc.Dcfg.GetSegmentDelimiter()

	pairs := []struct{ src, dst string }{
		{ColAirlineName, ColMainAirline},
		{ColCabinCode, ColMainCabin},
	}
	for _, p := range pairs {
		if !utils.HasColumn(df, p.src) {
			return df, errors.Wrapf(ErrMissingColumns, "%s", p.src)
		}
		src := df.Col(p.src)
		values := make([]string, src.Len())
		for i := 0; i < src.Len(); i++ {
			values[i] = FirstSegment(src.Elem(i), delim)
		}
		df = df.Mutate(series.New(values, series.String, p.dst))
	}

	for _, p := range pairs {
		if utils.HasColumn(df, p.src) {
			df = df.Drop(p.src)
		}
	}
	return df, nil
}

// FirstSegment 返回分隔列表的第一段(去除首尾空白)
func FirstSegment(el series.Element, delim string) string {
	s := "nan"
	if el != nil && !el.IsNA() {
		s = el.String()
	}
	return strings.TrimSpace(strings.SplitN(s, delim, 2)[0])
}

// DropMissing 删除票价或距离仍缺失的行
func (fc *FlightCleaner) DropMissing(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return df.FilterAggregation(
		dataframe.And,
		dataframe.F{Colname: ColTotalFare, Comparator: series.CompFunc, Comparando: notMissingNumber},
		dataframe.F{Colname: ColTotalTravelDist, Comparator: series.CompFunc, Comparando: notMissingNumber},
	), nil
}

func notNA(el series.Element) bool {
	return !el.IsNA()
}

func notMissingNumber(el series.Element) bool {
	return !utils.IsMissingNumber(el)
}
