package processor

import (
	"FlightPrepare/src/utils"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// FlightRecord 清洗后单行航班数据，parquet标签决定输出列的顺序与类型
type FlightRecord struct {
	LegID               string   `parquet:"name=legId, type=BYTE_ARRAY, convertedtype=UTF8"`
	SearchDate          int64    `parquet:"name=searchDate, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	FlightDate          int64    `parquet:"name=flightDate, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	StartingAirport     string   `parquet:"name=startingAirport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DestinationAirport  string   `parquet:"name=destinationAirport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	IsBasicEconomy      *bool    `parquet:"name=isBasicEconomy, type=BOOLEAN, repetitiontype=OPTIONAL"`
	IsRefundable        *bool    `parquet:"name=isRefundable, type=BOOLEAN, repetitiontype=OPTIONAL"`
	IsNonStop           *bool    `parquet:"name=isNonStop, type=BOOLEAN, repetitiontype=OPTIONAL"`
	SeatsRemaining      *int64   `parquet:"name=seatsRemaining, type=INT64, repetitiontype=OPTIONAL"`
	TotalTravelDistance float64  `parquet:"name=totalTravelDistance, type=DOUBLE"`
	BaseFare            *float64 `parquet:"name=baseFare, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalFare           float64  `parquet:"name=totalFare, type=DOUBLE"`
	DaysToDeparture     int64    `parquet:"name=days_to_departure, type=INT64"`
	DurationMin         int64    `parquet:"name=duration_min, type=INT64"`
	FlightMonth         int64    `parquet:"name=flight_month, type=INT64"`
	FlightDayOfWeek     string   `parquet:"name=flight_dayofweek, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	IsWeekend           int64    `parquet:"name=is_weekend, type=INT64"`
	MainAirline         string   `parquet:"name=main_airline, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	MainCabin           string   `parquet:"name=main_cabin, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// OutputColumns 输出数据集的列，与FlightRecord字段一一对应
var OutputColumns = []string{
	ColLegID, ColSearchDate, ColFlightDate,
	ColStartingAirport, ColDestinationAirport,
	ColIsBasicEconomy, ColIsRefundable, ColIsNonStop,
	ColSeatsRemaining, ColTotalTravelDist, ColBaseFare, ColTotalFare,
	ColDaysToDeparture, ColDurationMin, ColFlightMonth, ColFlightDayOfWeek,
	ColIsWeekend, ColMainAirline, ColMainCabin,
}

// ToRecords 将清洗后的DataFrame逐行转换为FlightRecord
func ToRecords(df dataframe.DataFrame) ([]FlightRecord, error) {
	if missing := utils.MissingColumns(df, OutputColumns); len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingColumns, "output: %s", strings.Join(missing, ", "))
	}

	cols := make(map[string]series.Series, len(OutputColumns))
	for _, name := range OutputColumns {
		cols[name] = df.Col(name)
	}
	el := func(name string, row int) series.Element {
		return cols[name].Elem(row)
	}

	records := make([]FlightRecord, df.Nrow())
	for i := range records {
		searchDate, err := toMillis(el(ColSearchDate, i))
		if err != nil {
			return nil, fmt.Errorf("row %d searchDate: %w", i, err)
		}
		flightDate, err := toMillis(el(ColFlightDate, i))
		if err != nil {
			return nil, fmt.Errorf("row %d flightDate: %w", i, err)
		}

		r := &records[i]
		r.LegID = el(ColLegID, i).String()
		r.SearchDate = searchDate
		r.FlightDate = flightDate
		r.StartingAirport = el(ColStartingAirport, i).String()
		r.DestinationAirport = el(ColDestinationAirport, i).String()
		r.IsBasicEconomy = optionalBool(el(ColIsBasicEconomy, i))
		r.IsRefundable = optionalBool(el(ColIsRefundable, i))
		r.IsNonStop = optionalBool(el(ColIsNonStop, i))
		r.SeatsRemaining = optionalInt(el(ColSeatsRemaining, i))
		r.TotalTravelDistance = el(ColTotalTravelDist, i).Float()
		r.BaseFare = optionalFloat(el(ColBaseFare, i))
		r.TotalFare = el(ColTotalFare, i).Float()
		r.FlightDayOfWeek = el(ColFlightDayOfWeek, i).String()
		for _, f := range []struct {
			col string
			dst *int64
		}{
			{ColDaysToDeparture, &r.DaysToDeparture},
			{ColDurationMin, &r.DurationMin},
			{ColFlightMonth, &r.FlightMonth},
			{ColIsWeekend, &r.IsWeekend},
		} {
			if *f.dst, err = requiredInt(el(f.col, i)); err != nil {
				return nil, fmt.Errorf("row %d %s: %w", i, f.col, err)
			}
		}
		r.MainAirline = el(ColMainAirline, i).String()
		r.MainCabin = el(ColMainCabin, i).String()

		if math.IsNaN(r.TotalFare) || math.IsNaN(r.TotalTravelDistance) {
			return nil, fmt.Errorf("row %d: totalFare/totalTravelDistance 缺失", i)
		}
	}
	return records, nil
}

func toMillis(el series.Element) (int64, error) {
	t, err := time.Parse(utils.TimeLayout, el.String())
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func optionalBool(el series.Element) *bool {
	if el.IsNA() {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(el.String()))
	if err != nil {
		return nil
	}
	return &b
}

func optionalFloat(el series.Element) *float64 {
	if utils.IsMissingNumber(el) {
		return nil
	}
	f := el.Float()
	return &f
}

// optionalInt 非整数或超出int64范围的值视为缺失
func optionalInt(el series.Element) *int64 {
	f := optionalFloat(el)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) >= math.MaxInt64 {
		return nil
	}
	v := int64(*f)
	return &v
}

func requiredInt(el series.Element) (int64, error) {
	if el.IsNA() {
		return 0, errors.New("value is missing")
	}
	v, err := el.Int()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}
