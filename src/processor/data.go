// data.go
package processor

import (
	"github.com/go-gota/gota/dataframe"
)

// DataProcess 对DataFrame做原地处理
type DataProcess interface {
	DataProcessFunc(data *dataframe.DataFrame) error
}

// 原始列
const (
	ColLegID              = "legId"
	ColSearchDate         = "searchDate"
	ColFlightDate         = "flightDate"
	ColStartingAirport    = "startingAirport"
	ColDestinationAirport = "destinationAirport"
	ColTravelDuration     = "travelDuration"
	ColIsBasicEconomy     = "isBasicEconomy"
	ColIsRefundable       = "isRefundable"
	ColIsNonStop          = "isNonStop"
	ColSeatsRemaining     = "seatsRemaining"
	ColTotalTravelDist    = "totalTravelDistance"
	ColAirlineName        = "segmentsAirlineName"
	ColCabinCode          = "segmentsCabinCode"
	ColBaseFare           = "baseFare"
	ColTotalFare          = "totalFare"
)

// 派生列
const (
	ColDaysToDeparture = "days_to_departure"
	ColDurationMin     = "duration_min"
	ColFlightMonth     = "flight_month"
	ColFlightDayOfWeek = "flight_dayofweek"
	ColIsWeekend       = "is_weekend"
	ColMainAirline     = "main_airline"
	ColMainCabin       = "main_cabin"
)

// StepStat 记录每一步处理后的数据规模
type StepStat struct {
	Step string
	Rows int
	Cols int
}

// step 流水线中的一步
type step struct {
	name string
	fn   func(dataframe.DataFrame) (dataframe.DataFrame, error)
}
