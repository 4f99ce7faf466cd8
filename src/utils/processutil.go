package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// TimeLayout DataFrame中日期列统一的存储格式
const TimeLayout = "2006-01-02 15:04:05"

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// MissingColumns 返回df中缺少的列，保持names中的顺序
func MissingColumns(df dataframe.DataFrame, names []string) []string {
	var missing []string
	for _, n := range names {
		if !HasColumn(df, n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// ParseTime 按给定格式依次尝试解析，缺失或全部失败时返回false
func ParseTime(s series.Element, layouts []string) (time.Time, bool) {
	if s == nil || s.IsNA() {
		return time.Time{}, false
	}
	str := strings.TrimSpace(s.String())
	if str == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsMissingNumber 缺失或无法解析为数字的元素
func IsMissingNumber(el series.Element) bool {
	if el == nil || el.IsNA() {
		return true
	}
	return math.IsNaN(el.Float())
}

// SubSeriesDays 计算 colTo - colFrom 的天数(向下取整)并作为Int列加入
// 两列须为 TimeLayout 格式
func SubSeriesDays(df dataframe.DataFrame, colFrom, colTo, colName string) (dataframe.DataFrame, error) {

	// 获取两列的所有元素
	from := df.Col(colFrom)
	to := df.Col(colTo)
	if from.Err != nil {
		return df, from.Err
	}
	if to.Err != nil {
		return df, to.Err
	}

	// 预分配切片容量
	days := make([]int, 0, df.Nrow())

	// 遍历每一行计算时间差
	for i := 0; i < df.Nrow(); i++ {
		startTime, err := time.Parse(TimeLayout, from.Elem(i).String())
		if err != nil {
			return df, fmt.Errorf("failed to parse start time at row %d: %w", i, err)
		}

		endTime, err := time.Parse(TimeLayout, to.Elem(i).String())
		if err != nil {
			return df, fmt.Errorf("failed to parse end time at row %d: %w", i, err)
		}

		d := math.Floor(endTime.Sub(startTime).Hours() / 24)
		days = append(days, int(d))
	}

	return df.Mutate(series.New(days, series.Int, colName)), nil
}

// SaveToExcel 将DataFrame保存为xlsx，sheetName为空时使用Sheet1
func SaveToExcel(df dataframe.DataFrame, filePath, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	} else if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("设置工作表名称失败: %w", err)
	}

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			el := col.Elem(rowIdx)
			if el.IsNA() {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, el.Val()); err != nil {
				return err
			}
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
