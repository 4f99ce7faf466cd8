// reader.go
package file

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Options 读取原始数据的选项
type Options struct {
	Encoding  string   // utf-8 / gbk / gb18030
	SheetName string   // xlsx工作表名，为空时取第一个
	NaValues  []string // 视为缺失值的文本
}

// ReadDataFrame 根据扩展名读取 csv 或 xlsx，所有列按字符串加载
func ReadDataFrame(filePath string, opts Options) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSX(filePath, opts)
	default:
		return ReadCSV(filePath, opts)
	}
}

// ReadCSV 打开CSV文件并加载为DataFrame
func ReadCSV(filePath string, opts Options) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), errors.Wrapf(err, "failed to open csv file %s", filePath)
	}
	defer f.Close()

	return LoadCSV(f, opts)
}

// LoadCSV 从reader加载CSV，首行为表头
func LoadCSV(r io.Reader, opts Options) (dataframe.DataFrame, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return dataframe.New(), err
	}
	if dec != nil {
		r = transform.NewReader(r, dec.NewDecoder())
	}

	records, err := csv.NewReader(bufio.NewReader(r)).ReadAll()
	if err != nil {
		return dataframe.New(), errors.Wrap(err, "failed to parse csv")
	}
	df, err := loadRecords(records, opts)
	if err != nil {
		return dataframe.New(), errors.Wrap(err, "failed to parse csv")
	}
	return df, nil
}

// ReadXLSX 读取xlsx工作表，首行为表头
func ReadXLSX(filePath string, opts Options) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), errors.Wrapf(err, "xlsx open file %s", filePath)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("excel文件中没有工作表: %s", filePath)
	}
	sheet := xlFile.Sheets[0]
	if opts.SheetName != "" {
		s, ok := xlFile.Sheet[opts.SheetName]
		if !ok {
			return dataframe.New(), fmt.Errorf("工作表 %s 不存在", opts.SheetName)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	return convertSheetToDataFrame(sheet, opts)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet, opts Options) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.New(), fmt.Errorf("sheet %s 没有数据", sheet.Name)
	}

	// 获取列名(第一行是标题行)
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.String()))
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return dataframe.New(), fmt.Errorf("sheet %s 表头为空", sheet.Name)
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)

	// 填充数据(从第二行开始)，短行补空
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		record := make([]string, len(headers))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(headers) { // 确保不超出列数范围
				break
			}
			record[i] = cell.String()
			if record[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, record)
	}

	df, err := loadRecords(records, opts)
	if err != nil {
		return dataframe.New(), errors.Wrap(err, "failed to load sheet records")
	}
	return df, nil
}

// loadRecords 首行为表头；只有表头时返回0行的字符串列
func loadRecords(records [][]string, opts Options) (dataframe.DataFrame, error) {
	if len(records) == 1 {
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}
	df := dataframe.LoadRecords(records, loadOptions(opts)...)
	return df, df.Err
}

func loadOptions(opts Options) []dataframe.LoadOption {
	lo := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
	if len(opts.NaValues) > 0 {
		lo = append(lo, dataframe.NaNValues(opts.NaValues))
	}
	return lo
}

func decoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "utf8":
		return nil, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	default:
		return nil, fmt.Errorf("不支持的编码: %s", name)
	}
}

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}
