package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config 结构体定义了应用程序的运行配置
type Config struct {
	RawPath       string `json:"raw_path"`       // 原始数据文件路径(.csv / .xlsx)
	OutDir        string `json:"out_dir"`        // 输出目录，不存在时自动创建
	OutFile       string `json:"out_file"`       // 输出parquet文件名
	InputEncoding string `json:"input_encoding"` // CSV编码: utf-8 / gbk / gb18030
	SheetName     string `json:"sheet_name"`     // xlsx输入时读取的工作表
	ReportPath    string `json:"report_path"`    // 运行报告xlsx路径，为空则不生成
	LogName       string `json:"log_name"`
	LogLevel      string `json:"log_level"`
	LogMaxSize    string `json:"log_max_size"`
}

// OutPath 返回输出文件完整路径
func (c *Config) OutPath() string {
	return filepath.Join(c.OutDir, c.OutFile)
}

// DataConfig 定义数据列契约以及清洗规则
type DataConfig struct {
	Columns          []string `json:"columns"`
	DateLayouts      []string `json:"date_layouts"`
	NaValues         []string `json:"na_values"`
	WeekendDays      []string `json:"weekend_days"`
	SegmentDelimiter string   `json:"segment_delimiter"`
	GroupKeys        []string `json:"group_keys"`
}

// 原始数据的固定路径与列契约
const (
	RawPath = "data/raw/flights_jfk_mia.csv"
	OutDir  = "data/processed"
	OutFile = "flights_clean.parquet"
)

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	loadErr            error
	mu                 sync.RWMutex
)

// DefaultConfig 没有配置文件时使用的默认配置
func DefaultConfig() *Config {
	return &Config{
		RawPath:       RawPath,
		OutDir:        OutDir,
		OutFile:       OutFile,
		InputEncoding: "utf-8",
		SheetName:     "",
		ReportPath:    "",
		LogName:       "app.log",
		LogLevel:      "info",
		LogMaxSize:    "10 * 1024 * 1024",
	}
}

// DefaultDataConfig 默认的15列契约
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Columns: []string{
			"legId", "searchDate", "flightDate",
			"startingAirport", "destinationAirport",
			"travelDuration", "isBasicEconomy", "isRefundable", "isNonStop",
			"seatsRemaining", "totalTravelDistance",
			"segmentsAirlineName", "segmentsCabinCode",
			"baseFare", "totalFare",
		},
		DateLayouts: []string{
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02T15:04:05Z07:00",
			"2006/01/02",
			"2006/01/02 15:04:05",
		},
		NaValues: []string{
			"", "NA", "NaN", "nan", "-NaN", "-nan", "NULL", "null",
			"None", "N/A", "n/a", "#N/A", "#NA", "<NA>", "<nil>",
		},
		WeekendDays:      []string{"Saturday", "Sunday"},
		SegmentDelimiter: "|",
		GroupKeys:        []string{"startingAirport", "destinationAirport"},
	}
}

// LoadConfig 只加载一次，之后的调用返回同一结果
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	once.Do(func() {
		instance, dataConfigInstance, loadErr = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, loadErr
}

// loadConfigs 在默认值之上覆盖两份json，所有错误一并返回
func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfg := DefaultConfig()
	dcfg := DefaultDataConfig()

	var errs []error
	if err := decodeFile(filepath.Join(jsonFolder, jsonFile), "Config", cfg); err != nil {
		errs = append(errs, err)
	}
	if err := decodeFile(filepath.Join(jsonFolder, dataJsonFile), "DataConfig", dcfg); err != nil {
		errs = append(errs, err)
	} else if len(dcfg.Columns) == 0 {
		errs = append(errs, fmt.Errorf("DataConfig columns 不能为空"))
	}

	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return cfg, dcfg, nil
}

// decodeFile 文件不存在时保留dst中的默认值
func decodeFile(filePath, name string, dst any) error {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取%s文件失败 %s: %w", name, filePath, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("解析%s失败: %w", name, err)
	}
	return nil
}

func (dc *DataConfig) GetColumns() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), dc.Columns...)
}

func (dc *DataConfig) GetDateLayouts() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), dc.DateLayouts...)
}

func (dc *DataConfig) GetNaValues() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), dc.NaValues...)
}

// IsWeekend 判断英文星期名称是否属于周末
func (dc *DataConfig) IsWeekend(day string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, d := range dc.WeekendDays {
		if d == day {
			return true
		}
	}
	return false
}

func (dc *DataConfig) GetSegmentDelimiter() string {
	mu.RLock()
	defer mu.RUnlock()
	if dc.SegmentDelimiter == "" {
		return "|"
	}
	return dc.SegmentDelimiter
}

func (dc *DataConfig) GetGroupKeys() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), dc.GroupKeys...)
}
