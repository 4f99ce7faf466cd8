package main

import (
	"FlightPrepare/src/config"
	"FlightPrepare/src/datasource/file"
	"FlightPrepare/src/processor"
	"FlightPrepare/src/storage"
	"FlightPrepare/src/utils"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warning(fmt.Sprintf("日志级别 %q 无效，使用默认级别: %v", cfg.LogLevel, err))
	}
	if err := logger.CheckRotate(cfg); err != nil {
		logger.Warning("日志轮转失败: " + err.Error())
	}

	t1 := time.Now()
	if err := run(cfg, dcfg, logger); err != nil {
		logger.Fatal(err.Error())
		logger.Close()
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("数据处理时间：%v", time.Since(t1)))
}

// run 执行一次完整的加载、清洗、保存
func run(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) error {
	logger.Info("加载数据集: " + cfg.RawPath)
	df, err := file.ReadDataFrame(cfg.RawPath, file.Options{
		Encoding:  cfg.InputEncoding,
		SheetName: cfg.SheetName,
		NaValues:  dcfg.GetNaValues(),
	})
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("原始数据集: %d 行, %d 列", df.Nrow(), df.Ncol()))

	cleaner := processor.NewFlightCleaner(dcfg, logger)
	var dp processor.DataProcess = cleaner
	if err := dp.DataProcessFunc(&df); err != nil {
		return err
	}

	records, err := processor.ToRecords(df)
	if err != nil {
		return err
	}

	outPath := cfg.OutPath()
	if err := file.EnsureDir(cfg.OutDir); err != nil {
		return err
	}
	if err := storage.SaveToParquet(outPath, records); err != nil {
		return err
	}

	if cfg.ReportPath != "" {
		if err := saveReport(cleaner, cfg.ReportPath); err != nil {
			logger.Warning("生成运行报告失败: " + err.Error())
		} else {
			logger.Info("运行报告已保存到: " + cfg.ReportPath)
		}
	}

	logger.Info("数据集清洗完成")
	logger.Info("文件保存在: " + outPath)
	logger.Info(fmt.Sprintf("最终行数: %d", len(records)))
	return nil
}

func saveReport(cleaner *processor.FlightCleaner, reportPath string) error {
	if err := file.EnsureDir(filepath.Dir(reportPath)); err != nil {
		return err
	}
	return utils.SaveToExcel(cleaner.StatsFrame(), reportPath, "report")
}
