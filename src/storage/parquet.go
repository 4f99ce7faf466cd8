package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// rowGroupSize parquet行组大小
const rowGroupSize = 128 * 1024 * 1024

// SaveToParquet 将rows写入parquet文件，T的parquet标签定义schema
// 先写入同目录临时文件再重命名，中途失败不会留下不完整的输出
func SaveToParquet[T any](filePath string, rows []T) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "创建输出目录失败 %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "创建临时文件失败")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := writeParquet(tmpPath, rows); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		return errors.Wrapf(err, "保存parquet文件失败 %s", filePath)
	}
	return nil
}

func writeParquet[T any](filePath string, rows []T) error {
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return errors.Wrapf(err, "打开parquet文件失败 %s", filePath)
	}

	pw, err := writer.NewParquetWriter(fw, new(T), 1)
	if err != nil {
		fw.Close()
		return errors.Wrap(err, "创建parquet writer失败")
	}
	pw.RowGroupSize = rowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			fw.Close()
			return fmt.Errorf("写入第 %d 行失败: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return errors.Wrap(err, "parquet WriteStop失败")
	}
	return fw.Close()
}

// LoadParquet 读取parquet文件全部行
func LoadParquet[T any](filePath string) ([]T, error) {
	fr, err := local.NewLocalFileReader(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "打开parquet文件失败 %s", filePath)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), 1)
	if err != nil {
		return nil, errors.Wrap(err, "创建parquet reader失败")
	}
	defer pr.ReadStop()

	rows := make([]T, int(pr.GetNumRows()))
	if len(rows) == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, errors.Wrap(err, "读取parquet失败")
	}
	return rows, nil
}
