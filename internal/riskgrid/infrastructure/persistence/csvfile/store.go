// Package csvfile 风险曲面平面文件：列为 (row_index, date, spot, plot_type, value)
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
)

// Header 表头，首列为无名的行号列
var Header = []string{"", "date", "spot", "plot_type", "value"}

// 展示层忽略的合成行
var syntheticPlotTypes = map[string]struct{}{"spot": {}, "t": {}}

// Store 平面文件读写
type Store struct {
	path string
}

// NewStore 创建平面文件存储
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 文件路径
func (s *Store) Path() string { return s.path }

// Write 整体写出，先写临时文件再改名，读者不会看到半个文件
func (s *Store) Write(ctx context.Context, records []domain.RiskRecord) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", domain.ErrStorageUnavailable, dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: flush %s: %v", domain.ErrStorageUnavailable, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorageUnavailable, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}

	logger.Debug(ctx, "risk records written", "path", s.path, "records", len(records))
	return nil
}

// Read 读入全部记录
func (s *Store) Read(ctx context.Context) ([]domain.RiskRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}
	defer f.Close()

	records, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	logger.Debug(ctx, "risk records loaded", "path", s.path, "records", len(records))
	return records, nil
}

// LoadDataset 读入并构造只读数据集
func (s *Store) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	records, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewDataset(records), nil
}

// Encode 按固定格式写出，数值使用最短往返表示，输出确定
func Encode(w io.Writer, records []domain.RiskRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: write header: %v", domain.ErrStorageUnavailable, err)
	}
	row := make([]string, len(Header))
	for i, r := range records {
		row[0] = strconv.Itoa(i)
		row[1] = r.Date.Format(domain.DateLayout)
		row[2] = strconv.Itoa(r.Spot)
		row[3] = string(r.Metric)
		row[4] = strconv.FormatFloat(r.Value, 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: write row %d: %v", domain.ErrStorageUnavailable, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Decode 解析平面文件；首列可为空或 row_index，跳过 spot / t 合成行
func Decode(r io.Reader) ([]domain.RiskRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", domain.ErrStorageUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrStorageUnavailable, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []domain.RiskRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrStorageUnavailable, line, err)
		}
		if _, skip := syntheticPlotTypes[row[3]]; skip {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrStorageUnavailable, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if header[0] != "" && header[0] != "row_index" {
		return fmt.Errorf("%w: unexpected first column %q", domain.ErrStorageUnavailable, header[0])
	}
	for i := 1; i < len(Header); i++ {
		if header[i] != Header[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", domain.ErrStorageUnavailable, i, header[i], Header[i])
		}
	}
	return nil
}

func parseRow(row []string) (domain.RiskRecord, error) {
	date, err := time.Parse(domain.DateLayout, row[1])
	if err != nil {
		return domain.RiskRecord{}, fmt.Errorf("invalid date %q", row[1])
	}
	spot, err := strconv.Atoi(row[2])
	if err != nil {
		return domain.RiskRecord{}, fmt.Errorf("invalid spot %q", row[2])
	}
	metric := domain.Metric(row[3])
	if !metric.Valid() {
		return domain.RiskRecord{}, fmt.Errorf("unknown plot_type %q", row[3])
	}
	value, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return domain.RiskRecord{}, fmt.Errorf("invalid value %q", row[4])
	}
	return domain.RiskRecord{Date: date, Spot: spot, Metric: metric, Value: value}, nil
}
