package domain

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"time"
)

// SeriesPoint 某日某指标在单个现价上的取值
type SeriesPoint struct {
	Spot  int
	Value float64
}

// Dataset 内存中的风险曲面，构造后只读，可并发读取
type Dataset struct {
	byDate  map[time.Time][]RiskRecord
	dates   []time.Time
	metrics []Metric
	size    int

	// 内容指纹，用作缓存键的一部分
	fingerprint string
}

// NewDataset 按日期建立索引，records 被复制
func NewDataset(records []RiskRecord) *Dataset {
	ds := &Dataset{byDate: make(map[time.Time][]RiskRecord)}
	present := make(map[Metric]struct{})
	h := fnv.New64a()
	var buf [8]byte
	for _, r := range records {
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Date.Unix()))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Spot))
		h.Write(buf[:])
		h.Write([]byte(r.Metric))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Value))
		h.Write(buf[:])

		day := truncateDay(r.Date)
		r.Date = day
		ds.byDate[day] = append(ds.byDate[day], r)
		present[r.Metric] = struct{}{}
	}
	ds.size = len(records)
	ds.fingerprint = strconv.FormatUint(h.Sum64(), 16)

	ds.dates = make([]time.Time, 0, len(ds.byDate))
	for d := range ds.byDate {
		ds.dates = append(ds.dates, d)
	}
	sort.Slice(ds.dates, func(i, j int) bool { return ds.dates[i].Before(ds.dates[j]) })

	for _, m := range Metrics {
		if _, ok := present[m]; ok {
			ds.metrics = append(ds.metrics, m)
		}
	}
	return ds
}

// Len 记录条数
func (d *Dataset) Len() int { return d.size }

// Fingerprint 内容指纹，记录相同则指纹相同
func (d *Dataset) Fingerprint() string { return d.fingerprint }

// Empty 是否没有任何记录
func (d *Dataset) Empty() bool { return d.size == 0 }

// Dates 全部日期，升序
func (d *Dataset) Dates() []time.Time {
	return append([]time.Time(nil), d.dates...)
}

// Metrics 数据集中出现的指标
func (d *Dataset) Metrics() []Metric {
	return append([]Metric(nil), d.metrics...)
}

// DateRange 最小与最大日期，空数据集 ok 为 false
func (d *Dataset) DateRange() (minDate, maxDate time.Time, ok bool) {
	if len(d.dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.dates[0], d.dates[len(d.dates)-1], true
}

// RecordsOn 某日全部记录的副本
func (d *Dataset) RecordsOn(date time.Time) ([]RiskRecord, error) {
	recs, ok := d.byDate[truncateDay(date)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDateNotFound, date.Format(DateLayout))
	}
	return append([]RiskRecord(nil), recs...), nil
}

// Snapshots 起止两个日期的记录，起止相同时只取一次
func (d *Dataset) Snapshots(start, end time.Time) ([]RiskRecord, error) {
	startRecs, err := d.RecordsOn(start)
	if err != nil {
		return nil, err
	}
	if truncateDay(start).Equal(truncateDay(end)) {
		return startRecs, nil
	}
	endRecs, err := d.RecordsOn(end)
	if err != nil {
		return nil, err
	}
	return append(startRecs, endRecs...), nil
}

// Series 某日某指标按现价升序的序列
func (d *Dataset) Series(date time.Time, metric Metric) ([]SeriesPoint, error) {
	recs, ok := d.byDate[truncateDay(date)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDateNotFound, date.Format(DateLayout))
	}
	points := make([]SeriesPoint, 0, len(recs)/len(Metrics)+1)
	for _, r := range recs {
		if r.Metric == metric {
			points = append(points, SeriesPoint{Spot: r.Spot, Value: r.Value})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Spot < points[j].Spot })
	return points, nil
}

// MetricRecordsOn 某日某指标的记录
func (d *Dataset) MetricRecordsOn(date time.Time, metric Metric) ([]RiskRecord, error) {
	recs, err := d.RecordsOn(date)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, r := range recs {
		if r.Metric == metric {
			out = append(out, r)
		}
	}
	return out, nil
}
