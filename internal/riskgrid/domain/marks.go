package domain

import "time"

const (
	// MarkLabelLayout 日期刻度标签格式，例如 "18 Sep 20"
	MarkLabelLayout = "02 Jan 06"
	// CaptionLayout 区间说明中的日期格式，例如 "18-Sep-20"
	CaptionLayout = "02-Jan-06"
	// markEdgeDays 月末刻度距两端的最小天数
	markEdgeDays = 14
)

// DateMark 日期滑块上的一个刻度
type DateMark struct {
	Date  time.Time
	Label string
}

// DateMarks 两端日期总是标注；距两端至少 14 天的月末也标注。结果按日期升序。
func DateMarks(start, end time.Time) []DateMark {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil
	}

	var marks []DateMark
	lastDay := DaysBetween(start, end)
	for i := 0; i <= lastDay; i++ {
		day := start.AddDate(0, 0, i)
		edge := i == 0 || i == lastDay
		inner := i >= markEdgeDays && i <= lastDay-markEdgeDays && isMonthEnd(day)
		if edge || inner {
			marks = append(marks, DateMark{Date: day, Label: day.Format(MarkLabelLayout)})
		}
	}
	return marks
}

func isMonthEnd(d time.Time) bool {
	return d.AddDate(0, 0, 1).Day() == 1
}

// RangeCaption 区间说明文字
func RangeCaption(start, end time.Time) string {
	return "Examining data from " + start.Format(CaptionLayout) + " to " + end.Format(CaptionLayout)
}
