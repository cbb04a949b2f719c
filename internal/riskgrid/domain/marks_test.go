package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateMarks_MonthEndsAwayFromEdges(t *testing.T) {
	marks := DateMarks(date("2020-06-01"), date("2020-09-18"))

	labels := make([]string, 0, len(marks))
	for _, m := range marks {
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"01 Jun 20", "30 Jun 20", "31 Jul 20", "31 Aug 20", "18 Sep 20"}, labels)
}

func TestDateMarks_MonthEndTooCloseToEdge(t *testing.T) {
	marks := DateMarks(date("2020-08-25"), date("2020-09-18"))
	assert.Len(t, marks, 2)
	assert.Equal(t, date("2020-08-25"), marks[0].Date)
	assert.Equal(t, date("2020-09-18"), marks[1].Date)
}

func TestDateMarks_SingleDayAndInverted(t *testing.T) {
	assert.Len(t, DateMarks(date("2020-09-18"), date("2020-09-18")), 1)
	assert.Nil(t, DateMarks(date("2020-09-18"), date("2020-09-01")))
}

func TestRangeCaption(t *testing.T) {
	assert.Equal(t, "Examining data from 10-Sep-20 to 18-Sep-20", RangeCaption(date("2020-09-10"), date("2020-09-18")))
}
