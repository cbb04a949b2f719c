package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	records, err := ComputeSurface(shortGrid(t), testContract())
	require.NoError(t, err)
	return NewDataset(records)
}

func TestDataset_Index(t *testing.T) {
	ds := sampleDataset(t)
	assert.Equal(t, 70, ds.Len())
	assert.False(t, ds.Empty())
	assert.Equal(t, Metrics, ds.Metrics())

	dates := ds.Dates()
	require.Len(t, dates, 7)
	assert.Equal(t, date("2020-09-11"), dates[0])
	assert.Equal(t, date("2020-09-17"), dates[6])

	minDate, maxDate, ok := ds.DateRange()
	require.True(t, ok)
	assert.Equal(t, date("2020-09-11"), minDate)
	assert.Equal(t, date("2020-09-17"), maxDate)
}

func TestDataset_SeriesOrderedBySpot(t *testing.T) {
	ds := sampleDataset(t)
	series, err := ds.Series(date("2020-09-15"), MetricDelta)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 200, series[0].Spot)
	assert.Equal(t, 201, series[1].Spot)
	assert.LessOrEqual(t, series[0].Value, series[1].Value)
}

func TestDataset_UnknownDate(t *testing.T) {
	ds := sampleDataset(t)
	_, err := ds.Series(date("2021-01-01"), MetricDelta)
	assert.ErrorIs(t, err, ErrDateNotFound)
	_, err = ds.RecordsOn(date("2021-01-01"))
	assert.ErrorIs(t, err, ErrDateNotFound)
}

func TestDataset_DatesIgnoreTimeOfDay(t *testing.T) {
	ds := sampleDataset(t)
	recs, err := ds.RecordsOn(time.Date(2020, 9, 15, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
}

func TestDataset_SnapshotsAndCopies(t *testing.T) {
	ds := sampleDataset(t)

	single, err := ds.Snapshots(date("2020-09-12"), date("2020-09-12"))
	require.NoError(t, err)
	assert.Len(t, single, 10)

	both, err := ds.Snapshots(date("2020-09-12"), date("2020-09-16"))
	require.NoError(t, err)
	assert.Len(t, both, 20)

	both[0].Value = -1e9
	again, err := ds.RecordsOn(date("2020-09-12"))
	require.NoError(t, err)
	assert.NotEqual(t, -1e9, again[0].Value)

	values, err := ds.MetricRecordsOn(date("2020-09-12"), MetricValue)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestDataset_Empty(t *testing.T) {
	ds := NewDataset(nil)
	assert.True(t, ds.Empty())
	_, _, ok := ds.DateRange()
	assert.False(t, ok)
	assert.Empty(t, ds.Metrics())
}
