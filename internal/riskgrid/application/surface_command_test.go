package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
)

func TestGenerateSurface_WritesAndPublishes(t *testing.T) {
	sink := &memSink{}
	pub := &recordingPublisher{}
	m := metrics.New()
	svc := NewSurfaceCommandService(sink, pub, m, "data/out.csv")

	run, err := svc.GenerateSurface(context.Background(), defaultCommand())
	require.NoError(t, err)

	assert.Equal(t, 14, run.Points)
	assert.Equal(t, 70, run.Records)
	assert.Len(t, sink.records, 70)
	assert.NotEmpty(t, run.RunID)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, run.RunID, ev.RunID)
	assert.Equal(t, "2020-09-18", ev.ExpiryDate)
	assert.Equal(t, "2020-09-10", ev.StartDate)
	assert.Equal(t, 70, ev.Records)
	assert.Equal(t, "data/out.csv", ev.Path)

	assert.Equal(t, 14.0, testutil.ToFloat64(m.GridPointsTotal))
	assert.Equal(t, 70.0, testutil.ToFloat64(m.RecordsWrittenTotal))
}

func TestGenerateSurface_EmptyGridStillWrites(t *testing.T) {
	sink := &memSink{}
	cmd := defaultCommand()
	cmd.StartDate = mustDate("2020-09-18")

	run, err := NewSurfaceCommandService(sink, nil, nil, "x.csv").GenerateSurface(context.Background(), cmd)
	require.NoError(t, err)
	assert.Zero(t, run.Records)
	assert.Empty(t, sink.records)
}

func TestGenerateSurface_DefaultStartIsClock(t *testing.T) {
	sink := &memSink{}
	pub := &recordingPublisher{}
	cmd := defaultCommand()
	cmd.StartDate = time.Time{}

	svc := NewSurfaceCommandService(sink, pub, nil, "x.csv").
		WithClock(func() time.Time { return time.Date(2020, 9, 16, 9, 0, 0, 0, time.UTC) })
	run, err := svc.GenerateSurface(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Points)
	assert.Equal(t, "2020-09-16", pub.events[0].StartDate)
}

func TestGenerateSurface_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GenerateSurfaceCommand)
		want   error
	}{
		{"inverted spots", func(c *GenerateSurfaceCommand) { c.SpotMin, c.SpotMax = 300, 200 }, domain.ErrInvalidRange},
		{"zero vol", func(c *GenerateSurfaceCommand) { c.Volatility = 0 }, domain.ErrDomain},
		{"bad option type", func(c *GenerateSurfaceCommand) { c.OptionType = "straddle" }, domain.ErrInvalidInput},
		{"bad convention", func(c *GenerateSurfaceCommand) { c.Convention = "weekly" }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &memSink{}
			cmd := defaultCommand()
			tc.mutate(&cmd)
			_, err := NewSurfaceCommandService(sink, nil, nil, "x.csv").GenerateSurface(context.Background(), cmd)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, sink.records)
		})
	}
}

func TestGenerateSurface_SinkFailure(t *testing.T) {
	sinkErr := errors.New("disk full")
	pub := &recordingPublisher{}
	_, err := NewSurfaceCommandService(&memSink{err: sinkErr}, pub, nil, "x.csv").
		GenerateSurface(context.Background(), defaultCommand())
	assert.ErrorIs(t, err, sinkErr)
	assert.Empty(t, pub.events)
}

func TestGenerateSurface_PublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	run, err := NewSurfaceCommandService(&memSink{}, pub, nil, "x.csv").
		GenerateSurface(context.Background(), defaultCommand())
	require.NoError(t, err)
	assert.Equal(t, 70, run.Records)
	assert.Len(t, pub.events, 1)
}

func TestGenerateSurface_LogsRunDuration(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "batch.log")
	require.NoError(t, logger.Init(logger.Config{Level: "info", Format: "json", Output: "file", FilePath: logPath}))
	t.Cleanup(func() { _ = logger.Init(logger.Config{Level: "error", Output: "stderr"}) })

	run, err := NewSurfaceCommandService(&memSink{}, nil, nil, "data/out.csv").
		GenerateSurface(context.Background(), defaultCommand())
	require.NoError(t, err)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var found map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(raw), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "surface generated" {
			found = entry
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, run.RunID, found["run_id"])
	assert.Equal(t, "data/out.csv", found["path"])
	assert.EqualValues(t, 14, found["points"])
	assert.EqualValues(t, 70, found["records"])
	assert.Contains(t, found, "duration")
}
