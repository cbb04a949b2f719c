package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

type memSink struct {
	records []domain.RiskRecord
	err     error
}

func (m *memSink) Write(_ context.Context, records []domain.RiskRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append([]domain.RiskRecord(nil), records...)
	return nil
}

type recordingPublisher struct {
	events []domain.SurfaceGeneratedEvent
	err    error
}

func (p *recordingPublisher) PublishSurfaceGenerated(_ context.Context, e domain.SurfaceGeneratedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return false, errors.New("cache down")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func defaultCommand() GenerateSurfaceCommand {
	return GenerateSurfaceCommand{
		ExpiryDate:   mustDate("2020-09-18"),
		StartDate:    mustDate("2020-09-10"),
		SpotMin:      200,
		SpotMax:      201,
		Strike:       280,
		Volatility:   0.3,
		RiskFreeRate: 0.05,
		OptionType:   "call",
		Multiplier:   1000,
		Convention:   "market",
	}
}
