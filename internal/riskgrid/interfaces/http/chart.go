package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/application"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
)

const (
	chartWidth  = 1200
	chartHeight = 600
)

// renderChart 以现价为横轴绘制起始、结束与变化三条曲线；变化未定义的现价不画点
func renderChart(metric domain.Metric, start, end time.Time, changes []application.SpotChangeDTO) ([]byte, error) {
	if len(changes) < 2 {
		return nil, fmt.Errorf("need at least two spots to draw, got %d", len(changes))
	}

	var endX, endY, startX, startY, diffX, diffY []float64
	for _, c := range changes {
		x := float64(c.Spot)
		endX = append(endX, x)
		endY = append(endY, c.End)
		if c.Start != nil {
			startX = append(startX, x)
			startY = append(startY, *c.Start)
		}
		if c.Change != nil {
			diffX = append(diffX, x)
			diffY = append(diffY, *c.Change)
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{Name: end.Format(domain.MarkLabelLayout), XValues: endX, YValues: endY},
	}
	if len(startX) > 1 {
		series = append(series, chart.ContinuousSeries{Name: start.Format(domain.MarkLabelLayout), XValues: startX, YValues: startY})
	}
	if len(diffX) > 1 {
		series = append(series, chart.ContinuousSeries{Name: "change", XValues: diffX, YValues: diffY})
	}

	graph := chart.Chart{
		Title:  string(metric) + " vs spot",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "spot"},
		YAxis:  chart.YAxis{Name: string(metric)},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
