package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"insidemotion-go/internal/analysis"
)

// RenderTimeline строит HTML график метрик компенсации по кадрам видео
// с аннотацией ключевых моментов и пишет его в w
func RenderTimeline(w io.Writer, title string, seq []analysis.SampledMetrics, moments []analysis.KeyMoment) error {
	x := make([]string, len(seq))
	hip := make([]opts.LineData, len(seq))
	asym := make([]opts.LineData, len(seq))
	for i, s := range seq {
		x[i] = fmt.Sprintf("%.2f", s.Timestamp)
		hip[i] = opts.LineData{Value: s.Metrics.HipShift}
		asym[i] = opts.LineData{Value: s.Metrics.KneeAsymmetry}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Compensation Timeline", Width: "1100px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Метрики компенсации", Subtitle: subtitle(title, moments)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Время, с"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Величина"}),
	)

	line.SetXAxis(x).
		AddSeries("hip_shift", hip, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})).
		AddSeries("knee_asymmetry", asym, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line.Render(w)
}

// subtitle собирает подзаголовок графика с позициями ключевых моментов
func subtitle(title string, moments []analysis.KeyMoment) string {
	parts := make([]string, 0, len(moments)+1)
	if title != "" {
		parts = append(parts, title)
	}
	for _, m := range moments {
		parts = append(parts, fmt.Sprintf("%s: кадр %d (t=%.2fс)", m.Label, m.FrameIndex, m.Timestamp))
	}
	return strings.Join(parts, " | ")
}
