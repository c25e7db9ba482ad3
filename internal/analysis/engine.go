package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"insidemotion-go/pkg/models"
)

// Engine выполняет полный анализ компенсаций по потоку ключевых точек.
// Расчет синхронный и однопроходный, состояние между запусками не разделяется:
// один и тот же поток всегда дает один и тот же отчет.
type Engine struct {
	opts     Options
	computer *MetricComputer
	logger   *logrus.Logger
}

// NewEngine создает движок анализа с заданными параметрами
func NewEngine(opts Options, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		opts:     opts.normalized(),
		computer: NewMetricComputer(),
		logger:   logger,
	}
}

// Analyze выполняет анализ потока кадров и возвращает итоговый отчет
func (e *Engine) Analyze(ctx context.Context, frames []models.Frame) (*AnalysisReport, error) {
	report, _, err := e.AnalyzeSequence(ctx, frames)
	return report, err
}

// AnalyzeSequence делает то же, что Analyze, и дополнительно возвращает
// последовательность метрик по учтенным кадрам для построения таймлайна
func (e *Engine) AnalyzeSequence(ctx context.Context, frames []models.Frame) (*AnalysisReport, []SampledMetrics, error) {
	agg := NewAggregator(e.opts)
	skipped := 0
	prevTime := math.Inf(-1)

	for i, frame := range frames {
		// Отмена проверяется между кадрами, частичный отчет не возвращается никогда
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("analysis cancelled at frame %d: %w", i, err)
		}

		// Временные метки обязаны быть неубывающими
		if frame.Time < prevTime {
			return nil, nil, &OrderingError{FrameIndex: frame.Index, PrevTime: prevTime, Time: frame.Time}
		}
		prevTime = frame.Time

		if ok, joint := usableFrame(frame, e.opts.VisibilityThreshold); !ok {
			skipped++
			e.logger.Debugf("Кадр %d пропущен: сустав %s отсутствует или не виден", frame.Index, joint)
			continue
		}

		m, err := e.computer.Compute(frame)
		if err != nil {
			var missing *MissingJointError
			if errors.As(err, &missing) {
				skipped++
				e.logger.Debugf("Кадр %d пропущен: %v", frame.Index, err)
				continue
			}
			// Вырожденная геометрия фатальна для всего запуска
			return nil, nil, err
		}

		if err := agg.Add(SampledMetrics{FrameIndex: frame.Index, Timestamp: frame.Time, Metrics: m}); err != nil {
			return nil, nil, err
		}
	}

	if agg.Count() == 0 {
		return nil, nil, &EmptyStreamError{TotalFrames: len(frames), SkippedFrames: skipped}
	}

	result, err := agg.Finalize()
	if err != nil {
		return nil, nil, err
	}

	side := NewSideClassifier(e.opts.SymmetryEpsilonDeg).Classify(result.Sequence)
	severity := NewSeverityClassifier(e.opts.HipShiftThreshold, e.opts.KneeAsymmetryThreshold).Classify(result.Metrics)
	report := NewReportBuilder().Build(result.Metrics, result.Neutral, result.Peak, side, severity)

	e.logger.Infof("Анализ завершен: учтено %d кадров, пропущено %d, severity=%s, сторона=%s",
		len(result.Sequence), skipped, report.Severity, report.CompensatingSide)

	return report, result.Sequence, nil
}
