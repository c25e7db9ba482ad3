package analysis

import (
	"fmt"
	"math"
)

// Фиксированные клинические тексты отчета
const (
	msgOK        = "No significant compensation detected"
	recOK        = "Continue current rehabilitation protocol."
	recAttention = "Monitor knee loading symmetry during upcoming sessions."
	recProblem   = "Focus on slow, symmetrical knee loading."
)

// ReportBuilder собирает итоговый отчет анализа из готовых результатов
type ReportBuilder struct{}

// NewReportBuilder создает новый сборщик отчетов
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Build формирует отчет. Вычислений здесь нет, только сборка структуры
// и выбор шаблона сообщения по severity и стороне.
func (b *ReportBuilder) Build(agg AggregateMetrics, neutral, peak KeyMoment, side Side, severity Severity) *AnalysisReport {
	message, recommendation := composeMessage(severity, side, peakFlexionAngle(peak.Metrics))
	return &AnalysisReport{
		Summary:          agg,
		CompensatingSide: side,
		Severity:         severity,
		Message:          message,
		Recommendation:   recommendation,
		KeyMoments:       []KeyMoment{neutral, peak},
	}
}

// peakFlexionAngle возвращает угол сгибания (0 - прямая нога) более согнутого
// колена в момент пиковой компенсации
func peakFlexionAngle(m FrameMetrics) float64 {
	return 180 - math.Min(m.KneeAngleLeft, m.KneeAngleRight)
}

// loadBearingSide возвращает сторону, принимающую нагрузку вместо компенсирующей
func loadBearingSide(side Side) Side {
	switch side {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	}
	return SideNone
}

// composeMessage выбирает шаблон сообщения и рекомендации по уровню severity
func composeMessage(severity Severity, side Side, flexionDeg float64) (string, string) {
	switch severity {
	case SeverityProblem:
		if side == SideNone {
			return fmt.Sprintf("Lateral hip shift detected at %.0f° knee flexion", flexionDeg), recProblem
		}
		return fmt.Sprintf("Load shifts to the %s leg at %.0f° knee flexion", loadBearingSide(side), flexionDeg), recProblem
	case SeverityAttention:
		if side == SideNone {
			return fmt.Sprintf("Mild lateral hip shift at %.0f° knee flexion", flexionDeg), recAttention
		}
		return fmt.Sprintf("Mild load shift toward the %s leg at %.0f° knee flexion", loadBearingSide(side), flexionDeg), recAttention
	default:
		return msgOK, recOK
	}
}
