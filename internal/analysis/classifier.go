package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SideClassifier определяет сторону тела, удерживаемую в защитном сгибании
type SideClassifier struct {
	epsilonDeg float64
}

// NewSideClassifier создает классификатор стороны с заданным допуском симметрии в градусах
func NewSideClassifier(epsilonDeg float64) *SideClassifier {
	if epsilonDeg <= 0 {
		epsilonDeg = DefaultSymmetryEpsilonDeg
	}
	return &SideClassifier{epsilonDeg: epsilonDeg}
}

// Classify сравнивает средние углы коленей по сторонам за все учтенные кадры.
// Колено, которое в среднем остается согнутым сильнее (меньший средний угол),
// пациент удерживает защитно - эта сторона и есть компенсирующая. Разница
// меньше допуска означает симметричное движение.
func (c *SideClassifier) Classify(seq []SampledMetrics) Side {
	if len(seq) == 0 {
		return SideNone
	}

	left := make([]float64, len(seq))
	right := make([]float64, len(seq))
	for i, s := range seq {
		left[i] = s.Metrics.KneeAngleLeft
		right[i] = s.Metrics.KneeAngleRight
	}

	meanLeft := stat.Mean(left, nil)
	meanRight := stat.Mean(right, nil)

	if math.Abs(meanLeft-meanRight) < c.epsilonDeg {
		return SideNone
	}
	if meanLeft < meanRight {
		return SideLeft
	}
	return SideRight
}

// SeverityClassifier переводит сводные метрики в уровень severity
type SeverityClassifier struct {
	problemThreshold   float64
	attentionThreshold float64
}

// NewSeverityClassifier создает классификатор severity с заданными границами полос
func NewSeverityClassifier(problemThreshold, attentionThreshold float64) *SeverityClassifier {
	if problemThreshold <= 0 {
		problemThreshold = DefaultHipShiftThreshold
	}
	if attentionThreshold <= 0 {
		attentionThreshold = DefaultKneeAsymmetryThreshold
	}
	return &SeverityClassifier{
		problemThreshold:   problemThreshold,
		attentionThreshold: attentionThreshold,
	}
}

// Classify вычисляет уровень по строгим неравенствам: значение ровно на
// границе остается в нижней полосе
func (c *SeverityClassifier) Classify(agg AggregateMetrics) Severity {
	peak := math.Max(agg.AvgHipShift, agg.AvgKneeAsymmetry)
	switch {
	case peak > c.problemThreshold:
		return SeverityProblem
	case peak > c.attentionThreshold:
		return SeverityAttention
	default:
		return SeverityOK
	}
}
