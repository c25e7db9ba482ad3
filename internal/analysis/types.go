package analysis

import (
	"encoding/json"
	"fmt"
)

// Side обозначает сторону тела, на которую указывает паттерн компенсации
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideNone  Side = "none"
)

// Severity обозначает степень выраженности компенсации.
// Уровни полностью упорядочены: ok < attention < problem.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityAttention
	SeverityProblem
)

var severityNames = map[Severity]string{
	SeverityOK:        "ok",
	SeverityAttention: "attention",
	SeverityProblem:   "problem",
}

// String возвращает строковое представление уровня severity
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity восстанавливает уровень severity из строкового представления
func ParseSeverity(name string) (Severity, error) {
	for sev, n := range severityNames {
		if n == name {
			return sev, nil
		}
	}
	return SeverityOK, fmt.Errorf("unknown severity %q", name)
}

// MarshalJSON сериализует severity как строку (ok/attention/problem)
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON восстанавливает severity из строкового представления
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// FrameMetrics содержит метрики компенсации, вычисленные по одному кадру
type FrameMetrics struct {
	HipShift       float64 `json:"hip_shift"`        // Боковое смещение бедер (нормализованные единицы, >= 0)
	KneeAngleLeft  float64 `json:"knee_angle_left"`  // Угол в левом колене в градусах (180 - прямая нога)
	KneeAngleRight float64 `json:"knee_angle_right"` // Угол в правом колене в градусах (180 - прямая нога)
	KneeAsymmetry  float64 `json:"knee_asymmetry"`   // Нормализованная асимметрия углов коленей (>= 0)
}

// CombinedScore возвращает суммарную величину компенсации кадра
func (m FrameMetrics) CombinedScore() float64 {
	return m.HipShift + m.KneeAsymmetry
}

// AggregateMetrics содержит сводные метрики по всем учтенным кадрам
type AggregateMetrics struct {
	AvgHipShift      float64 `json:"avg_hip_shift"`      // Среднее смещение бедер
	MaxHipShift      float64 `json:"max_hip_shift"`      // Максимальное смещение бедер
	AvgKneeAsymmetry float64 `json:"avg_knee_asymmetry"` // Средняя асимметрия коленей
	MaxKneeAsymmetry float64 `json:"max_knee_asymmetry"` // Максимальная асимметрия коленей
}

// Метки ключевых моментов анализа
const (
	LabelNeutral          = "neutral"
	LabelPeakCompensation = "peak_compensation"
)

// KeyMoment привязывает метку клинически значимого момента к кадру видео
type KeyMoment struct {
	Label      string       `json:"label"`       // Метка момента (neutral/peak_compensation)
	FrameIndex int          `json:"frame_index"` // Номер кадра в исходном видео
	Timestamp  float64      `json:"timestamp"`   // Время кадра в секундах
	Metrics    FrameMetrics `json:"metrics"`     // Метрики кадра в этот момент
}

// SampledMetrics привязывает метрики кадра к его позиции в потоке
type SampledMetrics struct {
	FrameIndex int          `json:"frame_index"` // Номер кадра в исходном видео
	Timestamp  float64      `json:"timestamp"`   // Время кадра в секундах
	Metrics    FrameMetrics `json:"metrics"`     // Метрики кадра
}

// AnalysisReport представляет итоговый отчет анализа одного видео
type AnalysisReport struct {
	Summary          AggregateMetrics `json:"summary"`           // Сводные метрики
	CompensatingSide Side             `json:"compensating_side"` // Сторона компенсации (left/right/none)
	Severity         Severity         `json:"severity"`          // Уровень выраженности (ok/attention/problem)
	Message          string           `json:"message"`           // Клиническое сообщение для специалиста
	Recommendation   string           `json:"recommendation"`    // Рекомендация по реабилитации
	KeyMoments       []KeyMoment      `json:"key_moments"`       // Нейтральный момент и пик компенсации
}
