package analysis

import "math"

// neutralScoreTolerance задает допуск, в пределах которого более ранний кадр
// предпочтительнее абсолютного минимума окна (защита от шумных одиночных кадров)
const neutralScoreTolerance = 1e-3

// Aggregator накапливает метрики кадров за один проход по потоку.
// Контракт двухфазный: сначала Add для каждого кадра, затем один Finalize.
// Любая мутация после финализации - ошибка.
type Aggregator struct {
	opts      Options
	finalized bool

	count   int
	sumHip  float64
	maxHip  float64
	sumAsym float64
	maxAsym float64

	samples []SampledMetrics // Сохраненная последовательность для классификаторов и таймлайна

	peakIdx   int // Позиция пика в samples, -1 пока кадров нет
	peakScore float64
}

// NewAggregator создает новый агрегатор метрик
func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts.normalized(), peakIdx: -1}
}

// Count возвращает число учтенных кадров
func (a *Aggregator) Count() int {
	return a.count
}

// Add учитывает метрики очередного кадра
func (a *Aggregator) Add(sample SampledMetrics) error {
	if a.finalized {
		return ErrAggregatorFinalized
	}

	m := sample.Metrics
	a.count++
	a.sumHip += m.HipShift
	if m.HipShift > a.maxHip {
		a.maxHip = m.HipShift
	}
	a.sumAsym += m.KneeAsymmetry
	if m.KneeAsymmetry > a.maxAsym {
		a.maxAsym = m.KneeAsymmetry
	}

	// Строгое сравнение: при равных очках пиком остается более ранний кадр
	score := m.CombinedScore()
	if a.peakIdx < 0 || score > a.peakScore {
		a.peakIdx = len(a.samples)
		a.peakScore = score
	}

	a.samples = append(a.samples, sample)
	return nil
}

// AggregateResult содержит результат финализации агрегатора
type AggregateResult struct {
	Metrics  AggregateMetrics // Сводные метрики по всем учтенным кадрам
	Neutral  KeyMoment        // Нейтральный момент (опорный кадр без компенсации)
	Peak     KeyMoment        // Момент максимальной компенсации
	Sequence []SampledMetrics // Учтенные кадры в порядке поступления
}

// Finalize завершает накопление и возвращает сводный результат.
// Повторная финализация и финализация без единого кадра - ошибки.
func (a *Aggregator) Finalize() (*AggregateResult, error) {
	if a.finalized {
		return nil, ErrAggregatorFinalized
	}
	a.finalized = true

	if a.count == 0 {
		return nil, &EmptyStreamError{}
	}

	neutral := a.selectNeutral()
	peak := a.samples[a.peakIdx]

	return &AggregateResult{
		Metrics: AggregateMetrics{
			AvgHipShift:      a.sumHip / float64(a.count),
			MaxHipShift:      a.maxHip,
			AvgKneeAsymmetry: a.sumAsym / float64(a.count),
			MaxKneeAsymmetry: a.maxAsym,
		},
		Neutral: KeyMoment{
			Label:      LabelNeutral,
			FrameIndex: neutral.FrameIndex,
			Timestamp:  neutral.Timestamp,
			Metrics:    neutral.Metrics,
		},
		Peak: KeyMoment{
			Label:      LabelPeakCompensation,
			FrameIndex: peak.FrameIndex,
			Timestamp:  peak.Timestamp,
			Metrics:    peak.Metrics,
		},
		Sequence: a.samples,
	}, nil
}

// selectNeutral выбирает нейтральный кадр: самый ранний кадр стартового окна,
// чей суммарный показатель не хуже минимума окна плюс допуск. Если кадров
// меньше размера окна, просматривается вся последовательность.
func (a *Aggregator) selectNeutral() SampledMetrics {
	window := a.samples
	if len(window) > a.opts.NeutralWindowSize {
		window = window[:a.opts.NeutralWindowSize]
	}

	minScore := math.Inf(1)
	for _, s := range window {
		if score := s.Metrics.CombinedScore(); score < minScore {
			minScore = score
		}
	}
	for _, s := range window {
		if s.Metrics.CombinedScore() <= minScore+neutralScoreTolerance {
			return s
		}
	}
	return window[0]
}
