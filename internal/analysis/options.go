package analysis

// Значения параметров анализа по умолчанию
const (
	DefaultVisibilityThreshold    = 0.5
	DefaultHipShiftThreshold      = 0.02
	DefaultKneeAsymmetryThreshold = 0.015
	DefaultNeutralWindowSize      = 10
	DefaultSymmetryEpsilonDeg     = 2.0
)

// Options содержит настраиваемые параметры движка анализа
type Options struct {
	VisibilityThreshold    float64 // Минимальная видимость обязательных точек кадра
	HipShiftThreshold      float64 // Граница полосы severity=problem по max(avg_hip_shift, avg_knee_asymmetry)
	KneeAsymmetryThreshold float64 // Граница полосы severity=attention по той же величине
	NeutralWindowSize      int     // Сколько первых учтенных кадров просматривать при поиске нейтрального
	SymmetryEpsilonDeg     float64 // Допуск разницы средних углов коленей, внутри которого движение симметрично
}

// DefaultOptions возвращает параметры анализа по умолчанию
func DefaultOptions() Options {
	return Options{
		VisibilityThreshold:    DefaultVisibilityThreshold,
		HipShiftThreshold:      DefaultHipShiftThreshold,
		KneeAsymmetryThreshold: DefaultKneeAsymmetryThreshold,
		NeutralWindowSize:      DefaultNeutralWindowSize,
		SymmetryEpsilonDeg:     DefaultSymmetryEpsilonDeg,
	}
}

// normalized возвращает опции, в которых незаполненные поля заменены значениями по умолчанию
func (o Options) normalized() Options {
	if o.VisibilityThreshold == 0 {
		o.VisibilityThreshold = DefaultVisibilityThreshold
	}
	if o.HipShiftThreshold == 0 {
		o.HipShiftThreshold = DefaultHipShiftThreshold
	}
	if o.KneeAsymmetryThreshold == 0 {
		o.KneeAsymmetryThreshold = DefaultKneeAsymmetryThreshold
	}
	if o.NeutralWindowSize <= 0 {
		o.NeutralWindowSize = DefaultNeutralWindowSize
	}
	if o.SymmetryEpsilonDeg <= 0 {
		o.SymmetryEpsilonDeg = DefaultSymmetryEpsilonDeg
	}
	return o
}
