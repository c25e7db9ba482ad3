package analysis

import (
	"math"

	"insidemotion-go/pkg/models"
)

// RequiredJoints перечисляет суставы, без которых метрики кадра не считаются
var RequiredJoints = []string{
	models.JointLeftShoulder,
	models.JointRightShoulder,
	models.JointLeftHip,
	models.JointRightHip,
	models.JointLeftKnee,
	models.JointRightKnee,
	models.JointLeftAnkle,
	models.JointRightAnkle,
}

// asymmetryEpsilon защищает формулу асимметрии от деления на ноль
const asymmetryEpsilon = 1e-9

// MetricComputer вычисляет кинематические метрики по одному кадру
type MetricComputer struct{}

// NewMetricComputer создает новый вычислитель метрик
func NewMetricComputer() *MetricComputer {
	return &MetricComputer{}
}

// Compute вычисляет метрики кадра. История не используется: функция чистая,
// один и тот же кадр всегда дает одни и те же метрики.
func (mc *MetricComputer) Compute(frame models.Frame) (FrameMetrics, error) {
	leftHip, err := requireJoint(frame, models.JointLeftHip)
	if err != nil {
		return FrameMetrics{}, err
	}
	rightHip, err := requireJoint(frame, models.JointRightHip)
	if err != nil {
		return FrameMetrics{}, err
	}
	leftKnee, err := requireJoint(frame, models.JointLeftKnee)
	if err != nil {
		return FrameMetrics{}, err
	}
	rightKnee, err := requireJoint(frame, models.JointRightKnee)
	if err != nil {
		return FrameMetrics{}, err
	}
	leftAnkle, err := requireJoint(frame, models.JointLeftAnkle)
	if err != nil {
		return FrameMetrics{}, err
	}
	rightAnkle, err := requireJoint(frame, models.JointRightAnkle)
	if err != nil {
		return FrameMetrics{}, err
	}

	angleLeft, err := kneeAngle(leftHip, leftKnee, leftAnkle)
	if err != nil {
		return FrameMetrics{}, err
	}
	angleRight, err := kneeAngle(rightHip, rightKnee, rightAnkle)
	if err != nil {
		return FrameMetrics{}, err
	}

	return FrameMetrics{
		HipShift:       math.Abs(leftHip.X - rightHip.X),
		KneeAngleLeft:  angleLeft,
		KneeAngleRight: angleRight,
		KneeAsymmetry:  kneeAsymmetry(angleLeft, angleRight),
	}, nil
}

// requireJoint возвращает сустав кадра или MissingJointError
func requireJoint(frame models.Frame, name string) (models.Landmark, error) {
	lm, ok := frame.Landmark(name)
	if !ok {
		return models.Landmark{}, &MissingJointError{Joint: name}
	}
	return lm, nil
}

// kneeAngle вычисляет угол в коленном суставе между векторами колено-бедро
// и колено-лодыжка в трех измерениях. 180 градусов - полностью прямая нога.
func kneeAngle(hip, knee, ankle models.Landmark) (float64, error) {
	v1x, v1y, v1z := hip.X-knee.X, hip.Y-knee.Y, hip.Z-knee.Z
	v2x, v2y, v2z := ankle.X-knee.X, ankle.Y-knee.Y, ankle.Z-knee.Z

	len1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	len2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)
	if len1 == 0 || len2 == 0 {
		return 0, &DegenerateGeometryError{Joint: knee.Name}
	}

	cos := (v1x*v2x + v1y*v2y + v1z*v2z) / (len1 * len2)
	// Зажимаем косинус в [-1, 1] от ошибок округления
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// kneeAsymmetry нормализует модуль разницы углов коленей на больший из углов
func kneeAsymmetry(left, right float64) float64 {
	return math.Abs(left-right) / math.Max(math.Max(left, right), asymmetryEpsilon)
}
