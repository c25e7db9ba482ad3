package analysis

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"insidemotion-go/pkg/models"
)

// testLogger возвращает логгер, не засоряющий вывод тестов
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// landmark собирает ключевую точку с полной видимостью
func landmark(name string, x, y, z float64) models.Landmark {
	return models.Landmark{Name: name, X: x, Y: y, Z: z, Visibility: 1.0}
}

// poseFrame строит кадр приседания с заданными углами коленей в градусах
// и позициями бедер по X. Каждая нога стоит вертикальной колонной: бедро
// над коленом, лодыжка отведена так, чтобы угол в колене был ровно angleDeg.
func poseFrame(index int, timestamp, leftAngleDeg, rightAngleDeg, leftHipX, rightHipX float64) models.Frame {
	return models.Frame{
		Index: index,
		Time:  timestamp,
		Keypoints: []models.Landmark{
			landmark(models.JointNose, (leftHipX+rightHipX)/2, 0.10, 0),
			landmark(models.JointLeftShoulder, leftHipX, 0.25, 0),
			landmark(models.JointRightShoulder, rightHipX, 0.25, 0),
			landmark(models.JointLeftHip, leftHipX, 0.50, 0),
			landmark(models.JointRightHip, rightHipX, 0.50, 0),
			landmark(models.JointLeftKnee, leftHipX, 0.75, 0),
			landmark(models.JointRightKnee, rightHipX, 0.75, 0),
			ankleAt(models.JointLeftAnkle, leftHipX, 0.75, leftAngleDeg),
			ankleAt(models.JointRightAnkle, rightHipX, 0.75, rightAngleDeg),
		},
	}
}

// ankleAt размещает лодыжку так, чтобы угол бедро-колено-лодыжка был ровно angleDeg
func ankleAt(name string, kneeX, kneeY, angleDeg float64) models.Landmark {
	rad := angleDeg * math.Pi / 180
	// Вектор колено-бедро направлен вертикально вверх, лодыжку поворачиваем от него на angleDeg
	return landmark(name, kneeX+0.25*math.Sin(rad), kneeY-0.25*math.Cos(rad), 0)
}
