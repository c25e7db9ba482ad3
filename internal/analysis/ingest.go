package analysis

import "insidemotion-go/pkg/models"

// usableFrame проверяет пригодность кадра: все обязательные суставы
// присутствуют и видимы не хуже порога. Возвращает первый сустав,
// из-за которого кадр отброшен.
func usableFrame(frame models.Frame, visibilityThreshold float64) (bool, string) {
	for _, name := range RequiredJoints {
		lm, ok := frame.Landmark(name)
		if !ok || lm.Visibility < visibilityThreshold {
			return false, name
		}
	}
	return true, ""
}
