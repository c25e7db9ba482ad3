package models

// Названия ключевых точек позы, которые возвращает Python сервис
const (
	JointNose          = "nose"
	JointLeftShoulder  = "left_shoulder"
	JointRightShoulder = "right_shoulder"
	JointLeftHip       = "left_hip"
	JointRightHip      = "right_hip"
	JointLeftKnee      = "left_knee"
	JointRightKnee     = "right_knee"
	JointLeftAnkle     = "left_ankle"
	JointRightAnkle    = "right_ankle"
)

// Landmark представляет одну ключевую точку позы в кадре
type Landmark struct {
	Name       string  `json:"name"`       // Название точки (left_hip, right_knee, ...)
	X          float64 `json:"x"`          // Нормализованная координата X (0-1)
	Y          float64 `json:"y"`          // Нормализованная координата Y (0-1)
	Z          float64 `json:"z"`          // Глубина относительно центра бедер
	Visibility float64 `json:"visibility"` // Уверенность модели в точке (0-1)
}

// Frame представляет ключевые точки одного кадра видео
type Frame struct {
	Index     int        `json:"frame"`     // Номер кадра в исходном видео
	Time      float64    `json:"time"`      // Время кадра в секундах от начала видео
	Keypoints []Landmark `json:"keypoints"` // Ключевые точки позы в кадре
}

// Landmark возвращает ключевую точку кадра по названию
func (f Frame) Landmark(name string) (Landmark, bool) {
	for _, kp := range f.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Landmark{}, false
}

// PoseExtraction определяет структуру ответа Python сервиса извлечения позы
type PoseExtraction struct {
	Status        string  `json:"status"`            // Статус выполнения (success/error)
	Message       string  `json:"message,omitempty"` // Сообщение об ошибке
	FPS           float64 `json:"fps"`               // Частота кадров исходного видео
	TotalFrames   int     `json:"total_frames"`      // Общее количество кадров видео
	Duration      float64 `json:"duration"`          // Длительность видео в секундах
	KeypointsData []Frame `json:"keypoints_data"`    // Ключевые точки по обработанным кадрам
}

// HealthResponse представляет ответ проверки здоровья сервиса позы
type HealthResponse struct {
	Status      string `json:"status"`       // Статус сервиса (healthy/unhealthy)
	ModelLoaded bool   `json:"model_loaded"` // Загружена ли модель позы
	Version     string `json:"version"`      // Версия сервиса
}
