package analysis

import (
	"errors"
	"fmt"
)

// ErrAggregatorFinalized возвращается при попытке изменить агрегатор после финализации
var ErrAggregatorFinalized = errors.New("aggregator already finalized")

// EmptyStreamError означает, что после фильтрации не осталось ни одного пригодного кадра
type EmptyStreamError struct {
	TotalFrames   int // Сколько кадров пришло на вход
	SkippedFrames int // Сколько кадров отброшено фильтрацией
}

func (e *EmptyStreamError) Error() string {
	if e.TotalFrames == 0 {
		return "no frames in keypoint stream"
	}
	return fmt.Sprintf("no usable frames in keypoint stream: %d of %d skipped", e.SkippedFrames, e.TotalFrames)
}

// OrderingError означает нарушение монотонности временных меток кадров
type OrderingError struct {
	FrameIndex int     // Номер кадра, нарушившего порядок
	PrevTime   float64 // Временная метка предыдущего кадра
	Time       float64 // Временная метка кадра-нарушителя
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("frame %d out of order: timestamp %.4f after %.4f", e.FrameIndex, e.Time, e.PrevTime)
}

// MissingJointError означает отсутствие сустава, необходимого для метрик кадра
type MissingJointError struct {
	Joint string // Название отсутствующего сустава
}

func (e *MissingJointError) Error() string {
	return fmt.Sprintf("required joint %s missing from frame", e.Joint)
}

// DegenerateGeometryError означает вырожденную геометрию ключевых точек:
// совпадающие точки дают вектор нулевой длины, угол не определен
type DegenerateGeometryError struct {
	Joint string // Сустав, в котором схлопнулись векторы
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry at joint %s: zero-length limb vector", e.Joint)
}
