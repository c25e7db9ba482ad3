package model

import (
	"time"

	"gorm.io/gorm"
)

// Analysis представляет сохраненный анализ приседания в базе данных
type Analysis struct {
	ID            string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	VideoFilename string `gorm:"type:varchar(255)" json:"video_filename"`
	VideoPath     string `gorm:"type:varchar(500)" json:"video_path"`
	ChartPath     string `gorm:"type:varchar(500)" json:"chart_path"`

	// Свойства исходного видео
	FPS             float64 `gorm:"not null;default:0" json:"fps"`
	DurationSeconds float64 `gorm:"not null;default:0" json:"duration_seconds"`
	TotalFrames     int     `gorm:"not null;default:0" json:"total_frames"`
	UsableFrames    int     `gorm:"not null;default:0" json:"usable_frames"`
	SkippedFrames   int     `gorm:"not null;default:0" json:"skipped_frames"`

	// Сводные метрики компенсации
	AvgHipShift      float64 `gorm:"not null;default:0" json:"avg_hip_shift"`
	MaxHipShift      float64 `gorm:"not null;default:0" json:"max_hip_shift"`
	AvgKneeAsymmetry float64 `gorm:"not null;default:0" json:"avg_knee_asymmetry"`
	MaxKneeAsymmetry float64 `gorm:"not null;default:0" json:"max_knee_asymmetry"`

	// Итог анализа
	CompensatingSide string `gorm:"type:varchar(8);not null" json:"compensating_side"`
	Severity         string `gorm:"type:varchar(16);not null" json:"severity"`
	Message          string `gorm:"type:text" json:"message"`
	Recommendation   string `gorm:"type:text" json:"recommendation"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Связь с ключевыми моментами
	KeyMoments []AnalysisKeyMoment `gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE" json:"key_moments"`
}

// AnalysisKeyMoment представляет ключевой момент анализа в базе данных
type AnalysisKeyMoment struct {
	ID               uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	AnalysisID       string  `gorm:"type:varchar(36);not null;index" json:"analysis_id"`
	Label            string  `gorm:"type:varchar(32);not null" json:"label"`
	FrameIndex       int     `gorm:"not null" json:"frame_index"`
	TimestampSeconds float64 `gorm:"not null" json:"timestamp_seconds"`

	// Метрики кадра в этот момент
	HipShift       float64 `gorm:"not null" json:"hip_shift"`
	KneeAngleLeft  float64 `gorm:"not null" json:"knee_angle_left"`
	KneeAngleRight float64 `gorm:"not null" json:"knee_angle_right"`
	KneeAsymmetry  float64 `gorm:"not null" json:"knee_asymmetry"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Обратная связь с анализом
	Analysis Analysis `gorm:"foreignKey:AnalysisID;references:ID" json:"-"`
}

// TableName указывает имя таблицы для Analysis
func (Analysis) TableName() string {
	return "analyses"
}

// TableName указывает имя таблицы для AnalysisKeyMoment
func (AnalysisKeyMoment) TableName() string {
	return "analysis_key_moments"
}
