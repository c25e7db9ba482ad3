package service

import (
	"time"

	"insidemotion-go/internal/analysis"
)

// AnalysisResponse ответ с информацией о проведенном анализе
type AnalysisResponse struct {
	ID            string                    `json:"id"`                 // Идентификатор анализа
	VideoFilename string                    `json:"video_filename"`     // Имя исходного видеофайла
	FPS           float64                   `json:"fps"`                // Частота кадров видео
	Duration      float64                   `json:"duration"`           // Длительность видео в секундах
	TotalFrames   int                       `json:"total_frames"`       // Всего кадров в видео
	UsableFrames  int                       `json:"usable_frames"`      // Кадров учтено в анализе
	SkippedFrames int                       `json:"skipped_frames"`     // Кадров пропущено
	Report        analysis.AnalysisReport   `json:"report"`             // Клинический отчет
	Timeline      []analysis.SampledMetrics `json:"timeline,omitempty"` // Пометрическая динамика по кадрам
	ChartURL      string                    `json:"chart_url,omitempty"`
	VideoURL      string                    `json:"video_url,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// AnalyzeResponse ответ эндпоинта анализа видео
type AnalyzeResponse struct {
	Status   string            `json:"status"`
	Message  string            `json:"message,omitempty"`
	Analysis *AnalysisResponse `json:"analysis,omitempty"`
}

// ListAnalysesResponse ответ со списком анализов
type ListAnalysesResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}
