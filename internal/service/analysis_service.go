package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/internal/chart"
	"insidemotion-go/internal/model"
	"insidemotion-go/internal/repository"
	"insidemotion-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AnalysisService сервис для работы с сохраненными анализами
type AnalysisService struct {
	analysisRepo repository.AnalysisRepository
	logger       *logrus.Logger
	staticDir    string
}

// NewAnalysisService создает новый сервис для работы с анализами
func NewAnalysisService(analysisRepo repository.AnalysisRepository, logger *logrus.Logger, staticDir string) *AnalysisService {
	return &AnalysisService{
		analysisRepo: analysisRepo,
		logger:       logger,
		staticDir:    staticDir,
	}
}

// SaveAnalysis сохраняет результат анализа в базе данных вместе с видео и графиком
func (s *AnalysisService) SaveAnalysis(analysisID, videoFilename string, videoData io.Reader, extraction *models.PoseExtraction, report *analysis.AnalysisReport, timeline []analysis.SampledMetrics) (*AnalysisResponse, error) {
	s.logger.Infof("Сохраняем анализ %s в базе данных", analysisID)

	// Сохраняем исходное видео в статической папке
	videoPath := ""
	if videoData != nil && videoFilename != "" {
		var err error
		videoPath, err = s.saveVideoFile(analysisID, videoFilename, videoData)
		if err != nil {
			s.logger.Errorf("Ошибка сохранения видео файла: %v", err)
			return nil, fmt.Errorf("failed to save video file: %w", err)
		}
	}

	// График не критичен для результата, поэтому его ошибка не прерывает сохранение
	chartPath, err := s.renderChartFile(analysisID, videoFilename, report, timeline)
	if err != nil {
		s.logger.Warnf("Не удалось построить график для анализа %s: %v", analysisID, err)
		chartPath = ""
	}

	// Преобразуем отчет анализа в модель базы данных
	record := &model.Analysis{
		ID:               analysisID,
		VideoFilename:    videoFilename,
		VideoPath:        videoPath,
		ChartPath:        chartPath,
		FPS:              extraction.FPS,
		DurationSeconds:  extraction.Duration,
		TotalFrames:      extraction.TotalFrames,
		UsableFrames:     len(timeline),
		SkippedFrames:    len(extraction.KeypointsData) - len(timeline),
		AvgHipShift:      report.Summary.AvgHipShift,
		MaxHipShift:      report.Summary.MaxHipShift,
		AvgKneeAsymmetry: report.Summary.AvgKneeAsymmetry,
		MaxKneeAsymmetry: report.Summary.MaxKneeAsymmetry,
		CompensatingSide: string(report.CompensatingSide),
		Severity:         report.Severity.String(),
		Message:          report.Message,
		Recommendation:   report.Recommendation,
		CreatedAt:        time.Now(),
	}

	// Преобразуем ключевые моменты
	for _, m := range report.KeyMoments {
		record.KeyMoments = append(record.KeyMoments, model.AnalysisKeyMoment{
			AnalysisID:       analysisID,
			Label:            m.Label,
			FrameIndex:       m.FrameIndex,
			TimestampSeconds: m.Timestamp,
			HipShift:         m.Metrics.HipShift,
			KneeAngleLeft:    m.Metrics.KneeAngleLeft,
			KneeAngleRight:   m.Metrics.KneeAngleRight,
			KneeAsymmetry:    m.Metrics.KneeAsymmetry,
		})
	}

	// Сохраняем в базе данных
	s.logger.Infof("Сохраняем анализ в БД. Количество ключевых моментов: %d", len(record.KeyMoments))
	if err := s.analysisRepo.Create(record); err != nil {
		s.logger.Errorf("Ошибка сохранения анализа в БД: %v", err)
		// Удаляем файлы если что-то пошло не так
		if videoPath != "" {
			s.logger.Infof("Удаляем видео файл %s из-за ошибки сохранения в БД", videoPath)
			os.Remove(videoPath)
		}
		if chartPath != "" {
			os.Remove(chartPath)
		}
		return nil, fmt.Errorf("failed to save analysis to database: %w", err)
	}

	s.logger.Infof("Анализ %s успешно сохранен в БД", analysisID)
	return s.modelToResponse(record), nil
}

// GetAnalysisByID получает анализ по ID
func (s *AnalysisService) GetAnalysisByID(analysisID string) (*AnalysisResponse, error) {
	s.logger.Infof("Получаем анализ %s из базы данных", analysisID)

	record, err := s.analysisRepo.GetByID(analysisID)
	if err != nil {
		s.logger.Errorf("Ошибка получения анализа: %v", err)
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return s.modelToResponse(record), nil
}

// ListAnalyses получает список всех анализов с пагинацией
func (s *AnalysisService) ListAnalyses(page, pageSize int) ([]AnalysisResponse, int64, error) {
	s.logger.Infof("Получаем список анализов: страница %d, размер %d", page, pageSize)

	records, total, err := s.analysisRepo.List(page, pageSize)
	if err != nil {
		s.logger.Errorf("Ошибка получения списка анализов: %v", err)
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}

	responses := make([]AnalysisResponse, len(records))
	for i, record := range records {
		responses[i] = *s.modelToResponse(record)
	}

	s.logger.Infof("Получено %d анализов из %d общих", len(responses), total)
	return responses, total, nil
}

// DeleteAnalysis удаляет анализ по ID вместе с его файлами
func (s *AnalysisService) DeleteAnalysis(analysisID string) error {
	s.logger.Infof("Удаляем анализ %s", analysisID)

	// Сначала получаем запись для удаления файлов
	record, err := s.analysisRepo.GetByID(analysisID)
	if err != nil {
		s.logger.Errorf("Ошибка получения анализа для удаления: %v", err)
		return fmt.Errorf("failed to get analysis for deletion: %w", err)
	}

	// Удаляем из базы данных
	if err := s.analysisRepo.Delete(analysisID); err != nil {
		s.logger.Errorf("Ошибка удаления анализа из БД: %v", err)
		return fmt.Errorf("failed to delete analysis from database: %w", err)
	}

	// Удаляем видео файл если он существует
	if record.VideoPath != "" {
		if err := os.Remove(record.VideoPath); err != nil {
			s.logger.Warnf("Не удалось удалить видео файл %s: %v", record.VideoPath, err)
		} else {
			s.logger.Infof("Видео файл %s успешно удален", record.VideoPath)
		}
	}

	// Удаляем HTML график если он существует
	if record.ChartPath != "" {
		if err := os.Remove(record.ChartPath); err != nil {
			s.logger.Warnf("Не удалось удалить график %s: %v", record.ChartPath, err)
		}
	}

	s.logger.Infof("Анализ %s успешно удален", analysisID)
	return nil
}

// GetVideoPath возвращает путь к сохраненному видео файлу анализа
func (s *AnalysisService) GetVideoPath(analysisID string) (string, error) {
	record, err := s.analysisRepo.GetByID(analysisID)
	if err != nil {
		return "", fmt.Errorf("failed to get analysis: %w", err)
	}
	if record.VideoPath == "" {
		return "", fmt.Errorf("analysis %s has no stored video", analysisID)
	}
	return record.VideoPath, nil
}

// GetChartPath возвращает путь к HTML графику анализа
func (s *AnalysisService) GetChartPath(analysisID string) (string, error) {
	record, err := s.analysisRepo.GetByID(analysisID)
	if err != nil {
		return "", fmt.Errorf("failed to get analysis: %w", err)
	}
	if record.ChartPath == "" {
		return "", fmt.Errorf("analysis %s has no chart", analysisID)
	}
	return record.ChartPath, nil
}

// saveVideoFile сохраняет видео файл в статической папке
func (s *AnalysisService) saveVideoFile(analysisID, originalFilename string, videoData io.Reader) (string, error) {
	s.logger.Infof("Начинаем сохранение видео файла. AnalysisID: %s, оригинальное имя: %s", analysisID, originalFilename)

	// Создаем папку для анализа
	analysisDir := filepath.Join(s.staticDir, "videos", analysisID)
	if err := os.MkdirAll(analysisDir, 0755); err != nil {
		s.logger.Errorf("Ошибка создания директории %s: %v", analysisDir, err)
		return "", fmt.Errorf("failed to create analysis directory: %w", err)
	}

	// Определяем расширение файла
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = ".mp4" // По умолчанию
		s.logger.Warnf("Расширение файла не найдено, используем .mp4")
	}

	filename := fmt.Sprintf("%s%s", analysisID, ext)
	filePath := filepath.Join(analysisDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		s.logger.Errorf("Ошибка создания файла %s: %v", filePath, err)
		return "", fmt.Errorf("failed to create video file: %w", err)
	}
	defer file.Close()

	bytesWritten, err := io.Copy(file, videoData)
	if err != nil {
		s.logger.Errorf("Ошибка записи данных в файл %s: %v", filePath, err)
		os.Remove(filePath) // Удаляем файл в случае ошибки
		return "", fmt.Errorf("failed to write video data: %w", err)
	}

	s.logger.Infof("Видео файл сохранен: %s (записано %d байт)", filePath, bytesWritten)
	return filePath, nil
}

// renderChartFile строит HTML график динамики метрик и сохраняет его в статической папке
func (s *AnalysisService) renderChartFile(analysisID, videoFilename string, report *analysis.AnalysisReport, timeline []analysis.SampledMetrics) (string, error) {
	if len(timeline) == 0 {
		return "", nil
	}

	chartDir := filepath.Join(s.staticDir, "charts")
	if err := os.MkdirAll(chartDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	chartPath := filepath.Join(chartDir, fmt.Sprintf("%s.html", analysisID))
	file, err := os.Create(chartPath)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := chart.RenderTimeline(file, videoFilename, timeline, report.KeyMoments); err != nil {
		os.Remove(chartPath)
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	s.logger.Infof("График анализа сохранен: %s", chartPath)
	return chartPath, nil
}

// modelToResponse преобразует модель базы данных в ответ API
func (s *AnalysisService) modelToResponse(record *model.Analysis) *AnalysisResponse {
	severity, err := analysis.ParseSeverity(record.Severity)
	if err != nil {
		s.logger.Warnf("Неизвестный уровень severity %q в записи %s", record.Severity, record.ID)
	}

	report := analysis.AnalysisReport{
		Summary: analysis.AggregateMetrics{
			AvgHipShift:      record.AvgHipShift,
			MaxHipShift:      record.MaxHipShift,
			AvgKneeAsymmetry: record.AvgKneeAsymmetry,
			MaxKneeAsymmetry: record.MaxKneeAsymmetry,
		},
		CompensatingSide: analysis.Side(record.CompensatingSide),
		Severity:         severity,
		Message:          record.Message,
		Recommendation:   record.Recommendation,
	}

	for _, m := range record.KeyMoments {
		report.KeyMoments = append(report.KeyMoments, analysis.KeyMoment{
			Label:      m.Label,
			FrameIndex: m.FrameIndex,
			Timestamp:  m.TimestampSeconds,
			Metrics: analysis.FrameMetrics{
				HipShift:       m.HipShift,
				KneeAngleLeft:  m.KneeAngleLeft,
				KneeAngleRight: m.KneeAngleRight,
				KneeAsymmetry:  m.KneeAsymmetry,
			},
		})
	}

	response := &AnalysisResponse{
		ID:            record.ID,
		VideoFilename: record.VideoFilename,
		FPS:           record.FPS,
		Duration:      record.DurationSeconds,
		TotalFrames:   record.TotalFrames,
		UsableFrames:  record.UsableFrames,
		SkippedFrames: record.SkippedFrames,
		Report:        report,
		CreatedAt:     record.CreatedAt,
	}
	if record.VideoPath != "" {
		response.VideoURL = fmt.Sprintf("/api/v1/analyses/%s/video", record.ID)
	}
	if record.ChartPath != "" {
		response.ChartURL = fmt.Sprintf("/api/v1/analyses/%s/chart", record.ID)
	}

	return response
}

// GenerateAnalysisID генерирует уникальный ID для анализа
func (s *AnalysisService) GenerateAnalysisID() string {
	return uuid.New().String()
}
