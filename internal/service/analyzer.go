package service

import (
	"bytes"
	"context"
	"time"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/internal/client"
	"insidemotion-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// AnalyzerService сервис анализа компенсаторных паттернов приседания
type AnalyzerService struct {
	extractor       client.PoseExtractor
	engine          *analysis.Engine
	analysisService *AnalysisService
	logger          *logrus.Logger
}

// NewAnalyzerService создает новый сервис анализатора
func NewAnalyzerService(extractor client.PoseExtractor, engine *analysis.Engine, analysisService *AnalysisService, logger *logrus.Logger) *AnalyzerService {
	return &AnalyzerService{
		extractor:       extractor,
		engine:          engine,
		analysisService: analysisService,
		logger:          logger,
	}
}

// AnalyzeVideo прогоняет видео через полный конвейер: извлечение позы,
// вычисление метрик компенсации и сохранение результата.
// Ошибки возвращаются типизированными, чтобы обработчик мог подобрать HTTP статус.
func (s *AnalyzerService) AnalyzeVideo(ctx context.Context, videoData []byte, videoFilename string) (*AnalysisResponse, error) {
	s.logger.Infof("Начинаем анализ приседания для видео %s", videoFilename)

	startTime := time.Now()

	// 1. Отправляем видео в сервис позы для извлечения ключевых точек
	s.logger.Info("Отправляем видео в сервис позы для извлечения ключевых точек")
	extraction, err := s.extractor.ExtractPose(ctx, videoData, videoFilename)
	if err != nil {
		s.logger.Errorf("Ошибка при обращении к сервису позы: %v", err)
		return nil, err
	}

	s.logger.Infof("Получили ключевые точки: %d кадров, fps=%.2f", len(extraction.KeypointsData), extraction.FPS)

	// 2. Вычисляем метрики компенсации по последовательности кадров
	report, timeline, err := s.engine.AnalyzeSequence(ctx, extraction.KeypointsData)
	if err != nil {
		s.logger.Errorf("Ошибка анализа последовательности кадров: %v", err)
		return nil, err
	}

	// 3. Сохраняем результат вместе с исходным видео и графиком
	analysisID := s.analysisService.GenerateAnalysisID()
	response, err := s.analysisService.SaveAnalysis(analysisID, videoFilename, bytes.NewReader(videoData), extraction, report, timeline)
	if err != nil {
		s.logger.Errorf("Ошибка сохранения анализа %s: %v", analysisID, err)
		return nil, err
	}

	// Динамику метрик возвращаем только в ответе на анализ, в БД она не хранится
	response.Timeline = timeline

	processingTime := time.Since(startTime)
	s.logger.Infof("Анализ завершен за %v: severity=%s, сторона=%s", processingTime, report.Severity, report.CompensatingSide)

	return response, nil
}

// CheckHealth проверяет состояние сервиса и его зависимостей
func (s *AnalyzerService) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	s.logger.Debug("Проверяем состояние сервиса анализатора")

	// Проверяем состояние сервиса позы
	poseHealth, err := s.extractor.CheckHealth(ctx)
	if err != nil {
		s.logger.Errorf("Сервис позы недоступен: %v", err)
		return &models.HealthResponse{
			Status:      "unhealthy",
			ModelLoaded: false,
			Version:     "1.0.0",
		}, nil
	}

	// Если сервис позы здоров, возвращаем его статус
	return poseHealth, nil
}
