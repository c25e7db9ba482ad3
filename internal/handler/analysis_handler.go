package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/internal/client"
	"insidemotion-go/internal/database"
	"insidemotion-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler обрабатывает HTTP запросы анализа приседаний
type AnalysisHandler struct {
	analyzerService *service.AnalyzerService
	analysisService *service.AnalysisService
	logger          *logrus.Logger
}

// NewAnalysisHandler создает новый экземпляр AnalysisHandler
func NewAnalysisHandler(analyzerService *service.AnalyzerService, analysisService *service.AnalysisService, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzerService: analyzerService,
		analysisService: analysisService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *AnalysisHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/analyze", h.AnalyzeVideo)
		api.GET("/analyses", h.ListAnalyses)
		api.GET("/analyses/:id", h.GetAnalysis)
		api.DELETE("/analyses/:id", h.DeleteAnalysis)
		api.GET("/analyses/:id/video", h.GetAnalysisVideo)
		api.GET("/analyses/:id/chart", h.GetAnalysisChart)
		api.GET("/health", h.CheckHealth)
	}
}

// AnalyzeVideo обрабатывает запрос на анализ видео приседания
func (h *AnalysisHandler) AnalyzeVideo(c *gin.Context) {
	h.logger.Info("Получен запрос на анализ видео приседания")

	// Парсим multipart form
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		h.logger.Errorf("Ошибка парсинга multipart form: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка парсинга формы"})
		return
	}

	// Получаем видео файл
	file, header, err := c.Request.FormFile("video")
	if err != nil {
		h.logger.Errorf("Ошибка получения видео файла: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Видео файл обязателен"})
		return
	}
	defer file.Close()

	// Читаем весь видео файл в буфер для повторного использования
	videoData, err := io.ReadAll(file)
	if err != nil {
		h.logger.Errorf("Ошибка чтения видео файла: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка чтения видео файла"})
		return
	}
	h.logger.Infof("Прочитано %d байт видео данных из файла %s", len(videoData), header.Filename)

	// Вызываем сервис анализа
	result, err := h.analyzerService.AnalyzeVideo(c.Request.Context(), videoData, header.Filename)
	if err != nil {
		h.logger.Errorf("Ошибка анализа: %v", err)
		status, message := analyzeErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	h.logger.Info("Анализ видео завершен успешно")
	c.JSON(http.StatusOK, service.AnalyzeResponse{
		Status:   "success",
		Message:  "Анализ приседания успешно завершен",
		Analysis: result,
	})
}

// analyzeErrorResponse подбирает HTTP статус и сообщение по типу ошибки анализа
func analyzeErrorResponse(err error) (int, string) {
	var apiErr *client.APIError
	var emptyErr *analysis.EmptyStreamError
	var orderErr *analysis.OrderingError
	var geomErr *analysis.DegenerateGeometryError

	switch {
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "Сервис извлечения позы недоступен"
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, "В видео не найдено пригодных кадров с позой"
	case errors.As(err, &orderErr):
		return http.StatusUnprocessableEntity, "Кадры видео следуют в неверном порядке"
	case errors.As(err, &geomErr):
		return http.StatusUnprocessableEntity, "Не удалось вычислить геометрию позы по ключевым точкам"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "Анализ видео прерван"
	default:
		return http.StatusInternalServerError, "Ошибка анализа видео"
	}
}

// ListAnalyses возвращает список анализов с пагинацией
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	h.logger.Info("Получен запрос на получение списка анализов")

	// Получаем параметры пагинации
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	analyses, total, err := h.analysisService.ListAnalyses(page, size)
	if err != nil {
		h.logger.Errorf("Ошибка получения списка анализов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка анализов"})
		return
	}

	response := service.ListAnalysesResponse{
		Analyses: analyses,
		Total:    total,
		Page:     page,
		Size:     size,
	}

	h.logger.Infof("Возвращено %d анализов из %d", len(analyses), total)
	c.JSON(http.StatusOK, response)
}

// GetAnalysis возвращает анализ по ID
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	h.logger.Infof("Получен запрос на получение анализа с ID: %s", analysisID)

	result, err := h.analysisService.GetAnalysisByID(analysisID)
	if err != nil {
		h.logger.Errorf("Ошибка получения анализа: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Анализ не найден"})
		return
	}

	h.logger.Info("Анализ найден и возвращен")
	c.JSON(http.StatusOK, result)
}

// DeleteAnalysis удаляет анализ по ID
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	h.logger.Infof("Получен запрос на удаление анализа с ID: %s", analysisID)

	if err := h.analysisService.DeleteAnalysis(analysisID); err != nil {
		h.logger.Errorf("Ошибка удаления анализа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления анализа"})
		return
	}

	h.logger.Info("Анализ успешно удален")
	c.JSON(http.StatusOK, gin.H{"message": "Анализ успешно удален"})
}

// GetAnalysisVideo возвращает исходное видео анализа
func (h *AnalysisHandler) GetAnalysisVideo(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysis ID is required"})
		return
	}

	videoPath, err := h.analysisService.GetVideoPath(analysisID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found for this analysis"})
		return
	}

	// Отправляем видео файл
	c.File(videoPath)
}

// GetAnalysisChart возвращает HTML график динамики метрик анализа
func (h *AnalysisHandler) GetAnalysisChart(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysis ID is required"})
		return
	}

	chartPath, err := h.analysisService.GetChartPath(analysisID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart not found for this analysis"})
		return
	}

	c.File(chartPath)
}

// CheckHealth проверяет состояние сервиса и его зависимостей
func (h *AnalysisHandler) CheckHealth(c *gin.Context) {
	h.logger.Info("Получен запрос проверки здоровья сервиса")

	poseHealth, err := h.analyzerService.CheckHealth(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Сервис анализа недоступен: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Сервис анализа недоступен",
		})
		return
	}

	dbStatus := "healthy"
	if err := database.HealthCheck(); err != nil {
		h.logger.Warnf("База данных недоступна: %v", err)
		dbStatus = "unhealthy"
	}

	status := http.StatusOK
	overall := "healthy"
	if poseHealth.Status != "healthy" || dbStatus != "healthy" {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"database":     dbStatus,
		"pose_service": poseHealth,
	})
}
