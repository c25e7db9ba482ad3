package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/internal/client"
	"insidemotion-go/internal/config"
	"insidemotion-go/internal/database"
	"insidemotion-go/internal/handler"
	"insidemotion-go/internal/repository"
	"insidemotion-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Получаем конфигурацию из переменных окружения
	cfg := config.LoadConfig()

	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Запуск InsideMotion API Server")

	// Инициализируем базу данных
	logger.Info("Подключение к базе данных...")
	if err := database.Connect(); err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer database.Close()

	// Выполняем миграции
	logger.Info("Выполнение миграций базы данных...")
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Проверяем здоровье базы данных
	if err := database.HealthCheck(); err != nil {
		logger.Fatalf("База данных недоступна: %v", err)
	}

	logger.Info("База данных успешно подключена и готова к работе")

	// Создаем папку для статических файлов
	if err := os.MkdirAll(cfg.StaticDir, 0755); err != nil {
		logger.Fatalf("Ошибка создания папки для статических файлов: %v", err)
	}

	// Инициализируем репозитории
	analysisRepo := repository.NewAnalysisRepository(database.DB)

	// Клиент сервиса позы с ограничением числа одновременных запросов к модели
	poseClient := client.NewPoseAPIClient(cfg.PoseAPI.BaseURL, time.Duration(cfg.PoseAPI.Timeout)*time.Second, logger)
	extractor := client.NewExtractorPool(poseClient, int64(cfg.PoseAPI.MaxConcurrent), logger)

	// Инициализируем сервисы
	engine := analysis.NewEngine(cfg.Analysis, logger)
	analysisService := service.NewAnalysisService(analysisRepo, logger, cfg.StaticDir)
	analyzerService := service.NewAnalyzerService(extractor, engine, analysisService, logger)

	// Инициализируем обработчики
	analysisHandler := handler.NewAnalysisHandler(analyzerService, analysisService, logger)

	// Настраиваем Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Обслуживание статических файлов
	router.Static("/static", cfg.StaticDir)

	// Регистрируем маршруты
	analysisHandler.RegisterRoutes(router)

	// Добавляем базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "InsideMotion API Server",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// Запускаем сервер
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Сервер запущен на %s", serverAddr)
	logger.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)

	if err := router.Run(serverAddr); err != nil {
		logger.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
