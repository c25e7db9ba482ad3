package config

import (
	"os"
	"strconv"

	"insidemotion-go/internal/analysis"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port int
		Host string
	}
	PoseAPI struct {
		BaseURL       string
		Timeout       int // в секундах
		MaxConcurrent int // одновременные запросы к модели позы
	}
	Logging struct {
		Level string
	}
	Analysis    analysis.Options
	Environment string
	StaticDir   string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {
	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Конфигурация Python сервиса позы
	cfg.PoseAPI.BaseURL = getEnv("POSE_API_BASE_URL", "http://localhost:8000")
	cfg.PoseAPI.Timeout = getEnvInt("POSE_API_TIMEOUT_SECONDS", 300) // 5 минут по умолчанию
	cfg.PoseAPI.MaxConcurrent = getEnvInt("POSE_API_MAX_CONCURRENT", 1)

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	// Параметры движка анализа
	cfg.Analysis = analysis.Options{
		VisibilityThreshold:    getEnvFloat("ANALYSIS_VISIBILITY_THRESHOLD", analysis.DefaultVisibilityThreshold),
		HipShiftThreshold:      getEnvFloat("ANALYSIS_HIP_SHIFT_THRESHOLD", analysis.DefaultHipShiftThreshold),
		KneeAsymmetryThreshold: getEnvFloat("ANALYSIS_KNEE_ASYMMETRY_THRESHOLD", analysis.DefaultKneeAsymmetryThreshold),
		NeutralWindowSize:      getEnvInt("ANALYSIS_NEUTRAL_WINDOW_SIZE", analysis.DefaultNeutralWindowSize),
		SymmetryEpsilonDeg:     getEnvFloat("ANALYSIS_SYMMETRY_EPSILON_DEG", analysis.DefaultSymmetryEpsilonDeg),
	}

	cfg.Environment = getEnv("ENVIRONMENT", "development")
	cfg.StaticDir = getEnv("STATIC_DIR", "./static")

	return cfg
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
