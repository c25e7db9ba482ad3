package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"insidemotion-go/pkg/models"
)

// APIError означает отказ на стороне Python сервиса позы:
// транспортная ошибка или неуспешный ответ
type APIError struct {
	StatusCode int    // HTTP статус ответа, 0 для транспортных ошибок
	Message    string // Описание отказа
	Err        error  // Исходная ошибка транспорта, если была
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("сервис позы: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("сервис позы: статус %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// PoseExtractor описывает способность извлекать ключевые точки позы из видео
type PoseExtractor interface {
	ExtractPose(ctx context.Context, videoData []byte, filename string) (*models.PoseExtraction, error)
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// PoseAPIClient клиент для взаимодействия с Python сервисом извлечения позы
type PoseAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPoseAPIClient создает новый клиент для сервиса позы
func NewPoseAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *PoseAPIClient {
	return &PoseAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ExtractPose отправляет видео в Python сервис и получает ключевые точки по кадрам
func (c *PoseAPIClient) ExtractPose(ctx context.Context, videoData []byte, filename string) (*models.PoseExtraction, error) {
	c.logger.Info("Отправка видео на извлечение позы в Python сервис")

	// Создаем multipart form-data
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// Добавляем видео файл
	videoWriter, err := writer.CreateFormFile("video", filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания form field для видео: %w", err)
	}

	if _, err := videoWriter.Write(videoData); err != nil {
		return nil, fmt.Errorf("ошибка записи видео данных: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия multipart writer: %w", err)
	}

	// Создаем HTTP запрос
	url := fmt.Sprintf("%s/extract", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	// Отправляем запрос
	c.logger.Debugf("Отправка POST запроса на %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: "ошибка отправки HTTP запроса", Err: err}
	}
	defer resp.Body.Close()

	// Читаем ответ
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "ошибка чтения ответа", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	// Парсим JSON ответ
	var extraction models.PoseExtraction
	if err := json.Unmarshal(respBody, &extraction); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}

	if extraction.Status != "success" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extraction.Message}
	}

	c.logger.Infof("Получены ключевые точки: %d кадров", len(extraction.KeypointsData))
	return &extraction, nil
}

// CheckHealth проверяет состояние Python сервиса позы
func (c *PoseAPIClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья сервиса позы")

	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("сервис позы вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(respBody))
	}

	var healthResponse models.HealthResponse
	if err := json.Unmarshal(respBody, &healthResponse); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}

	return &healthResponse, nil
}
