package client

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"insidemotion-go/pkg/models"
)

// ExtractorPool ограничивает число одновременных обращений к модели позы.
// Модель за Python сервисом одна и дорогая, лишние параллельные запросы
// только растягивают очередь инференса.
type ExtractorPool struct {
	client PoseExtractor
	sem    *semaphore.Weighted
	logger *logrus.Logger
}

// NewExtractorPool создает пул с заданной емкостью одновременных извлечений
func NewExtractorPool(client PoseExtractor, maxConcurrent int64, logger *logrus.Logger) *ExtractorPool {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ExtractorPool{
		client: client,
		sem:    semaphore.NewWeighted(maxConcurrent),
		logger: logger,
	}
}

// ExtractPose выполняет извлечение позы, дождавшись свободного слота модели
func (p *ExtractorPool) ExtractPose(ctx context.Context, videoData []byte, filename string) (*models.PoseExtraction, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("ожидание слота модели прервано: %w", err)
	}
	defer p.sem.Release(1)

	p.logger.Debugf("Слот модели занят для %s", filename)
	return p.client.ExtractPose(ctx, videoData, filename)
}

// CheckHealth проксирует проверку здоровья без занятия слота
func (p *ExtractorPool) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	return p.client.CheckHealth(ctx)
}
