package repository

import (
	"fmt"

	"insidemotion-go/internal/model"

	"gorm.io/gorm"
)

// AnalysisRepository интерфейс для работы с сохраненными анализами
type AnalysisRepository interface {
	Create(analysis *model.Analysis) error
	GetByID(id string) (*model.Analysis, error)
	List(page, pageSize int) ([]*model.Analysis, int64, error)
	Delete(id string) error
}

// analysisRepository реализация AnalysisRepository
type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository создает новый instance AnalysisRepository
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{
		db: db,
	}
}

// Create создает новый анализ в базе данных
func (r *analysisRepository) Create(analysis *model.Analysis) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Сначала создаем анализ
	if err := tx.Create(analysis).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	// Затем создаем ключевые моменты
	for i := range analysis.KeyMoments {
		analysis.KeyMoments[i].ID = 0 // Обнуляем ID для auto-increment
		analysis.KeyMoments[i].AnalysisID = analysis.ID

		if err := tx.Create(&analysis.KeyMoments[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create key moment %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID получает анализ по ID
func (r *analysisRepository) GetByID(id string) (*model.Analysis, error) {
	var analysis model.Analysis
	err := r.db.Preload("KeyMoments").Where("id = ?", id).First(&analysis).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("analysis with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &analysis, nil
}

// List получает список анализов с пагинацией
func (r *analysisRepository) List(page, pageSize int) ([]*model.Analysis, int64, error) {
	var analyses []*model.Analysis
	var total int64

	// Подсчитываем общее количество
	if err := r.db.Model(&model.Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	// Получаем анализы с пагинацией
	offset := (page - 1) * pageSize
	err := r.db.Preload("KeyMoments").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&analyses).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}

	return analyses, total, nil
}

// Delete удаляет анализ по ID
func (r *analysisRepository) Delete(id string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Сначала удаляем ключевые моменты
	if err := tx.Where("analysis_id = ?", id).Delete(&model.AnalysisKeyMoment{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete key moments: %w", err)
	}

	// Затем удаляем анализ
	result := tx.Where("id = ?", id).Delete(&model.Analysis{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("analysis with id %s not found", id)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
