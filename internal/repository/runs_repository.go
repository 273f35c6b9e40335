package repository

import (
	"fmt"

	"gorm.io/gorm"

	"catalog-transformer/internal/models"
)

// RunsRepository persists conversion run history.
type RunsRepository struct {
	db *gorm.DB
}

// NewRunsRepository creates a new runs repository
func NewRunsRepository(db *gorm.DB) *RunsRepository {
	return &RunsRepository{db: db}
}

// Create records one completed run.
func (r *RunsRepository) Create(run *models.ConversionRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create conversion run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (r *RunsRepository) List(limit int) ([]models.ConversionRun, error) {
	var runs []models.ConversionRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by id.
func (r *RunsRepository) Get(id string) (*models.ConversionRun, error) {
	var run models.ConversionRun
	err := r.db.Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
