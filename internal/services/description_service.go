package services

import (
	"strings"

	"gorm.io/gorm"

	"gastocerto/internal/descriptions"
	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/logger"
	"gastocerto/internal/models"
)

// descriptionService stores the household's custom description names.
type descriptionService struct {
	db *gorm.DB
}

// NewDescriptionService creates a new DescriptionServicer.
func NewDescriptionService(db *gorm.DB) DescriptionServicer {
	return &descriptionService{db: db}
}

// ListDescriptions returns the defaults merged with the household's own tags.
func (s *descriptionService) ListDescriptions(householdID string) ([]models.DescriptionTag, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	custom, err := s.custom(householdID)
	if err != nil {
		return nil, err
	}
	return descriptions.Merge(custom), nil
}

func (s *descriptionService) custom(householdID string) ([]models.DescriptionTag, error) {
	var tags []models.DescriptionTag
	if err := s.db.Where("household_id = ?", householdID).
		Order("created_at ASC").
		Find(&tags).Error; err != nil {
		return nil, persistenceError(err)
	}
	return tags, nil
}

// AddDescription stores name unless it already exists, ignoring case,
// among the defaults or the household's tags.
func (s *descriptionService) AddDescription(householdID, name string) (*models.DescriptionTag, error) {
	if err := requireHousehold(householdID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "description name is required")
	}

	existing, err := s.ListDescriptions(householdID)
	if err != nil {
		return nil, err
	}
	if descriptions.Exists(existing, name) {
		return nil, apperrors.ErrDescriptionExists
	}

	tag := &models.DescriptionTag{HouseholdID: householdID, Name: name}
	if err := s.db.Create(tag).Error; err != nil {
		return nil, persistenceError(err)
	}

	logger.Get().Infow("description added", "household_id", householdID, "name", name)
	return tag, nil
}
