package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService struct {
	categoryRepo repository.CategoryStore
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := time.Now().UTC()
	c := &models.Category{ID: uuid.New(), UserID: userID, CreatedAt: now}
	applyCategory(c, req, now)
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func applyCategory(c *models.Category, req *dto.CategoryRequest, now time.Time) {
	c.Name = cleanText(req.Name)
	c.Type = models.CategoryType(req.Type)
	c.Color = req.Color
	if c.Color == "" {
		c.Color = models.DefaultCategoryColor
	}
	c.Icon = req.Icon
	if c.Icon == "" {
		c.Icon = models.DefaultCategoryIcon
	}
	c.UpdatedAt = now
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, typ string) ([]*models.Category, error) {
	if typ != "" && typ != string(models.CategoryTypeIncome) && typ != string(models.CategoryTypeExpense) {
		return nil, invalid("unknown category type %q", typ)
	}
	categories, err := s.categoryRepo.List(ctx, userID, models.CategoryType(typ))
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	c, err := s.categoryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	applyCategory(c, req, time.Now().UTC())
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

// Delete leaves existing transactions uncategorized.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.categoryRepo.Delete(ctx, userID, id))
}
