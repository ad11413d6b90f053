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

const defaultTagColor = "#64748B"

type TagService struct {
	tagRepo repository.TagStore
	logger  *zap.Logger
}

func NewTagService(tagRepo repository.TagStore, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: logger}
}

func (s *TagService) Create(ctx context.Context, userID uuid.UUID, req *dto.TagRequest) (*models.Tag, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := time.Now().UTC()
	t := &models.Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      cleanText(req.Name),
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Color == "" {
		t.Color = defaultTagColor
	}
	if err := s.tagRepo.Create(ctx, t); err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func (s *TagService) List(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error) {
	tags, err := s.tagRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	return tags, nil
}

func (s *TagService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.TagRequest) (*models.Tag, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t, err := s.tagRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	t.Name = cleanText(req.Name)
	if req.Color != "" {
		t.Color = req.Color
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.tagRepo.Update(ctx, t); err != nil {
		return nil, storeErr(err)
	}
	return t, nil
}

func (s *TagService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.tagRepo.Delete(ctx, userID, id))
}
