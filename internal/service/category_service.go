package service

import (
	"context"
	"strings"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category with a validated type and a per-user
// unique name.
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string, categoryType domain.CategoryType, color string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}
	if color == "" {
		color = "#6f42c1"
	}

	return s.categoryRepo.Create(ctx, &domain.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
		Color:  color,
	})
}

// GetCategories retrieves all categories for a user
func (s *CategoryService) GetCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(ctx, userID)
}

// GetCategoryByID retrieves a single category
func (s *CategoryService) GetCategoryByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, userID, id)
}
