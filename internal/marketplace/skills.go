package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/internal/taxonomy"
	"github.com/garnizeh/ustabul/pkg/models"
)

// ListCategories returns the flat taxonomy ordered by display_order.
func (s *Service) ListCategories(ctx context.Context) ([]models.SkillCategory, error) {
	return s.store.ListCategories(ctx)
}

// CategoryTree returns the taxonomy as a main → sub → detail forest.
func (s *Service) CategoryTree(ctx context.Context) ([]*taxonomy.Node, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.BuildTree(cats), nil
}

// CreateCategory adds a taxonomy node. parentID is empty for main categories.
func (s *Service) CreateCategory(ctx context.Context, parentID, name string, level models.CategoryLevel, displayOrder int) (*models.SkillCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name is required: %w", models.ErrInvalidInput)
	}

	c := models.SkillCategory{
		ID:           uuid.NewString(),
		Name:         name,
		Level:        level,
		DisplayOrder: displayOrder,
	}

	var parent *models.SkillCategory
	if parentID != "" {
		p, err := s.store.GetCategory(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("parent category %s: %w", parentID, models.ErrNotFound)
		}
		parent = p
		c.ParentID = &p.ID
	}
	if err := taxonomy.ValidateChild(parent, c); err != nil {
		return nil, err
	}

	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
