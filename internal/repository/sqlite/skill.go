package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

func (r *SQLiteRepo) CreateCategory(ctx context.Context, c *models.SkillCategory) error {
	if c == nil {
		return fmt.Errorf("category is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO skill_categories (id, parent_id, category_name, category_level, display_order) VALUES (?, ?, ?, ?, ?)`,
		c.ID, nullString(c.ParentID), c.Name, string(c.Level), c.DisplayOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: duplicate id or sibling display order: %w", c.Name, models.ErrInvalidInput)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetCategory(ctx context.Context, id string) (*models.SkillCategory, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, parent_id, category_name, category_level, display_order FROM skill_categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return c, nil
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.SkillCategory, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, parent_id, category_name, category_level, display_order FROM skill_categories ORDER BY display_order ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SkillCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}

	return out, rows.Err()
}

func scanCategory(s scanner) (*models.SkillCategory, error) {
	var (
		c      models.SkillCategory
		parent sql.NullString
		level  string
	)
	if err := s.Scan(&c.ID, &parent, &c.Name, &level, &c.DisplayOrder); err != nil {
		return nil, err
	}

	var err error
	if c.Level, err = models.ParseCategoryLevel(level); err != nil {
		return nil, err
	}
	c.ParentID = stringPtr(parent)

	return &c, nil
}
