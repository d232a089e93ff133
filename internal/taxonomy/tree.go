// Package taxonomy turns the flat skill category list into the three-level
// main → sub → detail forest served to clients.
package taxonomy

import (
	"fmt"

	"github.com/garnizeh/ustabul/pkg/models"
)

// Node is a category together with its ordered children.
type Node struct {
	models.SkillCategory
	Children []*Node `json:"children"`
}

// BuildTree builds the category forest in a single pass over categories.
//
// Roots are the categories without a parent. Children keep the order in which
// they appear in the input, so callers sort by display order beforehand. A
// category whose parent is not in the input is dropped.
func BuildTree(categories []models.SkillCategory) []*Node {
	byID := make(map[string]*Node, len(categories))
	for _, c := range categories {
		byID[c.ID] = &Node{SkillCategory: c, Children: []*Node{}}
	}

	roots := []*Node{}
	for _, c := range categories {
		node := byID[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	return roots
}

// ValidateChild checks that a category may be placed under parent: roots are
// main-level, every other node sits exactly one level below its parent.
func ValidateChild(parent *models.SkillCategory, child models.SkillCategory) error {
	if parent == nil {
		if child.Level != models.LevelMain {
			return fmt.Errorf("root category %q must be %s level, got %s: %w", child.Name, models.LevelMain, child.Level, models.ErrInvalidInput)
		}
		return nil
	}

	want, ok := parent.Level.ChildLevel()
	if !ok {
		return fmt.Errorf("category %q cannot have children: %w", parent.Name, models.ErrInvalidInput)
	}
	if child.Level != want {
		return fmt.Errorf("category %q under %q must be %s level, got %s: %w", child.Name, parent.Name, want, child.Level, models.ErrInvalidInput)
	}

	return nil
}
