package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// CategoryService manages the category taxonomy. Names are unique
// (case-sensitive); deleting a category leaves transactions that reference
// the name untouched.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

// Add creates a category with a fresh id. Returns storage.ErrDuplicateKey if
// the name is already taken.
func (s *CategoryService) Add(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, core.ErrEmptyName
	}

	id, err := s.storage.CreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("add category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", name)
	return id, nil
}

// Rename changes a category's name. The store's uniqueness constraint rejects
// a rename onto an existing name.
func (s *CategoryService) Rename(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.ErrEmptyName
	}

	if err := s.storage.RenameCategory(ctx, id, newName); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}

	slog.InfoContext(ctx, "Category renamed", "id", id, "name", newName)
	return nil
}

// Delete removes the category row only. Transactions keep the old name as a
// dangling reference; referential integrity is an explicit non-goal.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

// List returns all categories in insertion order.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	cats, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Seed inserts the given category names, skipping any that already exist.
// Used on first run to install the default taxonomy.
func (s *CategoryService) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := s.Add(ctx, name)
		if errors.Is(err, storage.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}
