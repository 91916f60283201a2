package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

// SeedDefaultCategories inserts model.DefaultCategoryNames when the
// categories table is empty and reports whether it did. The count check and
// the inserts are not atomic across processes.
func SeedDefaultCategories(ctx context.Context, db *gorm.DB) (bool, error) {
	repo := NewCategoryRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewCategoryRepository(tx)
		for _, name := range model.DefaultCategoryNames {
			if err := txRepo.Create(ctx, &model.Category{Name: name}); err != nil {
				return fmt.Errorf("create category %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
