package store

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// ListTags returns every tag ordered by name
func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag loads a tag by id
func (s *Store) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err, "tag %d", id)
	}
	return &tag, nil
}

// CreateTag inserts a tag; slugs are unique
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict("tag %s", tag.Slug)
		}
		return err
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchIngredients returns ingredients whose name starts with prefix, case
// insensitive, ordered by name. An empty prefix returns everything.
func (s *Store) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name").Order("id")
	if prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}
	var ingredients []domain.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient loads an ingredient by id
func (s *Store) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFound(err, "ingredient %d", id)
	}
	return &ingredient, nil
}

// EnsureIngredient inserts (name, unit) unless that exact pair already exists.
// Reports whether a row was created.
func (s *Store) EnsureIngredient(ctx context.Context, name, unit string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", name, unit).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(&domain.Ingredient{Name: name, MeasurementUnit: unit}).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
