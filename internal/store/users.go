package store

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// CreateUser inserts a new user; email and username must be unused
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflict("user with email %s", user.Email)
		}
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflict("user with username %s", user.Username)
		}
		if err := tx.Omit("Recipes").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("user %s", user.Email)
			}
			return err
		}
		return nil
	})
}

// GetUser loads a user by id
func (s *Store) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return &user, nil
}

// GetUserByEmail loads a user by login email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user %s", email)
	}
	return &user, nil
}

// ListUsers returns a page of users ordered by id together with the total count
func (s *Store) ListUsers(ctx context.Context, page Page) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := page.apply(s.db.WithContext(ctx).Order("id")).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetPassword replaces the stored password hash
func (s *Store) SetPassword(ctx context.Context, id uint, hash string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user with everything hanging off it: owned recipes and
// their links, the user's own favorites and cart entries, and subscriptions in
// both directions. Returns the image keys of the deleted recipes.
func (s *Store) DeleteUser(ctx context.Context, id uint) ([]string, error) {
	var images []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user %d", id)
		}
		owned := tx.Model(&domain.Recipe{}).Select("id").Where("author_id = ?", id)
		if err := tx.Model(&domain.Recipe{}).Where("author_id = ?", id).Pluck("image", &images).Error; err != nil {
			return err
		}

		// link rows first
		if err := tx.Where("user_id = ? OR recipe_id IN (?)", id, owned).Delete(&domain.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR recipe_id IN (?)", id, owned).Delete(&domain.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR target_id = ?", id, id).Delete(&domain.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id IN (?)", owned).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN (?)", owned).Error; err != nil {
			return err
		}
		// then owned aggregates, then the entity
		if err := tx.Where("author_id = ?", id).Delete(&domain.Recipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
