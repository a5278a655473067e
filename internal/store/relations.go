package store

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// addRecipeLink inserts a (user, recipe) link row. The existence check and the
// insert share one transaction, and the unique index on (user_id, recipe_id)
// rejects a concurrent duplicate that slips past the check.
func (s *Store) addRecipeLink(ctx context.Context, link any, userID, recipeID uint, list string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return notFound(err, "recipe %d", recipeID)
		}
		var n int64
		if err := tx.Model(link).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflict("recipe %d is already in %s", recipeID, list)
		}
		if err := tx.Omit("User", "Recipe").Create(link).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("recipe %d is already in %s", recipeID, list)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// removeRecipeLink deletes a (user, recipe) link row with a single statement;
// zero affected rows means the pair never existed.
func (s *Store) removeRecipeLink(ctx context.Context, link any, userID, recipeID uint, list string) error {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&domain.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
	}
	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(link)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe %d is not in %s: %w", recipeID, list, ErrNotFound)
	}
	return nil
}

// AddFavorite marks recipeID as a favorite of userID
func (s *Store) AddFavorite(ctx context.Context, userID, recipeID uint) (*domain.Recipe, error) {
	return s.addRecipeLink(ctx, &domain.FavoriteRecipe{UserID: userID, RecipeID: recipeID}, userID, recipeID, "favorites")
}

// RemoveFavorite unmarks a favorite
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeRecipeLink(ctx, &domain.FavoriteRecipe{}, userID, recipeID, "favorites")
}

// AddToCart puts recipeID into userID's shopping cart
func (s *Store) AddToCart(ctx context.Context, userID, recipeID uint) (*domain.Recipe, error) {
	return s.addRecipeLink(ctx, &domain.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}, userID, recipeID, "the shopping cart")
}

// RemoveFromCart takes recipeID out of the shopping cart
func (s *Store) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeRecipeLink(ctx, &domain.ShoppingCartEntry{}, userID, recipeID, "the shopping cart")
}

// Subscribe makes userID follow targetID. Following yourself is a conflict.
func (s *Store) Subscribe(ctx context.Context, userID, targetID uint) (*domain.User, error) {
	var target domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			return notFound(err, "user %d", targetID)
		}
		if userID == targetID {
			return conflict("cannot subscribe to yourself")
		}
		var n int64
		if err := tx.Model(&domain.Subscription{}).Where("user_id = ? AND target_id = ?", userID, targetID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflict("already subscribed to user %d", targetID)
		}
		sub := domain.Subscription{UserID: userID, TargetID: targetID}
		if err := tx.Omit("User", "Target").Create(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("already subscribed to user %d", targetID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// Unsubscribe removes the (userID, targetID) subscription
func (s *Store) Unsubscribe(ctx context.Context, userID, targetID uint) error {
	if _, err := s.GetUser(ctx, targetID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND target_id = ?", userID, targetID).Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("not subscribed to user %d: %w", targetID, ErrNotFound)
	}
	return nil
}

// ListSubscriptions returns a page of the users userID follows, ordered by id
func (s *Store) ListSubscriptions(ctx context.Context, userID uint, page Page) ([]domain.User, int64, error) {
	db := s.db.WithContext(ctx)
	following := func() *gorm.DB {
		return db.Model(&domain.User{}).Where("id IN (?)",
			db.Model(&domain.Subscription{}).Select("target_id").Where("user_id = ?", userID))
	}
	var total int64
	if err := following().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := page.apply(following().Order("id")).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Flags are the viewer-relative markers of a recipe read
type Flags struct {
	Favorited  map[uint]bool // recipe id
	InCart     map[uint]bool // recipe id
	Subscribed map[uint]bool // author id
}

// ViewerFlags resolves favorite/cart/subscription markers for viewerID over a
// batch of recipes. A zero viewerID (anonymous) gets all-false flags.
func (s *Store) ViewerFlags(ctx context.Context, viewerID uint, recipes []domain.Recipe) (Flags, error) {
	flags := Flags{Favorited: map[uint]bool{}, InCart: map[uint]bool{}, Subscribed: map[uint]bool{}}
	if viewerID == 0 || len(recipes) == 0 {
		return flags, nil
	}
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs = append(authorIDs, r.AuthorID)
	}
	db := s.db.WithContext(ctx)

	var ids []uint
	if err := db.Model(&domain.FavoriteRecipe{}).Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).Pluck("recipe_id", &ids).Error; err != nil {
		return flags, err
	}
	for _, id := range ids {
		flags.Favorited[id] = true
	}
	ids = nil
	if err := db.Model(&domain.ShoppingCartEntry{}).Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).Pluck("recipe_id", &ids).Error; err != nil {
		return flags, err
	}
	for _, id := range ids {
		flags.InCart[id] = true
	}
	subscribed, err := s.SubscribedTo(ctx, viewerID, authorIDs)
	if err != nil {
		return flags, err
	}
	flags.Subscribed = subscribed
	return flags, nil
}

// SubscribedTo reports which of userIDs viewerID follows. The viewer is never
// reported as subscribed to themselves.
func (s *Store) SubscribedTo(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	if viewerID == 0 || len(userIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND target_id IN ?", viewerID, userIDs).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id != viewerID {
			out[id] = true
		}
	}
	return out, nil
}
