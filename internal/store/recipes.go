package store

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// IngredientAmount is one {ingredient id, amount} pair of a recipe write
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// RecipeInput carries a recipe write. Nil fields are left untouched on update;
// on create every field is required. A nil TagIDs or Ingredients slice means
// "absent", an empty non-nil slice means "clear".
type RecipeInput struct {
	Name        *string
	Image       *string // Storage key of an already stored image
	Text        *string
	CookingTime *int
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeFilter narrows a recipe listing; all set fields are combined with AND
type RecipeFilter struct {
	TagSlugs    []string // Any of these slugs
	AuthorID    *uint
	FavoritedBy *uint
	InCartOf    *uint
}

func validateFields(in RecipeInput, create bool) error {
	if create {
		switch {
		case in.Name == nil:
			return invalid("name is required")
		case in.Image == nil:
			return invalid("image is required")
		case in.Text == nil:
			return invalid("text is required")
		case in.CookingTime == nil:
			return invalid("cooking_time is required")
		case in.Ingredients == nil:
			return invalid("ingredients are required")
		}
	}
	if in.Name != nil && (strings.TrimSpace(*in.Name) == "" || len(*in.Name) > 200) {
		return invalid("name must be 1-200 characters")
	}
	if in.Image != nil && *in.Image == "" {
		return invalid("image must not be empty")
	}
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return invalid("text must not be empty")
	}
	if in.CookingTime != nil && *in.CookingTime < 1 {
		return invalid("cooking_time must be at least 1")
	}
	if in.Ingredients != nil && len(in.Ingredients) == 0 {
		return invalid("at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if item.Amount < 1 {
			return invalid("amount of ingredient %d must be at least 1", item.IngredientID)
		}
		if seen[item.IngredientID] {
			return invalid("ingredient %d is listed more than once", item.IngredientID)
		}
		seen[item.IngredientID] = true
	}
	return nil
}

func loadTags(tx *gorm.DB, ids []uint) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	unique := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if unique[id] {
			return nil, invalid("tag %d is listed more than once", id)
		}
		unique[id] = true
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, invalid("unknown tag id in %v", ids)
	}
	return tags, nil
}

func insertIngredients(tx *gorm.DB, recipeID uint, items []IngredientAmount) error {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.IngredientID
	}
	var n int64
	if err := tx.Model(&domain.Ingredient{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return invalid("unknown ingredient id in %v", ids)
	}
	rows := make([]domain.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = domain.RecipeIngredient{RecipeID: recipeID, IngredientID: item.IngredientID, Amount: item.Amount}
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}

// CreateRecipe persists a recipe authored by authorID with its tags and
// ingredient rows, and returns it fully loaded.
func (s *Store) CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*domain.Recipe, error) {
	if err := validateFields(in, true); err != nil {
		return nil, err
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		recipe := domain.Recipe{
			AuthorID:    authorID,
			Name:        *in.Name,
			Image:       *in.Image,
			Text:        *in.Text,
			CookingTime: *in.CookingTime,
			Tags:        tags,
		}
		if err := tx.Omit("Author", "Tags.*", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		id = recipe.ID
		return insertIngredients(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// UpdateRecipe applies a partial write by the recipe's author. Present tag and
// ingredient sets replace the stored ones wholesale. Returns the reloaded
// recipe and, when the image changed, the key of the replaced image.
func (s *Store) UpdateRecipe(ctx context.Context, actorID, recipeID uint, in RecipeInput) (*domain.Recipe, string, error) {
	if err := validateFields(in, false); err != nil {
		return nil, "", err
	}
	var oldImage string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe domain.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return notFound(err, "recipe %d", recipeID)
		}
		if recipe.AuthorID != actorID {
			return ErrForbidden
		}

		if in.Name != nil {
			recipe.Name = *in.Name
		}
		if in.Image != nil && *in.Image != recipe.Image {
			oldImage = recipe.Image
			recipe.Image = *in.Image
		}
		if in.Text != nil {
			recipe.Text = *in.Text
		}
		if in.CookingTime != nil {
			recipe.CookingTime = *in.CookingTime
		}
		if err := tx.Model(&recipe).Select("name", "image", "text", "cooking_time", "updated_at").Updates(&recipe).Error; err != nil {
			return err
		}

		if in.TagIDs != nil {
			tags, err := loadTags(tx, in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&recipe).Omit("Tags.*").Association("Tags").Append(tags); err != nil {
					return err
				}
			}
		}

		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := insertIngredients(tx, recipe.ID, in.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, "", err
	}
	return recipe, oldImage, nil
}

// DeleteRecipe removes a recipe owned by actorID together with its ingredient
// rows, tag links, favorites and cart entries. Returns the recipe's image key.
func (s *Store) DeleteRecipe(ctx context.Context, actorID, recipeID uint) (string, error) {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe domain.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return notFound(err, "recipe %d", recipeID)
		}
		if recipe.AuthorID != actorID {
			return ErrForbidden
		}
		image = recipe.Image
		for _, link := range []any{&domain.FavoriteRecipe{}, &domain.ShoppingCartEntry{}, &domain.RecipeIngredient{}} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(link).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	return image, err
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name").Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// GetRecipe loads a recipe with author, tags and ingredients
func (s *Store) GetRecipe(ctx context.Context, id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := withRelations(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, notFound(err, "recipe %d", id)
	}
	return &recipe, nil
}

func (s *Store) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	db := s.db.WithContext(ctx)
	q := db.Model(&domain.Recipe{})
	if len(f.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if f.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)", db.Model(&domain.FavoriteRecipe{}).Select("recipe_id").Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		q = q.Where("recipes.id IN (?)", db.Model(&domain.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", *f.InCartOf))
	}
	return q
}

// ListRecipes returns a newest-first page of recipes matching f and the total
// number of matches. Tag matching uses a subquery so a recipe carrying several
// of the requested tags is returned once.
func (s *Store) ListRecipes(ctx context.Context, f RecipeFilter, page Page) ([]domain.Recipe, int64, error) {
	var total int64
	if err := s.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var recipes []domain.Recipe
	q := withRelations(s.filtered(ctx, f)).Order("recipes.created_at DESC").Order("recipes.id DESC")
	if err := page.apply(q).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// RecipesByAuthor returns an author's recipes newest first; limit < 0 means all
func (s *Store) RecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	q := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Order("id DESC")
	if limit >= 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipeCounts returns the number of recipes per author for the given ids
func (s *Store) RecipeCounts(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := s.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
