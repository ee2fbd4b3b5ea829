package converter

import (
	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// CocktailToEntity собирает коктейль из строки cocktails и строк его рецепта (в порядке sort_order).
func CocktailToEntity(model *CocktailModel, lines []RecipeLineModel) domain.Cocktail {
	c := domain.Cocktail{
		ID:           model.ID,
		ExternalID:   deref(model.ExternalID),
		Name:         model.Name,
		Description:  deref(model.Description),
		Instructions: deref(model.Instructions),
		Garnish:      deref(model.Garnish),
		Source:       deref(model.Source),
		ABV:          model.ABV,
		Method:       domain.ParseMethod(model.Method),
		Glass:        deref(model.Glass),
		Tags:         model.Tags,
		Utensils:     model.Utensils,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	c.Ingredients = make([]domain.CocktailIngredient, 0, len(lines))
	for i := range lines {
		c.Ingredients = append(c.Ingredients, RecipeLineToEntity(&lines[i]))
	}

	return c
}

// RecipeLineToEntity преобразует строку рецепта; висячая ссылка даёт неизвестный ингредиент.
func RecipeLineToEntity(model *RecipeLineModel) domain.CocktailIngredient {
	line := domain.CocktailIngredient{
		IngredientID: model.IngredientID,
		Amount:       model.Amount,
		Unit:         deref(model.Unit),
		Optional:     model.Optional,
		Note:         deref(model.Note),
		SortOrder:    model.SortOrder,
	}

	if model.RefID != nil {
		ing := IngredientToEntity(&IngredientModel{
			ID:          *model.RefID,
			ExternalID:  model.RefExternalID,
			Name:        deref(model.RefName),
			Description: model.RefDescription,
			Origin:      model.RefOrigin,
			Color:       model.RefColor,
			Category:    deref(model.RefCategory),
			Strength:    model.RefStrength,
			Sugar:       model.RefSugar,
			Acidity:     model.RefAcidity,
		})
		line.Ingredient = &ing
	}

	return line
}

func IngredientToEntity(model *IngredientModel) domain.Ingredient {
	return domain.Ingredient{
		ID:          model.ID,
		ExternalID:  deref(model.ExternalID),
		Name:        model.Name,
		Description: deref(model.Description),
		Origin:      deref(model.Origin),
		Color:       deref(model.Color),
		Category:    domain.ParseIngredientCategory(model.Category),
		Strength:    model.Strength,
		Sugar:       model.Sugar,
		Acidity:     model.Acidity,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
