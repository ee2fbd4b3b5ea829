package converter

import (
	"github.com/DRSN-tech/cocktail-search/internal/domain"
)

// CocktailToEntity преобразует коктейль снапшота; ингредиенты разрешаются по справочнику ingredients.
func CocktailToEntity(model *CocktailModel, ingredients map[int64]domain.Ingredient) domain.Cocktail {
	c := domain.Cocktail{
		ID:           model.ID,
		ExternalID:   model.ExternalID,
		Name:         model.Name,
		Description:  model.Description,
		Instructions: model.Instructions,
		Garnish:      model.Garnish,
		Source:       model.Source,
		ABV:          model.ABV,
		Method:       domain.ParseMethod(model.Method),
		Glass:        model.Glass,
		Tags:         model.Tags,
		Utensils:     model.Utensils,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	c.Ingredients = make([]domain.CocktailIngredient, 0, len(model.Ingredients))
	for _, line := range model.Ingredients {
		item := domain.CocktailIngredient{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
			Unit:         line.Unit,
			Optional:     line.Optional,
			Note:         line.Note,
			SortOrder:    line.SortOrder,
		}

		if ing, ok := ingredients[line.IngredientID]; ok {
			item.Ingredient = &ing
		}

		c.Ingredients = append(c.Ingredients, item)
	}

	return c
}

func CocktailToModel(entity *domain.Cocktail) CocktailModel {
	model := CocktailModel{
		ID:           entity.ID,
		ExternalID:   entity.ExternalID,
		Name:         entity.Name,
		Description:  entity.Description,
		Instructions: entity.Instructions,
		Garnish:      entity.Garnish,
		Source:       entity.Source,
		ABV:          entity.ABV,
		Method:       string(entity.Method),
		Glass:        entity.Glass,
		Tags:         entity.Tags,
		Utensils:     entity.Utensils,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}

	model.Ingredients = make([]RecipeLineModel, 0, len(entity.Ingredients))
	for _, line := range entity.Ingredients {
		model.Ingredients = append(model.Ingredients, RecipeLineModel{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
			Unit:         line.Unit,
			Optional:     line.Optional,
			Note:         line.Note,
			SortOrder:    line.SortOrder,
		})
	}

	return model
}

func IngredientToEntity(model *IngredientModel) domain.Ingredient {
	return domain.Ingredient{
		ID:          model.ID,
		ExternalID:  model.ExternalID,
		Name:        model.Name,
		Description: model.Description,
		Origin:      model.Origin,
		Color:       model.Color,
		Category:    domain.ParseIngredientCategory(model.Category),
		Strength:    model.Strength,
		Sugar:       model.Sugar,
		Acidity:     model.Acidity,
	}
}

func IngredientToModel(entity *domain.Ingredient) IngredientModel {
	return IngredientModel{
		ID:          entity.ID,
		ExternalID:  entity.ExternalID,
		Name:        entity.Name,
		Description: entity.Description,
		Origin:      entity.Origin,
		Color:       entity.Color,
		Category:    string(entity.Category),
		Strength:    entity.Strength,
		Sugar:       entity.Sugar,
		Acidity:     entity.Acidity,
	}
}

func EmbeddingToModel(kind domain.RecordKind, fv *domain.FieldVector) EmbeddingModel {
	return EmbeddingModel{
		Kind:     string(kind),
		RecordID: fv.RecordID,
		Field:    string(fv.Field),
		Vector:   fv.Vector,
	}
}
