package domain

// CocktailMatch — коктейль с оценкой сходства в [0, 1]: 0 для несвязанных (ортогональных), 1 для совпадающих
type CocktailMatch struct {
	Cocktail Cocktail
	Score    float64
}

// IngredientMatch — рекомендованный ингредиент с оценкой сходства в [0, 1], как у CocktailMatch
type IngredientMatch struct {
	Ingredient Ingredient
	Score      float64
}

// IngredientOverlapMatch — коктейль, найденный по пересечению ингредиентов
type IngredientOverlapMatch struct {
	Cocktail           Cocktail
	MatchedCount       int
	TotalCount         int
	MatchFraction      float64
	MatchedIngredients []string // запрошенные имена, найденные в рецепте
}
