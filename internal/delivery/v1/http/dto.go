package http

import "github.com/DRSN-tech/cocktail-search/internal/domain"

type RecipeLineResponse struct {
	IngredientID int64    `json:"ingredient_id"`
	Name         string   `json:"name,omitempty"` // пусто, если ингредиента нет в справочнике
	Category     string   `json:"category,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Optional     bool     `json:"optional"`
	Note         string   `json:"note,omitempty"`
}

type CocktailResponse struct {
	ID           int64                `json:"id"`
	ExternalID   string               `json:"external_id,omitempty"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Instructions string               `json:"instructions,omitempty"`
	Garnish      string               `json:"garnish,omitempty"`
	Glass        string               `json:"glass,omitempty"`
	Method       string               `json:"method"`
	ABV          *float64             `json:"abv"`
	Tags         []string             `json:"tags"`
	Utensils     []string             `json:"utensils,omitempty"`
	Ingredients  []RecipeLineResponse `json:"ingredients"`
}

type SimilarCocktailResponse struct {
	CocktailResponse
	Similarity float64 `json:"similarity"`
}

type IngredientOverlapResponse struct {
	CocktailResponse
	MatchedCount       int      `json:"matched_count"`
	TotalCount         int      `json:"total_count"`
	MatchFraction      float64  `json:"match_fraction"`
	MatchedIngredients []string `json:"matched_ingredients"`
}

type IngredientRecommendationResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Strength    *float64 `json:"strength,omitempty"`
	Similarity  float64  `json:"similarity"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// MAPPERS
func toCocktailResponse(c *domain.Cocktail) CocktailResponse {
	res := CocktailResponse{
		ID:           c.ID,
		ExternalID:   c.ExternalID,
		Name:         c.Name,
		Description:  c.Description,
		Instructions: c.Instructions,
		Garnish:      c.Garnish,
		Glass:        c.Glass,
		Method:       string(c.Method),
		ABV:          c.ABV,
		Tags:         c.Tags,
		Utensils:     c.Utensils,
		Ingredients:  make([]RecipeLineResponse, 0, len(c.Ingredients)),
	}

	if res.Tags == nil {
		res.Tags = []string{}
	}

	for _, line := range c.Ingredients {
		item := RecipeLineResponse{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
			Unit:         line.Unit,
			Optional:     line.Optional,
			Note:         line.Note,
		}
		if line.Known() {
			item.Name = line.Ingredient.Name
			item.Category = string(line.Ingredient.Category)
		}

		res.Ingredients = append(res.Ingredients, item)
	}

	return res
}

func toCocktailsResponse(cocktails []domain.Cocktail) []CocktailResponse {
	res := make([]CocktailResponse, 0, len(cocktails))
	for i := range cocktails {
		res = append(res, toCocktailResponse(&cocktails[i]))
	}

	return res
}

func toSimilarResponse(matches []domain.CocktailMatch) []SimilarCocktailResponse {
	res := make([]SimilarCocktailResponse, 0, len(matches))
	for i := range matches {
		res = append(res, SimilarCocktailResponse{
			CocktailResponse: toCocktailResponse(&matches[i].Cocktail),
			Similarity:       matches[i].Score,
		})
	}

	return res
}

func toOverlapResponse(matches []domain.IngredientOverlapMatch) []IngredientOverlapResponse {
	res := make([]IngredientOverlapResponse, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		res = append(res, IngredientOverlapResponse{
			CocktailResponse:   toCocktailResponse(&m.Cocktail),
			MatchedCount:       m.MatchedCount,
			TotalCount:         m.TotalCount,
			MatchFraction:      m.MatchFraction,
			MatchedIngredients: m.MatchedIngredients,
		})
	}

	return res
}

func toRecommendationsResponse(matches []domain.IngredientMatch) []IngredientRecommendationResponse {
	res := make([]IngredientRecommendationResponse, 0, len(matches))
	for _, m := range matches {
		res = append(res, IngredientRecommendationResponse{
			ID:          m.Ingredient.ID,
			Name:        m.Ingredient.Name,
			Category:    string(m.Ingredient.Category),
			Description: m.Ingredient.Description,
			Strength:    m.Ingredient.Strength,
			Similarity:  m.Score,
		})
	}

	return res
}
