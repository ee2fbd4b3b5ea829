package domain

import (
	"strings"
	"time"
)

// Method описывает способ приготовления коктейля
type Method string

const (
	MethodShake  Method = "shake"
	MethodStir   Method = "stir"
	MethodBuild  Method = "build"
	MethodBlend  Method = "blend"
	MethodMuddle Method = "muddle"
	MethodOther  Method = "other"
)

// ParseMethod нормализует способ приготовления; неизвестные значения сводятся к MethodOther.
func ParseMethod(s string) Method {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodShake, MethodStir, MethodBuild, MethodBlend, MethodMuddle:
		return m
	case "shaken":
		return MethodShake
	case "stirred":
		return MethodStir
	case "built":
		return MethodBuild
	case "blended":
		return MethodBlend
	case "muddled":
		return MethodMuddle
	default:
		return MethodOther
	}
}

// Cocktail описывает коктейль
type Cocktail struct {
	ID           int64
	ExternalID   string // идентификатор из исходного набора данных
	Name         string
	Description  string
	Instructions string
	Garnish      string
	Source       string
	ABV          *float64 // nil — крепость неизвестна
	Method       Method
	Glass        string
	Tags         []string
	Utensils     []string
	Ingredients  []CocktailIngredient // в порядке рецепта
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// CocktailIngredient — позиция рецепта. Одна и та же ссылка на ингредиент может встречаться несколько раз.
type CocktailIngredient struct {
	IngredientID int64
	Ingredient   *Ingredient // nil, если ингредиента нет в справочнике
	Amount       *float64
	Unit         string
	Optional     bool
	Note         string
	SortOrder    int
}

// Known сообщает, удалось ли разрешить ссылку на ингредиент.
func (ci CocktailIngredient) Known() bool {
	return ci.Ingredient != nil
}

// IngredientIDs возвращает множество идентификаторов ингредиентов рецепта.
func (c *Cocktail) IngredientIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(c.Ingredients))
	for _, ci := range c.Ingredients {
		ids[ci.IngredientID] = struct{}{}
	}

	return ids
}

// Categories возвращает категории коктейля в нижнем регистре: теги плюс категории известных ингредиентов.
// Например, исключение категории "spirit" отсеивает любой коктейль с крепким алкоголем в рецепте, даже без такого тега.
func (c *Cocktail) Categories() map[string]struct{} {
	categories := make(map[string]struct{}, len(c.Tags)+len(c.Ingredients))
	for _, tag := range c.Tags {
		categories[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	for _, ci := range c.Ingredients {
		if ci.Known() {
			categories[string(ci.Ingredient.Category)] = struct{}{}
		}
	}

	return categories
}

// HasAllTags проверяет, что у коктейля есть каждый из тегов (без учёта регистра).
func (c *Cocktail) HasAllTags(tags []string) bool {
	if len(tags) == 0 {
		return true
	}

	own := make(map[string]struct{}, len(c.Tags))
	for _, tag := range c.Tags {
		own[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	for _, tag := range tags {
		if _, ok := own[strings.ToLower(strings.TrimSpace(tag))]; !ok {
			return false
		}
	}

	return true
}
