package domain

import (
	"fmt"
	"strings"
)

// IngredientCategory — семейство ингредиента
type IngredientCategory string

const (
	CategorySpirit   IngredientCategory = "spirit"
	CategoryLiqueur  IngredientCategory = "liqueur"
	CategoryJuice    IngredientCategory = "juice"
	CategorySyrup    IngredientCategory = "syrup"
	CategoryBitters  IngredientCategory = "bitters"
	CategoryWine     IngredientCategory = "wine"
	CategoryBeer     IngredientCategory = "beer"
	CategoryVermouth IngredientCategory = "vermouth"
	CategoryOther    IngredientCategory = "other"
)

// spiritAliases — категории из исходного набора данных, которые относятся к крепкому алкоголю
var spiritAliases = map[string]struct{}{
	"spirits": {}, "tequila": {}, "whiskey": {}, "whisky": {}, "rum": {}, "gin": {}, "vodka": {},
	"brandy": {}, "mezcal": {}, "cognac": {},
}

// ParseIngredientCategory приводит категорию из источника к перечислению.
func ParseIngredientCategory(s string) IngredientCategory {
	v := strings.ToLower(strings.TrimSpace(s))
	switch c := IngredientCategory(v); c {
	case CategorySpirit, CategoryLiqueur, CategoryJuice, CategorySyrup, CategoryBitters,
		CategoryWine, CategoryBeer, CategoryVermouth:
		return c
	}

	if _, ok := spiritAliases[v]; ok {
		return CategorySpirit
	}

	switch v {
	case "liqueurs", "cordial":
		return CategoryLiqueur
	case "juices", "fruit juice":
		return CategoryJuice
	case "syrups", "sweetener":
		return CategorySyrup
	case "wines", "sparkling wine", "champagne":
		return CategoryWine
	case "beers", "cider":
		return CategoryBeer
	case "fortified wine":
		return CategoryVermouth
	default:
		return CategoryOther
	}
}

// categoryLexicon — словарь вкусовых ассоциаций по категориям, участвует в тексте вкусового профиля
var categoryLexicon = map[IngredientCategory]string{
	CategorySpirit:   "strong, warming, base spirit, alcoholic backbone",
	CategoryLiqueur:  "sweet, aromatic, flavored, smooth",
	CategoryJuice:    "fresh, fruity, tart, bright",
	CategorySyrup:    "sweet, rich, sugary, balancing",
	CategoryBitters:  "bitter, herbal, aromatic, spiced",
	CategoryWine:     "vinous, dry, fruity, acidic",
	CategoryBeer:     "malty, hoppy, effervescent, bready",
	CategoryVermouth: "herbal, botanical, fortified, bittersweet",
	CategoryOther:    "",
}

// Ingredient описывает ингредиент из справочника
type Ingredient struct {
	ID          int64
	ExternalID  string
	Name        string
	Description string
	Origin      string
	Color       string
	Category    IngredientCategory
	Strength    *float64 // крепость, % ABV
	Sugar       *float64 // г сахара на мл
	Acidity     *float64
}

// StrengthBand возвращает текстовую полосу крепости ингредиента.
func (i *Ingredient) StrengthBand() string {
	if i.Strength == nil {
		return "unknown strength"
	}

	switch s := *i.Strength; {
	case s <= 0:
		return "non-alcoholic"
	case s < 15:
		return "low alcohol"
	case s < 30:
		return "medium strength"
	case s < 50:
		return "high proof"
	default:
		return "overproof"
	}
}

// FlavorProfileText формирует текст, по которому внешний загрузчик строит вкусовой эмбеддинг ингредиента.
func (i *Ingredient) FlavorProfileText() string {
	parts := []string{i.Name, fmt.Sprintf("category: %s", i.Category)}
	if d := strings.TrimSpace(i.Description); d != "" {
		parts = append(parts, d)
	}

	parts = append(parts, i.StrengthBand())
	if lexicon := categoryLexicon[i.Category]; lexicon != "" {
		parts = append(parts, "flavor notes: "+lexicon)
	}

	return strings.Join(parts, ". ")
}
