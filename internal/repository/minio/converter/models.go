package converter

import "time"

// SnapshotVersion — версия формата JSON-снапшота
const SnapshotVersion = 1

// SnapshotModel — JSON-объект со всеми записями и эмбеддингами, который публикует загрузчик.
type SnapshotModel struct {
	Version     int               `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Cocktails   []CocktailModel   `json:"cocktails"`
	Ingredients []IngredientModel `json:"ingredients"`
	Embeddings  []EmbeddingModel  `json:"embeddings"`
}

type CocktailModel struct {
	ID           int64             `json:"id"`
	ExternalID   string            `json:"external_id,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	Garnish      string            `json:"garnish,omitempty"`
	Source       string            `json:"source,omitempty"`
	ABV          *float64          `json:"abv"`
	Method       string            `json:"method,omitempty"`
	Glass        string            `json:"glass,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Utensils     []string          `json:"utensils,omitempty"`
	Ingredients  []RecipeLineModel `json:"ingredients"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}

type RecipeLineModel struct {
	IngredientID int64    `json:"ingredient_id"`
	Amount       *float64 `json:"amount,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Optional     bool     `json:"optional,omitempty"`
	Note         string   `json:"note,omitempty"`
	SortOrder    int      `json:"sort_order"`
}

type IngredientModel struct {
	ID          int64    `json:"id"`
	ExternalID  string   `json:"external_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Color       string   `json:"color,omitempty"`
	Category    string   `json:"category"`
	Strength    *float64 `json:"strength,omitempty"`
	Sugar       *float64 `json:"sugar,omitempty"`
	Acidity     *float64 `json:"acidity,omitempty"`
}

type EmbeddingModel struct {
	Kind     string    `json:"kind"`
	RecordID int64     `json:"record_id"`
	Field    string    `json:"field"`
	Vector   []float32 `json:"vector"`
}
