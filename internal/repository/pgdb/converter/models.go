package converter

import "time"

// CocktailModel представляет запись таблицы cocktails в PostgreSQL.
type CocktailModel struct {
	ID           int64      `db:"id"`
	ExternalID   *string    `db:"external_id"`
	Name         string     `db:"name"`
	Description  *string    `db:"description"`
	Instructions *string    `db:"instructions"`
	Garnish      *string    `db:"garnish"`
	Source       *string    `db:"source"`
	ABV          *float64   `db:"abv"`
	Method       string     `db:"method"`
	Glass        *string    `db:"glass"`
	Tags         []string   `db:"tags"`
	Utensils     []string   `db:"utensils"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// IngredientModel представляет запись таблицы ingredients в PostgreSQL.
type IngredientModel struct {
	ID          int64    `db:"id"`
	ExternalID  *string  `db:"external_id"`
	Name        string   `db:"name"`
	Description *string  `db:"description"`
	Origin      *string  `db:"origin"`
	Color       *string  `db:"color"`
	Category    string   `db:"category"`
	Strength    *float64 `db:"strength"`
	Sugar       *float64 `db:"sugar"`
	Acidity     *float64 `db:"acidity"`
}

// RecipeLineModel — строка cocktail_ingredients, соединённая со справочником ингредиентов.
// Поля ингредиента равны NULL, если ссылка висячая.
type RecipeLineModel struct {
	CocktailID   int64    `db:"cocktail_id"`
	SortOrder    int      `db:"sort_order"`
	IngredientID int64    `db:"ingredient_id"`
	Amount       *float64 `db:"amount"`
	Unit         *string  `db:"unit"`
	Optional     bool     `db:"optional"`
	Note         *string  `db:"note"`

	RefID          *int64   `db:"ref_id"`
	RefExternalID  *string  `db:"ref_external_id"`
	RefName        *string  `db:"ref_name"`
	RefDescription *string  `db:"ref_description"`
	RefOrigin      *string  `db:"ref_origin"`
	RefColor       *string  `db:"ref_color"`
	RefCategory    *string  `db:"ref_category"`
	RefStrength    *float64 `db:"ref_strength"`
	RefSugar       *float64 `db:"ref_sugar"`
	RefAcidity     *float64 `db:"ref_acidity"`
}

// EmbeddingModel — строка таблицы embeddings.
type EmbeddingModel struct {
	RecordID int64     `db:"record_id"`
	Vector   []float32 `db:"vector"`
}
