package minio

import (
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/repository/minio/converter"
	json "github.com/goccy/go-json"
)

// SnapshotData — содержимое снапшота перед сериализацией
type SnapshotData struct {
	Cocktails   []domain.Cocktail
	Ingredients []domain.Ingredient
	Vectors     map[domain.RecordKind][]domain.FieldVector
}

// EncodeSnapshot сериализует записи и эмбеддинги в формат, который читает SnapshotRepo.
func EncodeSnapshot(data *SnapshotData, generatedAt time.Time) ([]byte, error) {
	model := converter.SnapshotModel{
		Version:     converter.SnapshotVersion,
		GeneratedAt: generatedAt.UTC(),
		Cocktails:   make([]converter.CocktailModel, 0, len(data.Cocktails)),
		Ingredients: make([]converter.IngredientModel, 0, len(data.Ingredients)),
		Embeddings:  make([]converter.EmbeddingModel, 0),
	}

	for i := range data.Cocktails {
		model.Cocktails = append(model.Cocktails, converter.CocktailToModel(&data.Cocktails[i]))
	}

	for i := range data.Ingredients {
		model.Ingredients = append(model.Ingredients, converter.IngredientToModel(&data.Ingredients[i]))
	}

	for _, kind := range []domain.RecordKind{domain.KindCocktail, domain.KindIngredient} {
		for i := range data.Vectors[kind] {
			model.Embeddings = append(model.Embeddings, converter.EmbeddingToModel(kind, &data.Vectors[kind][i]))
		}
	}

	return json.Marshal(model)
}
