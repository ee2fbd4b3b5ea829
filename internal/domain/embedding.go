package domain

import (
	"math"
	"strings"
)

// RecordKind — тип записи, к которой относится эмбеддинг
type RecordKind string

const (
	KindCocktail   RecordKind = "cocktail"
	KindIngredient RecordKind = "ingredient"
)

// EmbeddingField — имя векторного поля записи
type EmbeddingField string

const (
	FieldDescription EmbeddingField = "description"
	FieldFlavor      EmbeddingField = "flavor"
	FieldMethod      EmbeddingField = "method"
	FieldIngredients EmbeddingField = "ingredients"
	FieldTags        EmbeddingField = "tags"
	FieldCategory    EmbeddingField = "category"
)

var fieldsByKind = map[RecordKind][]EmbeddingField{
	KindCocktail:   {FieldDescription, FieldFlavor, FieldMethod, FieldIngredients, FieldTags},
	KindIngredient: {FieldDescription, FieldFlavor, FieldCategory},
}

// Fields возвращает допустимые векторные поля для типа записи.
func Fields(kind RecordKind) []EmbeddingField {
	return fieldsByKind[kind]
}

// ParseField проверяет имя поля для указанного типа записи.
func ParseField(kind RecordKind, s string) (EmbeddingField, bool) {
	f := EmbeddingField(strings.ToLower(strings.TrimSpace(s)))
	for _, allowed := range fieldsByKind[kind] {
		if f == allowed {
			return f, true
		}
	}

	return "", false
}

// Vector — эмбеддинг фиксированной размерности
type Vector []float32

// Dim возвращает размерность вектора.
func (v Vector) Dim() int {
	return len(v)
}

// Norm возвращает евклидову норму вектора.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	return math.Sqrt(sum)
}

// FieldVector — вектор конкретного поля конкретной записи
type FieldVector struct {
	RecordID int64
	Field    EmbeddingField
	Vector   Vector
}
