package qdrant

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// EmbeddingRepo читает именованные векторы записей из Qdrant.
// Каждая запись хранится точкой с числовым id, равным id записи; каждое поле хранится именованным вектором.
// Точка без именованного вектора означает, что поле не проэмбеддено.
type EmbeddingRepo struct {
	points      qdrant.PointsClient
	collections map[domain.RecordKind]string
	batch       uint32
}

func NewEmbeddingRepo(points qdrant.PointsClient, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	batch := cfg.ScrollBatch
	if batch == 0 {
		batch = 256
	}

	return &EmbeddingRepo{
		points: points,
		collections: map[domain.RecordKind]string{
			domain.KindCocktail:   cfg.CocktailCollection,
			domain.KindIngredient: cfg.IngredientCollection,
		},
		batch: batch,
	}
}

// GetVector возвращает вектор поля записи или nil, если точки или поля нет.
func (q *EmbeddingRepo) GetVector(ctx context.Context, kind domain.RecordKind, id int64, field domain.EmbeddingField) (domain.Vector, error) {
	collection, err := q.collection(kind)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if id <= 0 {
		return nil, nil
	}

	resp, err := q.points.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(uint64(id))},
		WithVectors:    includeVectors(field),
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), classify(err))
	}

	for _, p := range resp.GetResult() {
		if vec := namedVector(p, field); len(vec) > 0 {
			return vec, nil
		}
	}

	return nil, nil
}

// Scan постранично обходит коллекцию и возвращает векторы поля field.
func (q *EmbeddingRepo) Scan(ctx context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error) {
	collection, err := q.collection(kind)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	limit := q.batch
	var (
		offset *qdrant.PointId
		res    []domain.FieldVector
	)

	for {
		resp, err := q.points.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Offset:         offset,
			Limit:          &limit,
			WithVectors:    includeVectors(field),
			WithPayload:    qdrant.NewWithPayload(false),
		})
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), classify(err))
		}

		for _, p := range resp.GetResult() {
			vec := namedVector(p, field)
			if len(vec) == 0 {
				continue
			}

			res = append(res, domain.FieldVector{
				RecordID: int64(p.GetId().GetNum()),
				Field:    field,
				Vector:   vec,
			})
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			return res, nil
		}
	}
}

func (q *EmbeddingRepo) collection(kind domain.RecordKind) (string, error) {
	name, ok := q.collections[kind]
	if !ok || name == "" {
		return "", fmt.Errorf("no qdrant collection configured for %s", kind)
	}

	return name, nil
}

func includeVectors(field domain.EmbeddingField) *qdrant.WithVectorsSelector {
	return &qdrant.WithVectorsSelector{
		SelectorOptions: &qdrant.WithVectorsSelector_Include{
			Include: &qdrant.VectorsSelector{Names: []string{string(field)}},
		},
	}
}

// namedVector достаёт плотный именованный вектор из точки.
func namedVector(p *qdrant.RetrievedPoint, field domain.EmbeddingField) domain.Vector {
	out, ok := p.GetVectors().GetVectors().GetVectors()[string(field)]
	if !ok || out == nil {
		return nil
	}

	if dense := out.GetDense(); dense != nil && len(dense.GetData()) > 0 {
		return dense.GetData()
	}

	return out.GetData()
}

// classify переводит gRPC-статус в ошибку хранилища; отмена вызывающим сохраняется.
func classify(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Canceled:
		return fmt.Errorf("%w: %s", context.Canceled, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w: %s", e.ErrStorageUnavailable, context.DeadlineExceeded, st.Message())
	default:
		return fmt.Errorf("%w: qdrant %s: %s", e.ErrStorageUnavailable, st.Code(), st.Message())
	}
}
