package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// EmbeddingRepo хранит именованные векторы в колонке real[] таблицы embeddings.
type EmbeddingRepo struct {
	pool *pgxpool.Pool
}

func NewEmbeddingRepo(pool *pgxpool.Pool) *EmbeddingRepo {
	return &EmbeddingRepo{pool: pool}
}

// GetVector возвращает вектор поля записи или nil, если поле не проэмбеддено.
func (r *EmbeddingRepo) GetVector(ctx context.Context, kind domain.RecordKind, id int64, field domain.EmbeddingField) (domain.Vector, error) {
	query := `SELECT vector FROM embeddings WHERE kind = $1 AND field = $2 AND record_id = $3`

	var vec []float32
	err := tr.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, string(kind), string(field), id).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return vec, nil
}

// Scan возвращает векторы поля field всех записей типа kind по возрастанию id.
func (r *EmbeddingRepo) Scan(ctx context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error) {
	query := `
		SELECT record_id, vector
		FROM embeddings
		WHERE kind = $1 AND field = $2
		ORDER BY record_id
	`

	rows, err := tr.QuerierFromCtx(ctx, r.pool).Query(ctx, query, string(kind), string(field))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.EmbeddingModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.FieldVector, 0, len(models))
	for _, m := range models {
		res = append(res, domain.FieldVector{RecordID: m.RecordID, Field: field, Vector: m.Vector})
	}

	return res, nil
}
