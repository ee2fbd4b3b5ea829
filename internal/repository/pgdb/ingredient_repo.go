package pgdb

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// IngredientRepo реализует чтение справочника ингредиентов поверх PostgreSQL.
type IngredientRepo struct {
	pool *pgxpool.Pool
}

func NewIngredientRepo(pool *pgxpool.Pool) *IngredientRepo {
	return &IngredientRepo{pool: pool}
}

// GetByIDs возвращает найденные ингредиенты по возрастанию id.
func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	if len(ids) == 0 {
		return []domain.Ingredient{}, nil
	}

	query := `
		SELECT
			id, external_id, name, description, origin, color, category,
			strength::float8 AS strength, sugar::float8 AS sugar, acidity::float8 AS acidity
		FROM ingredients
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := tr.QuerierFromCtx(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.IngredientModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.Ingredient, 0, len(models))
	for i := range models {
		res = append(res, converter.IngredientToEntity(&models[i]))
	}

	return res, nil
}
