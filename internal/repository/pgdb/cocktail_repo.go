package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const cocktailColumns = `
	c.id, c.external_id, c.name, c.description, c.instructions, c.garnish, c.source,
	c.abv::float8 AS abv, c.method, c.glass, c.tags, c.utensils, c.created_at, c.updated_at`

const recipeQuery = `
	SELECT
		ci.cocktail_id, ci.sort_order, ci.ingredient_id, ci.amount::float8 AS amount, ci.unit, ci.optional, ci.note,
		i.id AS ref_id, i.external_id AS ref_external_id, i.name AS ref_name, i.description AS ref_description,
		i.origin AS ref_origin, i.color AS ref_color, i.category AS ref_category,
		i.strength::float8 AS ref_strength, i.sugar::float8 AS ref_sugar, i.acidity::float8 AS ref_acidity
	FROM cocktail_ingredients ci
	LEFT JOIN ingredients i ON i.id = ci.ingredient_id
	WHERE ci.cocktail_id = ANY($1)
	ORDER BY ci.cocktail_id, ci.sort_order
`

// CocktailRepo реализует чтение коктейлей поверх PostgreSQL.
// Внутри SnapshotReader запросы выполняются в транзакции из контекста, иначе на пуле.
type CocktailRepo struct {
	pool *pgxpool.Pool
}

func NewCocktailRepo(pool *pgxpool.Pool) *CocktailRepo {
	return &CocktailRepo{pool: pool}
}

// GetByID возвращает коктейль с рецептом; для отсутствующего id ErrCocktailNotFound.
func (r *CocktailRepo) GetByID(ctx context.Context, id int64) (*domain.Cocktail, error) {
	cocktails, err := r.query(ctx, `SELECT `+cocktailColumns+` FROM cocktails c WHERE c.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(cocktails) == 0 {
		return nil, fmt.Errorf("%w: id=%d", e.ErrCocktailNotFound, id)
	}

	return &cocktails[0], nil
}

// GetByIDs возвращает найденные коктейли по возрастанию id; отсутствующие id пропускаются.
func (r *CocktailRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Cocktail, error) {
	if len(ids) == 0 {
		return []domain.Cocktail{}, nil
	}

	cocktails, err := r.query(ctx, `SELECT `+cocktailColumns+` FROM cocktails c WHERE c.id = ANY($1) ORDER BY c.id`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cocktails, nil
}

// FindByNameLike ищет коктейли, имя которых содержит name без учёта регистра.
func (r *CocktailRepo) FindByNameLike(ctx context.Context, name string) ([]domain.Cocktail, error) {
	query := `SELECT ` + cocktailColumns + `
		FROM cocktails c
		WHERE c.name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY c.id`

	cocktails, err := r.query(ctx, query, escapeLike(strings.TrimSpace(name)))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cocktails, nil
}

// List возвращает все коктейли по возрастанию id.
func (r *CocktailRepo) List(ctx context.Context) ([]domain.Cocktail, error) {
	cocktails, err := r.query(ctx, `SELECT `+cocktailColumns+` FROM cocktails c ORDER BY c.id`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cocktails, nil
}

func (r *CocktailRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// query выполняет выборку коктейлей и догружает их рецепты одним запросом.
func (r *CocktailRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Cocktail, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CocktailModel])
	if err != nil {
		return nil, err
	}

	if len(models) == 0 {
		return []domain.Cocktail{}, nil
	}

	ids := make([]int64, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}

	rows, err = q.Query(ctx, recipeQuery, ids)
	if err != nil {
		return nil, err
	}

	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.RecipeLineModel])
	if err != nil {
		return nil, err
	}

	byCocktail := make(map[int64][]converter.RecipeLineModel, len(models))
	for _, line := range lines {
		byCocktail[line.CocktailID] = append(byCocktail[line.CocktailID], line)
	}

	cocktails := make([]domain.Cocktail, 0, len(models))
	for i := range models {
		cocktails = append(cocktails, converter.CocktailToEntity(&models[i], byCocktail[models[i].ID]))
	}

	return cocktails, nil
}

// escapeLike экранирует спецсимволы шаблона LIKE, чтобы имя сравнивалось как подстрока.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
