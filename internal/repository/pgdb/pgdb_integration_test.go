//go:build integration

package pgdb

import (
	"context"
	"testing"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/testinfra"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/DRSN-tech/cocktail-search/pkg/postgres"
	"github.com/DRSN-tech/cocktail-search/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedSQL = `
	INSERT INTO ingredients (id, name, category, strength) VALUES
		(10, 'Tequila', 'spirit', 40),
		(11, 'Lime Juice', 'juice', 0),
		(12, 'Triple Sec', 'liqueur', 30);

	INSERT INTO cocktails (id, name, abv, method, tags) VALUES
		(1, 'Margarita', 20, 'shake', '{tropical,citrus}'),
		(2, 'Margarita 100%_Agave', NULL, 'shaken', '{}'),
		(3, 'Daiquiri', 22, 'shake', '{tropical}');

	INSERT INTO cocktail_ingredients (cocktail_id, sort_order, ingredient_id, amount, unit) VALUES
		(1, 0, 10, 50, 'ml'),
		(1, 1, 12, 25, 'ml'),
		(1, 2, 11, 25, 'ml'),
		(3, 0, 99, 45, 'ml'),
		(3, 1, 11, 25, 'ml');

	INSERT INTO embeddings (kind, record_id, field, vector) VALUES
		('cocktail', 1, 'flavor', '{1,0,0}'),
		('cocktail', 3, 'flavor', '{0.9,0.1,0}'),
		('ingredient', 10, 'flavor', '{0,1,0}');
`

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgCfg := testinfra.StartPostgres(t, "file://../../../db/migrations")

	db, err := postgres.Connect(context.Background(), pgCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.RunMigrations(logger.NewDiscard()))

	_, err = db.Pool.Exec(context.Background(), seedSQL)
	require.NoError(t, err)

	return db.Pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	cocktails := NewCocktailRepo(pool)
	ingredients := NewIngredientRepo(pool)
	embeddings := NewEmbeddingRepo(pool)
	snapshot := NewSnapshotReader(pool)

	t.Run("get by id with ordered recipe", func(t *testing.T) {
		c, err := cocktails.GetByID(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, "Margarita", c.Name)
		require.NotNil(t, c.ABV)
		assert.InDelta(t, 20.0, *c.ABV, 1e-9)
		assert.Equal(t, domain.MethodShake, c.Method)
		assert.Equal(t, []string{"tropical", "citrus"}, c.Tags)
		require.Len(t, c.Ingredients, 3)
		assert.Equal(t, "Tequila", c.Ingredients[0].Ingredient.Name)
		assert.Equal(t, domain.CategoryLiqueur, c.Ingredients[1].Ingredient.Category)
	})

	t.Run("dangling ingredient reference", func(t *testing.T) {
		c, err := cocktails.GetByID(ctx, 3)
		require.NoError(t, err)
		require.Len(t, c.Ingredients, 2)
		assert.False(t, c.Ingredients[0].Known())
		assert.Equal(t, int64(99), c.Ingredients[0].IngredientID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := cocktails.GetByID(ctx, 404)
		assert.ErrorIs(t, err, e.ErrNotFound)
	})

	t.Run("name search is a literal substring", func(t *testing.T) {
		res, err := cocktails.FindByNameLike(ctx, "MARGARITA")
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, int64(1), res[0].ID)

		res, err = cocktails.FindByNameLike(ctx, "100%_")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, int64(2), res[0].ID)
		assert.Nil(t, res[0].ABV)
	})

	t.Run("list and get by ids", func(t *testing.T) {
		all, err := cocktails.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		some, err := cocktails.GetByIDs(ctx, []int64{3, 1, 404})
		require.NoError(t, err)
		require.Len(t, some, 2)
		assert.Equal(t, int64(1), some[0].ID)
		assert.Equal(t, int64(3), some[1].ID)
	})

	t.Run("ingredients", func(t *testing.T) {
		res, err := ingredients.GetByIDs(ctx, []int64{11, 10})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "Tequila", res[0].Name)
		require.NotNil(t, res[0].Strength)
		assert.InDelta(t, 40.0, *res[0].Strength, 1e-9)
	})

	t.Run("embeddings", func(t *testing.T) {
		vec, err := embeddings.GetVector(ctx, domain.KindCocktail, 1, domain.FieldFlavor)
		require.NoError(t, err)
		assert.Equal(t, domain.Vector{1, 0, 0}, vec)

		vec, err = embeddings.GetVector(ctx, domain.KindCocktail, 2, domain.FieldFlavor)
		require.NoError(t, err)
		assert.Nil(t, vec)

		scan, err := embeddings.Scan(ctx, domain.KindCocktail, domain.FieldFlavor)
		require.NoError(t, err)
		require.Len(t, scan, 2)
		assert.Equal(t, int64(1), scan[0].RecordID)
		assert.Equal(t, int64(3), scan[1].RecordID)
	})

	t.Run("snapshot reader", func(t *testing.T) {
		var names []string
		err := snapshot.ReadSnapshot(ctx, func(ctx context.Context) error {
			all, err := cocktails.List(ctx)
			if err != nil {
				return err
			}
			for _, c := range all {
				names = append(names, c.Name)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, names, 3)

		stat := pool.Stat()
		assert.Zero(t, stat.AcquiredConns())
	})

	t.Run("snapshot is read only", func(t *testing.T) {
		err := snapshot.ReadSnapshot(ctx, func(ctx context.Context) error {
			tx, ok := tr.TxFromCtx(ctx)
			require.True(t, ok)

			_, err := tx.Exec(ctx, `DELETE FROM cocktails WHERE id = 1`)
			return err
		})
		require.Error(t, err)

		_, err = cocktails.GetByID(ctx, 1)
		require.NoError(t, err)
	})
}
