package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/metrics"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
)

// Имена операций: метки метрик и префиксы ключей кэша
const (
	OpSimilar     = "similar"
	OpFreeText    = "free_text"
	OpPreferences = "preferences"
	OpIngredients = "ingredients"
	OpRecommend   = "recommend"
	OpDetails     = "details"
)

// SearchUseCase реализует поисковые запросы над снимком хранилища.
// Состояния между вызовами не хранит, безопасен для конкурентного использования.
type SearchUseCase struct {
	cocktailRepo   CocktailRepository
	ingredientRepo IngredientRepository
	embeddingRepo  EmbeddingRepository
	snapshot       SnapshotReader
	embedder       Embedder
	cache          QueryCache
	logger         logger.Logger
	storageTimeout time.Duration
}

func NewSearchUC(
	cocktailRepo CocktailRepository,
	ingredientRepo IngredientRepository,
	embeddingRepo EmbeddingRepository,
	snapshot SnapshotReader,
	embedder Embedder,
	cache QueryCache,
	logger logger.Logger,
	storageTimeout time.Duration,
) *SearchUseCase {
	if cache == nil {
		cache = NopQueryCache{}
	}

	return &SearchUseCase{
		cocktailRepo:   cocktailRepo,
		ingredientRepo: ingredientRepo,
		embeddingRepo:  embeddingRepo,
		snapshot:       snapshot,
		embedder:       embedder,
		cache:          cache,
		logger:         logger,
		storageTimeout: storageTimeout,
	}
}

// FindSimilarByAnchor ищет коктейли, похожие на якорный по указанному векторному полю.
func (s *SearchUseCase) FindSimilarByAnchor(ctx context.Context, req *FindSimilarReq) (res []domain.CocktailMatch, err error) {
	const op = "SearchUseCase.FindSimilarByAnchor"
	defer s.observe(OpSimilar, time.Now(), &res, &err)

	q := *req
	if err = q.normalize(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cached(ctx, OpSimilar, q, &res) {
		return res, nil
	}

	err = s.read(ctx, func(ctx context.Context) error {
		anchor, err := s.resolveAnchor(ctx, q.AnchorName)
		if err != nil {
			return err
		}

		query, err := s.anchorVector(ctx, anchor.ID, q.Field)
		if err != nil {
			return err
		}

		res, err = s.rankCocktails(ctx, query, q.Field, map[int64]struct{}{anchor.ID: {}}, q.MinSimilarity, q.MaxResults)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpSimilar, q, res)

	return res, nil
}

// FindByFreeText ищет коктейли по произвольному тексту, вектор запроса строит внешний эмбеддер.
func (s *SearchUseCase) FindByFreeText(ctx context.Context, req *FreeTextReq) (res []domain.CocktailMatch, err error) {
	const op = "SearchUseCase.FindByFreeText"
	defer s.observe(OpFreeText, time.Now(), &res, &err)

	q := *req
	if err = q.normalize(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cached(ctx, OpFreeText, q, &res) {
		return res, nil
	}

	query, err := s.embed(ctx, q.Text)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = s.read(ctx, func(ctx context.Context) error {
		res, err = s.rankCocktails(ctx, query, q.Field, nil, q.MinSimilarity, q.MaxResults)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpFreeText, q, res)

	return res, nil
}

// FindByPreferences фильтрует коктейли по крепости, исключённым категориям и обязательным тегам.
func (s *SearchUseCase) FindByPreferences(ctx context.Context, req *PreferencesReq) (res []domain.Cocktail, err error) {
	const op = "SearchUseCase.FindByPreferences"
	defer s.observe(OpPreferences, time.Now(), &res, &err)

	q := *req
	if err = q.normalize(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cached(ctx, OpPreferences, q, &res) {
		return res, nil
	}

	err = s.read(ctx, func(ctx context.Context) error {
		cocktails, err := callStorage(ctx, s.storageTimeout, "list cocktails", s.cocktailRepo.List)
		if err != nil {
			return err
		}

		res = filterByPreferences(cocktails, &q)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpPreferences, q, res)

	return res, nil
}

// FindByIngredients ранжирует коктейли по доле совпавших ингредиентов.
func (s *SearchUseCase) FindByIngredients(ctx context.Context, req *IngredientsReq) (res []domain.IngredientOverlapMatch, err error) {
	const op = "SearchUseCase.FindByIngredients"
	defer s.observe(OpIngredients, time.Now(), &res, &err)

	q := *req
	if err = q.normalize(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cached(ctx, OpIngredients, q, &res) {
		return res, nil
	}

	err = s.read(ctx, func(ctx context.Context) error {
		cocktails, err := callStorage(ctx, s.storageTimeout, "list cocktails", s.cocktailRepo.List)
		if err != nil {
			return err
		}

		res = rankByOverlap(cocktails, q.Names, q.MinMatchFraction, q.MaxResults)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpIngredients, q, res)

	return res, nil
}

// RecommendIngredients подбирает ингредиенты, близкие по вкусовому профилю к якорному коктейлю.
// Ингредиенты, уже входящие в рецепт, не предлагаются.
func (s *SearchUseCase) RecommendIngredients(ctx context.Context, req *RecommendReq) (res []domain.IngredientMatch, err error) {
	const op = "SearchUseCase.RecommendIngredients"
	defer s.observe(OpRecommend, time.Now(), &res, &err)

	q := *req
	if err = q.normalize(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if s.cached(ctx, OpRecommend, q, &res) {
		return res, nil
	}

	err = s.read(ctx, func(ctx context.Context) error {
		anchor, err := s.resolveAnchor(ctx, q.AnchorName)
		if err != nil {
			return err
		}

		query, err := s.anchorVector(ctx, anchor.ID, domain.FieldFlavor)
		if err != nil {
			return err
		}

		candidates, err := callStorage(ctx, s.storageTimeout, "scan ingredient vectors",
			func(ctx context.Context) ([]domain.FieldVector, error) {
				return s.embeddingRepo.Scan(ctx, domain.KindIngredient, domain.FieldFlavor)
			})
		if err != nil {
			return err
		}

		ranked := rankCandidates(query, candidates, anchor.IngredientIDs(), 0, 0)
		metrics.RecordSkippedCandidates(string(domain.KindIngredient), string(domain.FieldFlavor), ranked.Skipped)

		res = make([]domain.IngredientMatch, 0, min(q.MaxResults, len(ranked.Items)))
		return hydrateRanked(ranked.Items, q.MaxResults,
			func(ids []int64) ([]domain.Ingredient, error) {
				return callStorage(ctx, s.storageTimeout, "get ingredients",
					func(ctx context.Context) ([]domain.Ingredient, error) {
						return s.ingredientRepo.GetByIDs(ctx, ids)
					})
			},
			func(ing domain.Ingredient) int64 { return ing.ID },
			func(ing domain.Ingredient, score float64) {
				res = append(res, domain.IngredientMatch{Ingredient: ing, Score: score})
			},
		)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpRecommend, q, res)

	return res, nil
}

// GetCocktailDetails возвращает коктейль с упорядоченным списком ингредиентов.
func (s *SearchUseCase) GetCocktailDetails(ctx context.Context, id int64) (res *domain.Cocktail, err error) {
	const op = "SearchUseCase.GetCocktailDetails"
	defer s.observe(OpDetails, time.Now(), &res, &err)

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var cached domain.Cocktail
	if s.cached(ctx, OpDetails, id, &cached) {
		return &cached, nil
	}

	err = s.read(ctx, func(ctx context.Context) error {
		res, err = callStorage(ctx, s.storageTimeout, "get cocktail",
			func(ctx context.Context) (*domain.Cocktail, error) {
				return s.cocktailRepo.GetByID(ctx, id)
			})
		if err == nil && res == nil {
			err = fmt.Errorf("%w: id=%d", e.ErrCocktailNotFound, id)
		}
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.store(ctx, OpDetails, id, res)

	return res, nil
}

// Health проверяет доступность хранилища записей.
func (s *SearchUseCase) Health(ctx context.Context) error {
	const op = "SearchUseCase.Health"

	_, err := callStorage(ctx, s.storageTimeout, "ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.cocktailRepo.Ping(ctx)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// InvalidateCache сбрасывает кэш запросов после изменения данных.
func (s *SearchUseCase) InvalidateCache(ctx context.Context) error {
	const op = "SearchUseCase.InvalidateCache"

	if err := s.cache.Invalidate(ctx); err != nil {
		metrics.RecordCacheError("invalidate")
		return e.Wrap(op, err)
	}

	return nil
}

// read выполняет fn над одним согласованным снимком хранилища.
func (s *SearchUseCase) read(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.Storage("read snapshot", s.snapshot.ReadSnapshot(ctx, fn))
}

// resolveAnchor находит якорный коктейль по имени.
func (s *SearchUseCase) resolveAnchor(ctx context.Context, name string) (*domain.Cocktail, error) {
	candidates, err := callStorage(ctx, s.storageTimeout, "find cocktails by name",
		func(ctx context.Context) ([]domain.Cocktail, error) {
			return s.cocktailRepo.FindByNameLike(ctx, name)
		})
	if err != nil {
		return nil, err
	}

	anchor, ok := pickAnchor(name, candidates)
	if !ok {
		return nil, fmt.Errorf("%w: %q", e.ErrCocktailNotFound, name)
	}

	if len(candidates) > 1 {
		s.logger.Debugf("Anchor %q is ambiguous, %d candidates, picked id=%d", name, len(candidates), anchor.ID)
	}

	return anchor, nil
}

// anchorVector возвращает вектор якоря; без поля возвращает ErrAnchorNotEmbedded.
func (s *SearchUseCase) anchorVector(ctx context.Context, id int64, field domain.EmbeddingField) (domain.Vector, error) {
	vec, err := callStorage(ctx, s.storageTimeout, "get anchor vector",
		func(ctx context.Context) (domain.Vector, error) {
			return s.embeddingRepo.GetVector(ctx, domain.KindCocktail, id, field)
		})
	if err != nil {
		return nil, err
	}

	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: id=%d field=%s", e.ErrAnchorNotEmbedded, id, field)
	}

	return vec, nil
}

// rankCocktails ранжирует коктейли с вектором поля field относительно query и подгружает записи в порядке ранга.
func (s *SearchUseCase) rankCocktails(
	ctx context.Context,
	query domain.Vector,
	field domain.EmbeddingField,
	exclude map[int64]struct{},
	minScore float64,
	limit int,
) ([]domain.CocktailMatch, error) {
	candidates, err := callStorage(ctx, s.storageTimeout, "scan cocktail vectors",
		func(ctx context.Context) ([]domain.FieldVector, error) {
			return s.embeddingRepo.Scan(ctx, domain.KindCocktail, field)
		})
	if err != nil {
		return nil, err
	}

	ranked := rankCandidates(query, candidates, exclude, minScore, 0)
	if ranked.Skipped > 0 {
		metrics.RecordSkippedCandidates(string(domain.KindCocktail), string(field), ranked.Skipped)
		s.logger.Debugf("Skipped %d incomparable %s vectors", ranked.Skipped, field)
	}

	res := make([]domain.CocktailMatch, 0, min(limit, len(ranked.Items)))
	err = hydrateRanked(ranked.Items, limit,
		func(ids []int64) ([]domain.Cocktail, error) {
			return callStorage(ctx, s.storageTimeout, "get cocktails",
				func(ctx context.Context) ([]domain.Cocktail, error) {
					return s.cocktailRepo.GetByIDs(ctx, ids)
				})
		},
		func(c domain.Cocktail) int64 { return c.ID },
		func(c domain.Cocktail, score float64) {
			res = append(res, domain.CocktailMatch{Cocktail: c, Score: score})
		},
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// hydrateRanked подгружает записи в порядке ранга пачками по limit и передаёт их в emit, пока не наберётся limit.
// Векторы без записи (запись удалена или ещё не загружена) пропускаются и не занимают место в выдаче.
func hydrateRanked[T any](
	items []scoredID,
	limit int,
	fetch func(ids []int64) ([]T, error),
	idOf func(T) int64,
	emit func(T, float64),
) error {
	found := 0
	for start := 0; start < len(items) && found < limit; start += limit {
		batch := items[start:min(start+limit, len(items))]

		records, err := fetch(idsOf(batch))
		if err != nil {
			return err
		}

		byID := make(map[int64]T, len(records))
		for _, rec := range records {
			byID[idOf(rec)] = rec
		}

		for _, item := range batch {
			rec, ok := byID[item.ID]
			if !ok {
				continue
			}

			emit(rec, item.Score)
			if found++; found == limit {
				break
			}
		}
	}

	return nil
}

// embed строит вектор запроса. Любой сбой эмбеддера, включая истёкший дедлайн, даёт ErrEmbeddingUnavailable;
// отмена вызывающей стороной пробрасывается как есть.
func (s *SearchUseCase) embed(ctx context.Context, text string) (domain.Vector, error) {
	if s.embedder == nil {
		return nil, e.ErrEmbedderDisabled
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}

		if errors.Is(err, e.ErrEmbeddingUnavailable) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", e.ErrEmbeddingUnavailable, err)
	}

	if len(vec) == 0 {
		return nil, e.ErrEmptyVector
	}

	return vec, nil
}

// cached читает результат из кэша. Ошибки кэша не прерывают запрос.
func (s *SearchUseCase) cached(ctx context.Context, op string, args any, dst any) bool {
	hit, err := s.cache.Get(ctx, op, args, dst)
	if err != nil {
		metrics.RecordCacheError("get")
		s.logger.Warnf("Failed to read query cache, op=%s: %v", op, err)
		return false
	}

	metrics.RecordCacheLookup(op, hit)

	return hit
}

func (s *SearchUseCase) store(ctx context.Context, op string, args any, value any) {
	if err := s.cache.Set(ctx, op, args, value); err != nil {
		metrics.RecordCacheError("set")
		s.logger.Warnf("Failed to write query cache, op=%s: %v", op, err)
	}
}

// observe фиксирует метрики запроса по именованным результатам вызывающего метода.
func (s *SearchUseCase) observe(op string, start time.Time, res any, err *error) {
	metrics.RecordSearchQuery(op, time.Since(start), resultSize(res), *err)

	if *err != nil && !errors.Is(*err, e.ErrNotFound) && !errors.Is(*err, e.ErrInvalidArgument) {
		s.logger.Errorf(*err, "Search query failed, op=%s", op)
	}
}

func resultSize(res any) int {
	switch v := res.(type) {
	case *[]domain.CocktailMatch:
		return len(*v)
	case *[]domain.Cocktail:
		return len(*v)
	case *[]domain.IngredientOverlapMatch:
		return len(*v)
	case *[]domain.IngredientMatch:
		return len(*v)
	case **domain.Cocktail:
		if *v != nil {
			return 1
		}
	}

	return 0
}
