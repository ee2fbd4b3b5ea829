package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type SearchHandler struct {
	searchUsecase usecase.SearchUC
	logger        logger.Logger
}

func NewSearchHandler(searchUsecase usecase.SearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase, logger: logger}
}

// similarityQuery — общие параметры векторного поиска
type similarityQuery struct {
	Field      string  `query:"field" validate:"omitempty,oneof=description flavor method ingredients tags"`
	MaxResults int     `query:"max_results" validate:"min=1,max=50"`
	Threshold  float64 `query:"threshold" validate:"min=0,max=1"`
}

type overlapQuery struct {
	MaxResults int     `query:"max_results" validate:"min=1,max=50"`
	Threshold  float64 `query:"threshold" validate:"min=0,max=1"`
}

type limitQuery struct {
	MaxResults int `query:"max_results" validate:"min=1,max=50"`
}

func parseSimilarityQuery(r *http.Request, defMax int, defThreshold float64) (*similarityQuery, error) {
	maxResults, err := queryInt(r, "max_results", defMax)
	if err != nil {
		return nil, err
	}

	threshold, err := queryFloat(r, "threshold", defThreshold)
	if err != nil {
		return nil, err
	}

	q := &similarityQuery{
		Field:      strings.ToLower(strings.TrimSpace(r.URL.Query().Get("field"))),
		MaxResults: maxResults,
		Threshold:  threshold,
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	if q.Field == "" {
		q.Field = string(usecase.DefaultField)
	}

	return q, nil
}

func parseLimit(r *http.Request, def int) (int, error) {
	maxResults, err := queryInt(r, "max_results", def)
	if err != nil {
		return 0, err
	}

	if err := validateQuery(&limitQuery{MaxResults: maxResults}); err != nil {
		return 0, err
	}

	return maxResults, nil
}

// findSimilar
//
//	@Summary		Похожие коктейли
//	@Description	Ищет коктейли, похожие на указанный, по векторному полю
//	@Tags			cocktails
//	@Produce		json
//	@Param			name		path		string	true	"Название коктейля"
//	@Param			field		query		string	false	"Векторное поле"	Enums(description, flavor, method, ingredients, tags)	default(flavor)
//	@Param			max_results	query		int		false	"Максимум результатов"	default(10)	maximum(50)
//	@Param			threshold	query		number	false	"Минимальное сходство"	default(0.6)
//	@Success		200			{array}		SimilarCocktailResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/cocktails/similar/{name} [get]
func (h *SearchHandler) findSimilar(w http.ResponseWriter, r *http.Request) {
	q, err := parseSimilarityQuery(r, usecase.DefaultSimilarMaxResults, usecase.DefaultSimilarThreshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	matches, err := h.searchUsecase.FindSimilarByAnchor(r.Context(),
		usecase.NewFindSimilarReq(name, domain.EmbeddingField(q.Field), q.MaxResults, q.Threshold))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSimilarResponse(matches))
}

// searchByFlavor
//
//	@Summary		Поиск по описанию вкуса
//	@Description	Векторизует текстовое описание и ищет ближайшие коктейли
//	@Tags			cocktails
//	@Produce		json
//	@Param			description	query		string	true	"Описание вкуса"
//	@Param			field		query		string	false	"Векторное поле"	Enums(description, flavor, method, ingredients, tags)	default(flavor)
//	@Param			max_results	query		int		false	"Максимум результатов"	default(10)	maximum(50)
//	@Param			threshold	query		number	false	"Минимальное сходство"	default(0.5)
//	@Success		200			{array}		SimilarCocktailResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/cocktails/search/flavor [get]
func (h *SearchHandler) searchByFlavor(w http.ResponseWriter, r *http.Request) {
	q, err := parseSimilarityQuery(r, usecase.DefaultFreeTextMaxResults, usecase.DefaultFreeTextThreshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	text := r.URL.Query().Get("description")
	matches, err := h.searchUsecase.FindByFreeText(r.Context(),
		usecase.NewFreeTextReq(text, domain.EmbeddingField(q.Field), q.MaxResults, q.Threshold))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSimilarResponse(matches))
}

// searchByIngredients
//
//	@Summary		Поиск по ингредиентам
//	@Description	Ищет коктейли, в рецепте которых есть указанные ингредиенты
//	@Tags			cocktails
//	@Produce		json
//	@Param			ingredients	query		string	true	"Ингредиенты через запятую"
//	@Param			max_results	query		int		false	"Максимум результатов"	default(15)	maximum(50)
//	@Param			threshold	query		number	false	"Минимальная доля совпавших ингредиентов"	default(0.3)
//	@Success		200			{array}		IngredientOverlapResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/cocktails/search/ingredients [get]
func (h *SearchHandler) searchByIngredients(w http.ResponseWriter, r *http.Request) {
	maxResults, err := queryInt(r, "max_results", usecase.DefaultIngredientsMaxResults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	threshold, err := queryFloat(r, "threshold", usecase.DefaultIngredientsThreshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := validateQuery(&overlapQuery{MaxResults: maxResults, Threshold: threshold}); err != nil {
		h.fail(w, r, err)
		return
	}

	names := queryList(r, "ingredients")
	matches, err := h.searchUsecase.FindByIngredients(r.Context(),
		usecase.NewIngredientsReq(names, threshold, maxResults))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOverlapResponse(matches))
}

// searchByPreferences
//
//	@Summary		Поиск по предпочтениям
//	@Description	Фильтрует коктейли по крепости, исключённым категориям и обязательным тегам
//	@Tags			cocktails
//	@Produce		json
//	@Param			abv_min				query		number	false	"Минимальная крепость"	default(0)
//	@Param			abv_max				query		number	false	"Максимальная крепость"	default(50)
//	@Param			excluded_categories	query		string	false	"Исключённые категории через запятую"
//	@Param			required_tags		query		string	false	"Обязательные теги через запятую"
//	@Param			max_results			query		int		false	"Максимум результатов"	default(15)	maximum(50)
//	@Success		200					{array}		CocktailResponse
//	@Failure		400					{object}	ErrorResponse
//	@Failure		503					{object}	ErrorResponse
//	@Router			/cocktails/search/preferences [get]
func (h *SearchHandler) searchByPreferences(w http.ResponseWriter, r *http.Request) {
	abvMin, err := parseABV(r, "abv_min", usecase.DefaultPreferencesABVMin)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	abvMax, err := parseABV(r, "abv_max", usecase.DefaultPreferencesABVMax)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	maxResults, err := parseLimit(r, usecase.DefaultPreferencesMaxResults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cocktails, err := h.searchUsecase.FindByPreferences(r.Context(), usecase.NewPreferencesReq(
		abvMin,
		abvMax,
		queryList(r, "excluded_categories"),
		queryList(r, "required_tags"),
		maxResults,
	))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCocktailsResponse(cocktails))
}

// recommendIngredients
//
//	@Summary		Рекомендации ингредиентов
//	@Description	Подбирает ингредиенты, близкие по вкусу к коктейлю и отсутствующие в его рецепте
//	@Tags			cocktails
//	@Produce		json
//	@Param			cocktail	path		string	true	"Название коктейля"
//	@Param			max_results	query		int		false	"Максимум результатов"	default(10)	maximum(50)
//	@Success		200			{array}		IngredientRecommendationResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/cocktails/{cocktail}/recommendations [get]
func (h *SearchHandler) recommendIngredients(w http.ResponseWriter, r *http.Request) {
	maxResults, err := parseLimit(r, usecase.DefaultRecommendMaxResults)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	name := chi.URLParam(r, "cocktail")
	matches, err := h.searchUsecase.RecommendIngredients(r.Context(), usecase.NewRecommendReq(name, maxResults))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendationsResponse(matches))
}

// cocktailDetails
//
//	@Summary		Карточка коктейля
//	@Description	Возвращает коктейль с рецептом в порядке приготовления
//	@Tags			cocktails
//	@Produce		json
//	@Param			cocktail	path		int	true	"ID коктейля"
//	@Success		200			{object}	CocktailResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/cocktails/{cocktail}/details [get]
func (h *SearchHandler) cocktailDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "cocktail"), 10, 64)
	if err != nil {
		h.fail(w, r, &paramError{name: "cocktail", reason: "must be an integer id"})
		return
	}

	cocktail, err := h.searchUsecase.GetCocktailDetails(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCocktailResponse(cocktail))
}

// health
//
//	@Summary		Проверка доступности
//	@Tags			service
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/health [get]
func (h *SearchHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.searchUsecase.Health(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *SearchHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		h.logger.Warnf("%d %s %s: %s", code, r.Method, r.URL.Path, err.Error())
	}

	WriteError(w, err)
}
