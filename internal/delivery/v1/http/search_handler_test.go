package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/cocktail-search/internal/cfg"
	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/usecase"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearchUC запоминает последний запрос и возвращает заданный ответ
type fakeSearchUC struct {
	err error

	similarReq     *usecase.FindSimilarReq
	freeTextReq    *usecase.FreeTextReq
	preferencesReq *usecase.PreferencesReq
	ingredientsReq *usecase.IngredientsReq
	recommendReq   *usecase.RecommendReq
	detailsID      int64

	matches  []domain.CocktailMatch
	overlaps []domain.IngredientOverlapMatch
}

func (f *fakeSearchUC) FindSimilarByAnchor(_ context.Context, req *usecase.FindSimilarReq) ([]domain.CocktailMatch, error) {
	f.similarReq = req
	return f.matches, f.err
}

func (f *fakeSearchUC) FindByFreeText(_ context.Context, req *usecase.FreeTextReq) ([]domain.CocktailMatch, error) {
	f.freeTextReq = req
	return f.matches, f.err
}

func (f *fakeSearchUC) FindByPreferences(_ context.Context, req *usecase.PreferencesReq) ([]domain.Cocktail, error) {
	f.preferencesReq = req
	return nil, f.err
}

func (f *fakeSearchUC) FindByIngredients(_ context.Context, req *usecase.IngredientsReq) ([]domain.IngredientOverlapMatch, error) {
	f.ingredientsReq = req
	return f.overlaps, f.err
}

func (f *fakeSearchUC) RecommendIngredients(_ context.Context, req *usecase.RecommendReq) ([]domain.IngredientMatch, error) {
	f.recommendReq = req
	return nil, f.err
}

func (f *fakeSearchUC) GetCocktailDetails(_ context.Context, id int64) (*domain.Cocktail, error) {
	f.detailsID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Cocktail{ID: id, Name: "Negroni", Method: domain.MethodStir, Ingredients: []domain.CocktailIngredient{
		{IngredientID: 1, Ingredient: &domain.Ingredient{ID: 1, Name: "Gin", Category: domain.CategorySpirit}},
		{IngredientID: 2},
	}}, nil
}

func (f *fakeSearchUC) Health(context.Context) error { return f.err }

func newTestRouter(uc usecase.SearchUC) http.Handler {
	mux := chi.NewRouter()
	NewRouter(mux, &cfg.HTTPConfig{
		AllowedOrigins: []string{"*"},
		SwaggerURL:     "http://localhost:8080/swagger/doc.json",
	}, logger.NewDiscard()).Init(uc)
	return mux
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestFindSimilar_Defaults(t *testing.T) {
	uc := &fakeSearchUC{matches: []domain.CocktailMatch{{Cocktail: domain.Cocktail{ID: 3, Name: "Paloma"}, Score: 0.91}}}
	rec := do(t, newTestRouter(uc), "/api/v1/cocktails/similar/Margarita")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.similarReq)
	assert.Equal(t, "Margarita", uc.similarReq.AnchorName)
	assert.Equal(t, domain.FieldFlavor, uc.similarReq.Field)
	assert.Equal(t, usecase.DefaultSimilarMaxResults, uc.similarReq.MaxResults)
	assert.Equal(t, usecase.DefaultSimilarThreshold, uc.similarReq.MinSimilarity)

	var body []SimilarCocktailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Paloma", body[0].Name)
	assert.InDelta(t, 0.91, body[0].Similarity, 1e-9)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestFindSimilar_InvalidParams(t *testing.T) {
	router := newTestRouter(&fakeSearchUC{})

	for _, target := range []string{
		"/api/v1/cocktails/similar/Margarita?max_results=0",
		"/api/v1/cocktails/similar/Margarita?max_results=51",
		"/api/v1/cocktails/similar/Margarita?max_results=ten",
		"/api/v1/cocktails/similar/Margarita?threshold=1.5",
		"/api/v1/cocktails/similar/Margarita?field=category",
	} {
		rec := do(t, router, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code, target)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("op: %w", e.ErrCocktailNotFound), http.StatusNotFound},
		{e.ErrAnchorNotEmbedded, http.StatusNotFound},
		{e.ErrInvalidRange, http.StatusBadRequest},
		{e.ErrEmbedderDisabled, http.StatusServiceUnavailable},
		{e.Storage("op", fmt.Errorf("connection refused")), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := do(t, newTestRouter(&fakeSearchUC{err: tc.err}), "/api/v1/cocktails/search/flavor?description=smoky")
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestErrorMapping_Messages(t *testing.T) {
	code, msg := ToHTTPResponse(fmt.Errorf("wrapped: %w", e.ErrInvalidRange))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, e.ErrInvalidRange.Error(), msg)

	code, msg = ToHTTPResponse(&paramError{name: "max_results", reason: "must be an integer"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "max_results")

	_, msg = ToHTTPResponse(fmt.Errorf("pq: password authentication failed"))
	assert.Equal(t, e.ErrInternalServerError.Error(), msg, "internal details are not exposed")
}

func TestSearchByIngredients(t *testing.T) {
	uc := &fakeSearchUC{}
	rec := do(t, newTestRouter(uc), "/api/v1/cocktails/search/ingredients?ingredients=tequila,%20lime,,&threshold=0.5")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.ingredientsReq)
	assert.Equal(t, []string{"tequila", "lime"}, uc.ingredientsReq.Names)
	assert.Equal(t, 0.5, uc.ingredientsReq.MinMatchFraction)
	assert.Equal(t, usecase.DefaultIngredientsMaxResults, uc.ingredientsReq.MaxResults)
	assert.Equal(t, "[]", rec.Body.String()[:2])
}

func TestSearchByPreferences(t *testing.T) {
	uc := &fakeSearchUC{}
	router := newTestRouter(uc)

	rec := do(t, router, "/api/v1/cocktails/search/preferences?abv_min=10.5&excluded_categories=juice&required_tags=sour,citrus")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.preferencesReq)
	assert.Equal(t, 10.5, uc.preferencesReq.ABVMin)
	assert.Equal(t, float64(usecase.DefaultPreferencesABVMax), uc.preferencesReq.ABVMax)
	assert.Equal(t, []string{"juice"}, uc.preferencesReq.ExcludedCategories)
	assert.Equal(t, []string{"sour", "citrus"}, uc.preferencesReq.RequiredTags)

	rec = do(t, router, "/api/v1/cocktails/search/preferences?abv_min=10.555")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, e.ErrABVPrecision.Error(), decodeError(t, rec).Message)

	rec = do(t, router, "/api/v1/cocktails/search/preferences?abv_max=strong")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendIngredients(t *testing.T) {
	uc := &fakeSearchUC{}
	rec := do(t, newTestRouter(uc), "/api/v1/cocktails/Negroni/recommendations?max_results=3")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.recommendReq)
	assert.Equal(t, "Negroni", uc.recommendReq.AnchorName)
	assert.Equal(t, 3, uc.recommendReq.MaxResults)
}

func TestCocktailDetails(t *testing.T) {
	uc := &fakeSearchUC{}
	router := newTestRouter(uc)

	rec := do(t, router, "/api/v1/cocktails/42/details")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), uc.detailsID)

	var body CocktailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Ingredients, 2)
	assert.Equal(t, "Gin", body.Ingredients[0].Name)
	assert.Empty(t, body.Ingredients[1].Name, "unknown ingredient has no name")
	assert.Equal(t, []string{}, body.Tags)

	rec = do(t, router, "/api/v1/cocktails/negroni/details")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(&fakeSearchUC{}), "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, newTestRouter(&fakeSearchUC{err: e.Storage("ping", fmt.Errorf("down"))}), "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&fakeSearchUC{})
	do(t, router, "/api/v1/health")

	rec := do(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "api_requests_total")
}
