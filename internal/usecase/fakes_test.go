package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	json "github.com/goccy/go-json"
)

// memStore — хранилище в памяти, реализующее все репозитории поиска
type memStore struct {
	cocktails   map[int64]domain.Cocktail
	ingredients map[int64]domain.Ingredient
	vectors     map[domain.RecordKind]map[domain.EmbeddingField]map[int64]domain.Vector

	err   error // возвращается любым вызовом, если задан
	block bool  // вызовы ждут отмены контекста

	snapshots atomic.Int32
	released  atomic.Int32
}

func newMemStore() *memStore {
	return &memStore{
		cocktails:   map[int64]domain.Cocktail{},
		ingredients: map[int64]domain.Ingredient{},
		vectors:     map[domain.RecordKind]map[domain.EmbeddingField]map[int64]domain.Vector{},
	}
}

func (m *memStore) addIngredient(ing domain.Ingredient) *memStore {
	m.ingredients[ing.ID] = ing
	return m
}

// addCocktail сохраняет коктейль; ingredientIDs без записи в справочнике остаются неизвестными.
func (m *memStore) addCocktail(c domain.Cocktail, ingredientIDs ...int64) *memStore {
	for i, id := range ingredientIDs {
		c.Ingredients = append(c.Ingredients, domain.CocktailIngredient{IngredientID: id, SortOrder: i})
	}
	m.cocktails[c.ID] = c
	return m
}

func (m *memStore) setVector(kind domain.RecordKind, field domain.EmbeddingField, id int64, v domain.Vector) *memStore {
	if m.vectors[kind] == nil {
		m.vectors[kind] = map[domain.EmbeddingField]map[int64]domain.Vector{}
	}
	if m.vectors[kind][field] == nil {
		m.vectors[kind][field] = map[int64]domain.Vector{}
	}
	m.vectors[kind][field][id] = v
	return m
}

func (m *memStore) wait(ctx context.Context) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

func (m *memStore) hydrate(c domain.Cocktail) domain.Cocktail {
	items := make([]domain.CocktailIngredient, len(c.Ingredients))
	copy(items, c.Ingredients)
	for i := range items {
		if ing, ok := m.ingredients[items[i].IngredientID]; ok {
			items[i].Ingredient = &ing
		}
	}
	c.Ingredients = items
	return c
}

func (m *memStore) sorted(filter func(domain.Cocktail) bool) []domain.Cocktail {
	var res []domain.Cocktail
	for _, c := range m.cocktails {
		if filter(c) {
			res = append(res, m.hydrate(c))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*domain.Cocktail, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	c, ok := m.cocktails[id]
	if !ok {
		return nil, e.ErrCocktailNotFound
	}
	c = m.hydrate(c)
	return &c, nil
}

func (m *memStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Cocktail, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return m.sorted(func(c domain.Cocktail) bool {
		_, ok := want[c.ID]
		return ok
	}), nil
}

func (m *memStore) FindByNameLike(ctx context.Context, name string) ([]domain.Cocktail, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	return m.sorted(func(c domain.Cocktail) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	}), nil
}

func (m *memStore) List(ctx context.Context) ([]domain.Cocktail, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.sorted(func(domain.Cocktail) bool { return true }), nil
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.wait(ctx)
}

func (m *memStore) GetVector(ctx context.Context, kind domain.RecordKind, id int64, field domain.EmbeddingField) (domain.Vector, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.vectors[kind][field][id], nil
}

func (m *memStore) Scan(ctx context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	var res []domain.FieldVector
	for id, v := range m.vectors[kind][field] {
		res = append(res, domain.FieldVector{RecordID: id, Field: field, Vector: v})
	}
	return res, nil
}

func (m *memStore) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	m.snapshots.Add(1)
	defer m.released.Add(1)
	return fn(ctx)
}

// ingredientView адаптирует memStore к IngredientRepository
type ingredientView struct{ *memStore }

func (v ingredientView) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	if err := v.wait(ctx); err != nil {
		return nil, err
	}
	var res []domain.Ingredient
	for _, id := range ids {
		if ing, ok := v.ingredients[id]; ok {
			res = append(res, ing)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

type fakeEmbedder struct {
	vec   domain.Vector
	err   error
	block bool // Embed ждёт завершения контекста
	calls atomic.Int32
}

func (f *fakeEmbedder) Embed(ctx context.Context, _ string) (domain.Vector, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.vec, f.err
}

// memCache — QueryCache в памяти
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) key(op string, args any) string {
	raw, _ := json.Marshal(args)
	return op + ":" + string(raw)
}

func (c *memCache) Get(_ context.Context, op string, args any, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[c.key(op, args)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, op string, args any, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(op, args)] = raw
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	return nil
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
