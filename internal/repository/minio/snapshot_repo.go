package minio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/cocktail-search/internal/domain"
	"github.com/DRSN-tech/cocktail-search/internal/repository/minio/converter"
	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	json "github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
)

// SnapshotSource — хранилище объекта снапшота.
type SnapshotSource interface {
	Stat(ctx context.Context) (string, error)
	Fetch(ctx context.Context) ([]byte, string, error)
}

type snapshotCtxKey struct{}

// snapshot — неизменяемое состояние, разобранное из одного объекта
type snapshot struct {
	etag        string
	cocktails   []domain.Cocktail // по возрастанию id
	byID        map[int64]int
	ingredients map[int64]domain.Ingredient
	vectors     map[domain.RecordKind]map[domain.EmbeddingField][]domain.FieldVector
}

// SnapshotRepo отдаёт записи и эмбеддинги из JSON-снапшота в MinIO.
// Снапшот перечитывается не чаще раза в ttl и только при смене ETag; Reload перечитывает сразу.
// Если перечитать не удалось, продолжает работать прежний снапшот.
type SnapshotRepo struct {
	source SnapshotSource
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time

	mu        sync.RWMutex
	current   *snapshot
	checkedAt time.Time

	reloadMu sync.Mutex
}

func NewSnapshotRepo(source SnapshotSource, ttl time.Duration, logger logger.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Reload безусловно перечитывает снапшот.
func (s *SnapshotRepo) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	return s.load(ctx, "")
}

// ReadSnapshot закрепляет текущий снапшот за контекстом fn, все чтения внутри видят одно состояние.
func (s *SnapshotRepo) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	s.refresh(ctx)

	snap, err := s.view(ctx)
	if err != nil {
		return e.Storage(whereami.WhereAmI(), err)
	}

	return fn(context.WithValue(ctx, snapshotCtxKey{}, snap))
}

func (s *SnapshotRepo) GetByID(ctx context.Context, id int64) (*domain.Cocktail, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	idx, ok := snap.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", e.ErrCocktailNotFound, id)
	}

	c := snap.cocktails[idx]
	return &c, nil
}

func (s *SnapshotRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Cocktail, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	idx := make([]int, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if i, ok := snap.byID[id]; ok {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	res := make([]domain.Cocktail, 0, len(idx))
	for _, i := range idx {
		res = append(res, snap.cocktails[i])
	}

	return res, nil
}

func (s *SnapshotRepo) FindByNameLike(ctx context.Context, name string) ([]domain.Cocktail, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	res := make([]domain.Cocktail, 0)
	for _, c := range snap.cocktails {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			res = append(res, c)
		}
	}

	return res, nil
}

func (s *SnapshotRepo) List(ctx context.Context) ([]domain.Cocktail, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.Cocktail, len(snap.cocktails))
	copy(res, snap.cocktails)

	return res, nil
}

// Ping проверяет, что снапшот загружен и объект доступен в бакете.
func (s *SnapshotRepo) Ping(ctx context.Context) error {
	if _, err := s.view(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := s.source.Stat(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Ingredients возвращает представление снапшота как IngredientRepository.
func (s *SnapshotRepo) Ingredients() *IngredientView {
	return &IngredientView{repo: s}
}

// IngredientView — справочник ингредиентов снапшота
type IngredientView struct {
	repo *SnapshotRepo
}

func (v *IngredientView) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	snap, err := v.repo.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]domain.Ingredient, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if ing, ok := snap.ingredients[id]; ok {
			res = append(res, ing)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}

func (s *SnapshotRepo) GetVector(ctx context.Context, kind domain.RecordKind, id int64, field domain.EmbeddingField) (domain.Vector, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	vectors := snap.vectors[kind][field]
	i := sort.Search(len(vectors), func(i int) bool { return vectors[i].RecordID >= id })
	if i < len(vectors) && vectors[i].RecordID == id {
		return vectors[i].Vector, nil
	}

	return nil, nil
}

func (s *SnapshotRepo) Scan(ctx context.Context, kind domain.RecordKind, field domain.EmbeddingField) ([]domain.FieldVector, error) {
	snap, err := s.view(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	vectors := snap.vectors[kind][field]
	res := make([]domain.FieldVector, len(vectors))
	copy(res, vectors)

	return res, nil
}

// view возвращает снапшот, закреплённый за контекстом, либо текущий.
func (s *SnapshotRepo) view(ctx context.Context) (*snapshot, error) {
	if snap, ok := ctx.Value(snapshotCtxKey{}).(*snapshot); ok {
		return snap, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, fmt.Errorf("%w: snapshot is not loaded", e.ErrStorageUnavailable)
	}

	return s.current, nil
}

// refresh перечитывает снапшот, если истёк ttl. Ошибки логируются, прежний снапшот остаётся.
func (s *SnapshotRepo) refresh(ctx context.Context) {
	s.mu.RLock()
	fresh := s.current != nil && s.now().Sub(s.checkedAt) < s.ttl
	s.mu.RUnlock()

	if fresh || !s.reloadMu.TryLock() {
		return
	}
	defer s.reloadMu.Unlock()

	s.mu.RLock()
	var etag string
	if s.current != nil {
		etag = s.current.etag
	}
	s.mu.RUnlock()

	if err := s.load(ctx, etag); err != nil {
		s.logger.Warnf("Failed to refresh snapshot, serving previous one: %v", err)
	}
}

// load скачивает и разбирает снапшот. Если ETag совпадает с knownETag, объект не скачивается.
func (s *SnapshotRepo) load(ctx context.Context, knownETag string) error {
	if knownETag != "" {
		etag, err := s.source.Stat(ctx)
		if err != nil {
			return e.Storage(whereami.WhereAmI(), err)
		}

		if etag == knownETag {
			s.mu.Lock()
			s.checkedAt = s.now()
			s.mu.Unlock()
			return nil
		}
	}

	data, etag, err := s.source.Fetch(ctx)
	if err != nil {
		return e.Storage(whereami.WhereAmI(), err)
	}

	snap, err := parseSnapshot(data)
	if err != nil {
		return e.Storage(whereami.WhereAmI(), err)
	}
	snap.etag = etag

	s.mu.Lock()
	s.current = snap
	s.checkedAt = s.now()
	s.mu.Unlock()

	s.logger.Infof("Snapshot loaded, etag=%s cocktails=%d ingredients=%d", etag, len(snap.cocktails), len(snap.ingredients))

	return nil
}

func parseSnapshot(data []byte) (*snapshot, error) {
	var model converter.SnapshotModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if model.Version != converter.SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", model.Version)
	}

	snap := &snapshot{
		byID:        make(map[int64]int, len(model.Cocktails)),
		ingredients: make(map[int64]domain.Ingredient, len(model.Ingredients)),
		vectors:     make(map[domain.RecordKind]map[domain.EmbeddingField][]domain.FieldVector),
	}

	for i := range model.Ingredients {
		ing := converter.IngredientToEntity(&model.Ingredients[i])
		snap.ingredients[ing.ID] = ing
	}

	sort.SliceStable(model.Cocktails, func(i, j int) bool { return model.Cocktails[i].ID < model.Cocktails[j].ID })
	for i := range model.Cocktails {
		c := converter.CocktailToEntity(&model.Cocktails[i], snap.ingredients)
		sort.SliceStable(c.Ingredients, func(a, b int) bool { return c.Ingredients[a].SortOrder < c.Ingredients[b].SortOrder })

		// Повтор id: побеждает последняя запись
		if idx, dup := snap.byID[c.ID]; dup {
			snap.cocktails[idx] = c
			continue
		}

		snap.byID[c.ID] = len(snap.cocktails)
		snap.cocktails = append(snap.cocktails, c)
	}

	for _, m := range model.Embeddings {
		kind := domain.RecordKind(m.Kind)
		field, ok := domain.ParseField(kind, m.Field)
		if !ok || len(m.Vector) == 0 {
			continue
		}

		if snap.vectors[kind] == nil {
			snap.vectors[kind] = make(map[domain.EmbeddingField][]domain.FieldVector)
		}
		snap.vectors[kind][field] = append(snap.vectors[kind][field], domain.FieldVector{
			RecordID: m.RecordID,
			Field:    field,
			Vector:   m.Vector,
		})
	}

	for _, byField := range snap.vectors {
		for field, vectors := range byField {
			sort.SliceStable(vectors, func(i, j int) bool { return vectors[i].RecordID < vectors[j].RecordID })
			byField[field] = dedupeVectors(vectors)
		}
	}

	return snap, nil
}

// dedupeVectors оставляет последний вектор для каждого id в отсортированном списке.
func dedupeVectors(vectors []domain.FieldVector) []domain.FieldVector {
	res := vectors[:0]
	for i, v := range vectors {
		if i+1 < len(vectors) && vectors[i+1].RecordID == v.RecordID {
			continue
		}
		res = append(res, v)
	}

	return res
}
