package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы в обратном порядке регистрации.
// Ресурсы, не успевшие закрыться до отмены контекста, закрываются принудительно и параллельно.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
}

// NewCloser создает Closer. forcedTimeout ограничивает принудительное закрытие; 0 означает значение по умолчанию.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс под именем, которое попадёт в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы один раз; повторные вызовы возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		left, errs := c.closeInOrder(ctx, resources)
		if len(left) == 0 {
			if len(errs) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errs, "\n"))
			}
			return
		}

		errs = append(errs, c.forceClose(left)...)
		err = fmt.Errorf(
			"shutdown interrupted after %d/%d resources:\n%s",
			len(resources)-len(left),
			len(resources),
			strings.Join(errs, "\n"),
		)
	})

	return err
}

// closeInOrder закрывает ресурсы с конца. При отмене ctx возвращает ещё не закрытые ресурсы,
// включая тот, на котором произошло ожидание.
func (c *Closer) closeInOrder(ctx context.Context, resources []resource) ([]resource, []string) {
	var errs []string
	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)
		go func() { done <- res.close(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Sprintf("[!] %s: %v", res.name, err))
			}
		case <-ctx.Done():
			return resources[:i+1], errs
		}
	}

	return nil, errs
}

func (c *Closer) forceClose(resources []resource) []string {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("[FORCED] %s: %v", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
