// Package jitter добавляет случайность к интервалам повторов,
// чтобы переподключающиеся клиенты не приходили к брокеру одновременно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d с джиттером в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	jitter := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()

	return d + time.Duration(jitter)
}

// ExponentialBackoff удваивает base на каждую попытку (нумерация с нуля), не превышая max, и добавляет джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}

	if backoff > max {
		backoff = max
	}

	return Duration(backoff, jitterFactor)
}
