package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/cocktail-search/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	fetchErrs []error
	committed []int64
	done      chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	close(r.done)
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (c *countingInvalidator) InvalidateCache(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return err
	}
	return nil
}

type countingReloader struct{ calls int }

func (c *countingReloader) Reload(context.Context) error {
	c.calls++
	return nil
}

func runUntilDrained(t *testing.T, c *InvalidationConsumer, r *fakeReader) {
	t.Helper()
	c.backoff = func(int) time.Duration { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain messages")
	}
	cancel()
	require.NoError(t, <-errCh)
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"entity":"cocktail","id":42}`))
	require.NoError(t, err)
	assert.Equal(t, UpsertEvent{Entity: "cocktail", ID: 42}, ev)

	ev, err = ParseEvent([]byte(`{"entity":"glass","id":1}`))
	require.Error(t, err)
	assert.Equal(t, entityUnknown, ev.Entity)

	ev, err = ParseEvent([]byte(`not json`))
	require.Error(t, err)
	assert.Equal(t, entityUnknown, ev.Entity)
}

func TestInvalidationConsumer_InvalidatesAndCommits(t *testing.T) {
	reader := &fakeReader{
		done: make(chan struct{}),
		messages: []kafka.Message{
			{Offset: 1, Value: []byte(`{"entity":"cocktail","id":7}`)},
			{Offset: 2, Value: []byte(`garbage`)},
		},
	}
	inv := &countingInvalidator{}
	rel := &countingReloader{}

	runUntilDrained(t, NewInvalidationConsumer(reader, inv, rel, logger.NewDiscard()), reader)

	assert.Equal(t, 2, inv.calls, "malformed events still invalidate")
	assert.Equal(t, 2, rel.calls)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestInvalidationConsumer_RetriesFailures(t *testing.T) {
	reader := &fakeReader{
		done:      make(chan struct{}),
		fetchErrs: []error{errors.New("broker not available")},
		messages:  []kafka.Message{{Offset: 5, Value: []byte(`{"entity":"ingredient","id":3}`)}},
	}
	inv := &countingInvalidator{errs: []error{errors.New("redis down")}}

	runUntilDrained(t, NewInvalidationConsumer(reader, inv, nil, logger.NewDiscard()), reader)

	assert.Equal(t, 2, inv.calls)
	assert.Equal(t, []int64{5}, reader.committed)
}
