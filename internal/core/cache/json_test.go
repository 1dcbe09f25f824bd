package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (s *mapStore) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.m[key]; ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.m[key] = b
	return b, nil
}

func (s *mapStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

type item struct {
	N int `json:"n"`
}

func TestGetOrLoadJSON_CachesUntilDeleted(t *testing.T) {
	t.Parallel()

	s := &mapStore{m: map[string][]byte{}}
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{N: calls}}, nil
	}
	ctx := context.Background()

	v, err := GetOrLoadJSON(s, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{N: 1}}, v)

	v, err = GetOrLoadJSON(s, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{N: 1}}, v)
	assert.Equal(t, 1, calls)

	require.NoError(t, s.Delete(ctx, "k"))
	v, err = GetOrLoadJSON(s, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{N: 2}}, v)
}

func TestGetOrLoadJSON_NilStoreAndErrors(t *testing.T) {
	t.Parallel()

	v, err := GetOrLoadJSON[int](nil, context.Background(), "k", time.Minute, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	boom := errors.New("boom")
	s := &mapStore{m: map[string][]byte{}}
	_, err = GetOrLoadJSON(s, context.Background(), "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.m, "failed loads are not cached")
}

func TestGetOrLoadJSON_CorruptEntryFallsBack(t *testing.T) {
	t.Parallel()

	s := &mapStore{m: map[string][]byte{"k": []byte("{not json")}}
	v, err := GetOrLoadJSON(s, context.Background(), "k", time.Minute, func(context.Context) (item, error) { return item{N: 3}, nil })
	require.NoError(t, err)
	assert.Equal(t, item{N: 3}, v)
}
