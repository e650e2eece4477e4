package car

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher serves size-byte archives and counts downloads per code.
type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	size  map[string]int
	err   error
}

func newCountingFetcher(sizes map[string]int) *countingFetcher {
	return &countingFetcher{calls: make(map[string]int), size: sizes}
}

func (f *countingFetcher) FetchArchive(_ context.Context, code string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[code]++
	if f.err != nil {
		return nil, f.err
	}
	return bytes.Repeat([]byte{'x'}, f.size[code]), nil
}

func (f *countingFetcher) count(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[code]
}

func TestArchiveCacheHit(t *testing.T) {
	up := newCountingFetcher(map[string]int{"a": 10})
	c := NewArchiveCache(up, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := c.FetchArchive(ctx, "a")
		require.NoError(t, err)
		assert.Len(t, data, 10)
	}

	assert.Equal(t, 1, up.count("a"))
	stats := c.Stats()
	assert.Equal(t, 1, stats.Archives)
	assert.Equal(t, int64(10), stats.UsedBytes)
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestArchiveCacheEvictsLeastRecentlyUsed(t *testing.T) {
	up := newCountingFetcher(map[string]int{"a": 40, "b": 40, "c": 40})
	c := NewArchiveCache(up, 100)
	ctx := context.Background()

	_, _ = c.FetchArchive(ctx, "a")
	_, _ = c.FetchArchive(ctx, "b")
	_, _ = c.FetchArchive(ctx, "a") // a is now most recent
	_, _ = c.FetchArchive(ctx, "c") // evicts b

	assert.Equal(t, int64(80), c.Stats().UsedBytes)

	_, _ = c.FetchArchive(ctx, "a")
	assert.Equal(t, 1, up.count("a"))

	_, _ = c.FetchArchive(ctx, "b")
	assert.Equal(t, 2, up.count("b"))
}

func TestArchiveCacheOversized(t *testing.T) {
	up := newCountingFetcher(map[string]int{"big": 500})
	c := NewArchiveCache(up, 100)

	data, err := c.FetchArchive(context.Background(), "big")
	require.NoError(t, err)
	assert.Len(t, data, 500)
	assert.Equal(t, 0, c.Stats().Archives)

	_, _ = c.FetchArchive(context.Background(), "big")
	assert.Equal(t, 2, up.count("big"))
}

func TestArchiveCacheUnlimited(t *testing.T) {
	up := newCountingFetcher(map[string]int{"a": 1 << 20, "b": 1 << 20})
	c := NewArchiveCache(up, 0)

	_, _ = c.FetchArchive(context.Background(), "a")
	_, _ = c.FetchArchive(context.Background(), "b")
	assert.Equal(t, 2, c.Stats().Archives)
}

func TestArchiveCacheDoesNotCacheErrors(t *testing.T) {
	up := newCountingFetcher(nil)
	up.err = errors.New("captcha rejected")
	c := NewArchiveCache(up, 100)

	_, err := c.FetchArchive(context.Background(), "a")
	assert.ErrorIs(t, err, up.err)
	_, err = c.FetchArchive(context.Background(), "a")
	assert.Error(t, err)

	assert.Equal(t, 2, up.count("a"))
	assert.Equal(t, 0, c.Stats().Archives)
}

func TestArchiveCacheRemoveAndClear(t *testing.T) {
	up := newCountingFetcher(map[string]int{"a": 10, "b": 20})
	c := NewArchiveCache(up, 100)
	ctx := context.Background()

	_, _ = c.FetchArchive(ctx, "a")
	_, _ = c.FetchArchive(ctx, "b")

	c.Remove("a")
	c.Remove("missing")
	assert.Equal(t, 1, c.Stats().Archives)
	assert.Equal(t, int64(20), c.Stats().UsedBytes)

	c.Clear()
	stats := c.Stats()
	assert.Equal(t, 0, stats.Archives)
	assert.Equal(t, int64(0), stats.UsedBytes)
	assert.Equal(t, 2, stats.Misses)
}

func TestArchiveCacheConcurrent(t *testing.T) {
	up := newCountingFetcher(map[string]int{"a": 10, "b": 10, "c": 10})
	c := NewArchiveCache(up, 25)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := string(rune('a' + i%3))
			data, err := c.FetchArchive(context.Background(), code)
			assert.NoError(t, err)
			assert.Len(t, data, 10)
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.UsedBytes, int64(25))
	assert.Equal(t, 30, stats.Hits+stats.Misses)
}

func TestServiceWithCache(t *testing.T) {
	raw := sampleArchive(t)
	calls := 0
	fetch := FetcherFunc(func(context.Context, string) ([]byte, error) {
		calls++
		return raw, nil
	})
	sink := SinkFunc(func(context.Context, string, []byte) error { return nil })

	svc := NewService(NewArchiveCache(fetch, 0), NewProcessor(), sink)
	for i := 0; i < 2; i++ {
		_, err := svc.Run(context.Background(), testReceipt)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}
