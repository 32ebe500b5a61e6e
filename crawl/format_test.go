package crawl_test

import (
	"testing"

	"github.com/fwojciec/instantmarqo/crawl"
	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	t.Parallel()

	t.Run("is stable across map construction order", func(t *testing.T) {
		t.Parallel()
		a := map[string]any{"title": "Hello", "price": 3.5}
		b := map[string]any{"price": 3.5, "title": "Hello"}
		assert.Equal(t, crawl.ContentHash(a), crawl.ContentHash(b))
	})

	t.Run("changes with content", func(t *testing.T) {
		t.Parallel()
		a := map[string]any{"title": "Hello"}
		b := map[string]any{"title": "Hello!"}
		assert.NotEqual(t, crawl.ContentHash(a), crawl.ContentHash(b))
	})

	t.Run("is hex encoded", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]+$`, crawl.ContentHash(map[string]any{"k": "v"}))
	})
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"shorter than max", "https://x.com", 50, "https://x.com"},
		{"exactly max", "https://example.com", 19, "https://example.com"},
		{"longer than max keeps the tail", "https://example.com/very/long/path/to/documentation", 20, ".../to/documentation"},
		{"zero", "https://example.com", 0, ""},
		{"negative", "https://example.com", -1, ""},
		{"too short for ellipsis", "https://example.com", 3, "htt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.TruncateURL(tt.url, tt.maxLen))
		})
	}
}

func TestFieldSummary(t *testing.T) {
	t.Parallel()

	t.Run("orders keys", func(t *testing.T) {
		t.Parallel()
		got := crawl.FieldSummary(map[string]any{"title": "Tea", "price": 4}, 0)
		assert.Equal(t, `price="4" title="Tea"`, got)
	})

	t.Run("truncates long values", func(t *testing.T) {
		t.Parallel()
		got := crawl.FieldSummary(map[string]any{"body": "abcdefghij"}, 4)
		assert.Equal(t, `body="abcd..."`, got)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.FieldSummary(nil, 10))
	})
}
