package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkUpsertPage simulates a crawl recording one page at a time, with
// every fourth page revisited.
func BenchmarkUpsertPage(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewPageService(db)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		url := fmt.Sprintf("https://example.com/page%d", i-i%4)
		page := &instantmarqo.Page{
			IndexName:   "bench",
			URL:         url,
			DocumentID:  instantmarqo.DocumentID(url),
			ContentHash: fmt.Sprintf("%x", i),
			Status:      instantmarqo.PageIndexed,
		}
		if err := svc.UpsertPage(ctx, page); err != nil {
			b.Fatal(err)
		}
	}
}
