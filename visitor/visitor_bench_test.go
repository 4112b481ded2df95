package visitor

import (
	"testing"

	"github.com/Konsultn-Engineering/querystudy/cache"
	"github.com/Konsultn-Engineering/querystudy/dialect"
)

func BenchmarkVisitorBuild(b *testing.B) {
	d := dialect.NewPostgresDialect()
	stmt := memberSearchStmt()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Render(d, nil, stmt)
	}
}

func BenchmarkVisitorBuildCached(b *testing.B) {
	d := dialect.NewPostgresDialect()
	qc := cache.NewQueryCache(64)
	stmt := memberSearchStmt()

	// Prime the cache
	_, _, _ = Render(d, qc, stmt)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Render(d, qc, stmt)
	}
}
