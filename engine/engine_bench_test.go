package engine

import (
	"context"
	"testing"

	"github.com/Konsultn-Engineering/querystudy/predicate"
)

func benchEngine(b *testing.B) *Engine {
	b.Helper()
	e := newEngine(b)
	seed(b, e)
	return e
}

func BenchmarkFetchDynamicSearch(b *testing.B) {
	e := benchEngine(b)
	ctx := context.Background()
	name := predicate.Some("member3")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		where := predicate.All(username.EqOpt(name), age.EqOpt(predicate.None[int]()))
		if _, err := Fetch[member](ctx, e, members().Where(where)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFetchCount(b *testing.B) {
	e := benchEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := FetchCount(ctx, e, members().Where(age.Goe(20))); err != nil {
			b.Fatal(err)
		}
	}
}
