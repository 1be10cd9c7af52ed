package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"antique-catalog/internal/models"

	"github.com/shopspring/decimal"
)

// Benchmark 1: AddSubmission - Sequential
func Benchmark_AddSubmission_Sequential(b *testing.B) {
	svc := setupCatalog(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.AddSubmission(ctx, loadSubmission(i)); err != nil {
			b.Fatalf("failed to add submission: %v", err)
		}
	}
}

// Benchmark 2: AddSubmission - Concurrent (all writes share one queue)
func Benchmark_AddSubmission_Concurrent(b *testing.B) {
	svc := setupCatalog(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var n int64
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := atomic.AddInt64(&n, 1)
			_, _ = svc.AddSubmission(ctx, loadSubmission(int(i)))
		}
	})
}

// Benchmark 3: AddOffer - Shared Product (High Contention)
func Benchmark_AddOffer_ConcurrentSharedProduct(b *testing.B) {
	svc := setupCatalog(b)
	ctx := context.Background()
	productID := svc.Products()[0].ID

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			_, _ = svc.AddOffer(ctx, loadOffer(productID, rnd.Int()))
		}
	})
}

// Benchmark 4: ProductsByCategory - Concurrent readers
func Benchmark_ProductsByCategory_Concurrent(b *testing.B) {
	svc := setupCatalog(b)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		_, err := svc.AddProduct(ctx, models.ProductFields{
			Title:       fmt.Sprintf("Bench product %d", i),
			Description: "Benchmark product",
			Price:       decimal.NewFromInt(int64(1000 + i)),
			Category:    models.Categories[i%len(models.Categories)],
		})
		if err != nil {
			b.Fatalf("failed to add product: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			_ = svc.ProductsByCategory(models.Categories[rnd.Intn(len(models.Categories))])
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (reviewers and readers concurrently)
func Benchmark_MixedWorkload_Review(b *testing.B) {
	svc := setupCatalog(b)
	ctx := context.Background()

	subs := make([]models.AntiqueSubmission, 0, 50)
	for j := 0; j < 50; j++ {
		sub, err := svc.AddSubmission(ctx, loadSubmission(j))
		if err != nil {
			b.Fatalf("failed to seed submission: %v", err)
		}
		subs = append(subs, sub)
	}

	b.ReportAllocs()
	b.ResetTimer()

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			switch opType := rnd.Intn(10); {
			case opType < 3:
				sub := subs[rnd.Intn(len(subs))]
				sub.Status = models.StatusApproved
				_ = svc.UpdateSubmission(ctx, sub) // repeat approvals leave the status unchanged
			default:
				_ = svc.Submissions()
			}
		}
	})
}
