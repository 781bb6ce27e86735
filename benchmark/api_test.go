package benchmark

import (
	"net/http"
	"os"
	"testing"
)

// Benchmarks run against a live server. Set AIACT_BENCH_TOKEN to a session
// token and, optionally, AIACT_BENCH_URL (default http://localhost:8000).
// The rate limit should be raised for the server under test.

func benchTarget(b *testing.B) (string, string) {
	token := os.Getenv("AIACT_BENCH_TOKEN")
	if token == "" {
		b.Skip("AIACT_BENCH_TOKEN is not set")
	}
	base := os.Getenv("AIACT_BENCH_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	return base, token
}

func BenchmarkReadEndpoints(b *testing.B) {
	base, token := benchTarget(b)

	for _, path := range []string{"/api/dashboard", "/api/systems", "/api/alerts", "/api/training/summary"} {
		b.Run("GET "+path, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r, _ := http.NewRequest("GET", base+path, nil)
				r.Header.Add("Authorization", "Bearer "+token)
				resp, err := http.DefaultClient.Do(r)
				if err != nil {
					b.Fatal(err)
				}
				_ = resp.Body.Close()
			}
		})
	}
}

func BenchmarkReadEndpointsParallel(b *testing.B) {
	base, token := benchTarget(b)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, _ := http.NewRequest("GET", base+"/api/dashboard", nil)
			r.Header.Add("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				b.Error(err)
				return
			}
			_ = resp.Body.Close()
		}
	})
}
