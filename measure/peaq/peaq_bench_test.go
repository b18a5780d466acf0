package peaq

import (
	"testing"

	"github.com/cwbudde/algo-peaq/internal/testutil"
)

func BenchmarkProcess(b *testing.B) {
	ref := testutil.DeterministicNoise(1, 0.5, 48000)
	test := testutil.DeterministicNoise(2, 0.5, 48000)

	for _, par := range []int{1, 4} {
		e, err := New(WithParallelism(par))
		if err != nil {
			b.Fatalf("New: %v", err)
		}

		b.Run(map[int]string{1: "sequential", 4: "parallel4"}[par], func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Process(ref, test); err != nil {
					b.Fatalf("Process: %v", err)
				}
			}
		})
	}
}

func BenchmarkComputeODG(b *testing.B) {
	ref := testutil.DeterministicNoise(1, 0.5, 48000)

	e, err := New()
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	if _, err := e.Process(ref, ref); err != nil {
		b.Fatalf("Process: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.nmr = nil
		if _, _, err := e.ComputeODG(); err != nil {
			b.Fatalf("ComputeODG: %v", err)
		}
	}
}
