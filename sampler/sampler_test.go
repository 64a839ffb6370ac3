package sampler

import "testing"

func TestUniformSamplerReturnsRequestedCount(t *testing.T) {
	s := UniformSampler{}
	out := s.Sample(100, 10)
	if len(out) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(out))
	}
	seen := map[int]bool{}
	for _, v := range out {
		if v < 0 || v >= 100 {
			t.Fatalf("sample %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("sample %d duplicated", v)
		}
		seen[v] = true
	}
}

func TestUniformSamplerCapsAtVertexCount(t *testing.T) {
	s := UniformSampler{}
	out := s.Sample(5, 50)
	if len(out) != 5 {
		t.Fatalf("expected 5 samples (all vertices), got %d", len(out))
	}
}

func TestSampleCountGrowsAsEpsilonShrinks(t *testing.T) {
	loose := SampleCount(10000, 0.5)
	tight := SampleCount(10000, 0.05)
	if tight <= loose {
		t.Fatalf("expected tighter epsilon to need more samples: loose=%d tight=%d", loose, tight)
	}
}

func TestSampleCountExactSentinelSamplesEverything(t *testing.T) {
	if got := SampleCount(42, 0); got != 42 {
		t.Fatalf("epsilon=0 (exact) should sample every vertex, got %d", got)
	}
}

func TestSampleCountNeverExceedsVertexCount(t *testing.T) {
	if got := SampleCount(3, 0.0001); got > 3 {
		t.Fatalf("sample count %d exceeds vertex count 3", got)
	}
}
