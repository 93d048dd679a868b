package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{2, 4, 6}); !almostEqual(got, 4) {
		t.Fatalf("mean = %v, want 4", got)
	}
	if got := Mean(nil); !math.IsNaN(got) {
		t.Fatalf("mean of empty = %v, want NaN", got)
	}
}

func TestStdDevSample(t *testing.T) {
	// Sample variance of this set is 32/7.
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	want := math.Sqrt(32.0 / 7.0)
	if got := StdDev(xs); !almostEqual(got, want) {
		t.Fatalf("std = %v, want %v", got, want)
	}
}

func TestStdDevSmall(t *testing.T) {
	if got := StdDev([]float64{5}); !math.IsNaN(got) {
		t.Fatalf("std of single value = %v, want NaN", got)
	}
	if got := StdDev(nil); !math.IsNaN(got) {
		t.Fatalf("std of empty = %v, want NaN", got)
	}
}

func TestMinMax(t *testing.T) {
	xs := []float64{3, -1, 7, 2}
	if got := Min(xs); !almostEqual(got, -1) {
		t.Fatalf("min = %v, want -1", got)
	}
	if got := Max(xs); !almostEqual(got, 7) {
		t.Fatalf("max = %v, want 7", got)
	}
	if got := Min(nil); !math.IsNaN(got) {
		t.Fatalf("min of empty = %v, want NaN", got)
	}
	if got := Max(nil); !math.IsNaN(got) {
		t.Fatalf("max of empty = %v, want NaN", got)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, c := range cases {
		if got := Quantile(sorted, c.q); !almostEqual(got, c.want) {
			t.Errorf("Quantile(q=%v) = %v, want %v", c.q, got, c.want)
		}
	}
}

func TestQuantileEdges(t *testing.T) {
	if got := Quantile(nil, 0.5); !math.IsNaN(got) {
		t.Fatalf("quantile of empty = %v, want NaN", got)
	}
	if got := Quantile([]float64{42}, 0.75); !almostEqual(got, 42) {
		t.Fatalf("quantile of singleton = %v, want 42", got)
	}
}

func TestRollingMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	got := RollingMean(xs, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("position %d = %v, want NaN", i, got[i])
		}
	}
	want := []float64{0, 0, 2, 3, 4}
	for i := 2; i < len(xs); i++ {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRollingMeanWindowOne(t *testing.T) {
	xs := []float64{1.5, -2, 3.25}
	got := RollingMean(xs, 1)
	for i := range xs {
		if !almostEqual(got[i], xs[i]) {
			t.Fatalf("position %d = %v, want %v", i, got[i], xs[i])
		}
	}
}

func TestRollingMeanWindowTooLarge(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3}, 10)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("position %d = %v, want NaN", i, v)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); !almostEqual(got, 3.14) {
		t.Fatalf("round = %v, want 3.14", got)
	}
	// 0.125 is exact in binary; half rounds away from zero.
	if got := Round2(0.125); !almostEqual(got, 0.13) {
		t.Fatalf("round = %v, want 0.13", got)
	}
	if got := Round2(-0.125); !almostEqual(got, -0.13) {
		t.Fatalf("round = %v, want -0.13", got)
	}
	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Fatalf("round of NaN = %v, want NaN", got)
	}
}
