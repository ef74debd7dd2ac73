package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBivariateNormalCDF(t *testing.T) {
	t.Parallel()

	// At the origin P(X<=0, Y<=0) = 1/4 + asin(r)/(2π).
	origin := func(r float64) float64 { return 0.25 + math.Asin(r)/(2*math.Pi) }

	tests := []struct {
		name    string
		a, b, r float64
		want    float64
	}{
		{"independent origin", 0, 0, 0, 0.25},
		{"low correlation", 0, 0, 0.2, origin(0.2)},
		{"medium correlation", 0, 0, 0.5, 1.0 / 3},
		{"negative correlation", 0, 0, -0.5, 1.0 / 6},
		{"high correlation", 0, 0, 0.95, origin(0.95)},
		{"high negative correlation", 0, 0, -0.95, origin(-0.95)},
		{"comonotone", 0, 0, 1, 0.5},
		{"independent product", 1, -0.5, 0, phi(1) * phi(-0.5)},
		{"infinite a", math.Inf(1), 0.3, 0.7, phi(0.3)},
		{"infinite b", -0.4, math.Inf(1), 0.7, phi(-0.4)},
		{"negative infinite", math.Inf(-1), 0.3, 0.7, 0},
		{"both infinite", math.Inf(1), math.Inf(1), 0.4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, bivariateNormalCDF(tt.a, tt.b, tt.r), 1e-9)
		})
	}
}

func TestBivariateNormalCDF_Symmetric(t *testing.T) {
	t.Parallel()

	for _, r := range []float64{-0.9, -0.4, 0.1, 0.6, 0.93} {
		assert.InDelta(t, bivariateNormalCDF(0.7, -1.2, r), bivariateNormalCDF(-1.2, 0.7, r), 1e-12)
	}
}

func TestCellProbabilities_SumToOne(t *testing.T) {
	t.Parallel()

	for _, rho := range []float64{0, 0.3, 0.8, 0.99, 1} {
		probs := cellProbabilities(4, 3, rho)
		var sum float64
		for _, row := range probs {
			for _, p := range row {
				sum += p
			}
		}
		assert.InDelta(t, 1, sum, 1e-9, "rho=%v", rho)
	}
}

func TestNormalDivergence_Monotone(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, normalDivergence(5, 5, 0), 1e-12)
	prev := 0.0
	for s := 1; s <= 10; s++ {
		d := normalDivergence(5, 5, float64(s)/10)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
	// comonotone 5×5 is a diagonal table: 2·ln 5
	assert.InDelta(t, 2*math.Log(5), prev, 1e-9)
}
