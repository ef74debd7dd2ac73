package derive

import (
	"context"
	"math"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nao1215/surveydash/domain/model"
)

const (
	// DefaultBins is the number of equal-width bins for interval variables
	DefaultBins = 10
	// MaxSignificance bounds the significance matrix. It is about the normal quantile
	// of the smallest positive float64.
	MaxSignificance = 38.0
	// rhoSteps is the resolution of the divergence curve used to invert G into rho
	rhoSteps = 200
)

// AssociationOptions configures Association
type AssociationOptions struct {
	// Bins is the number of equal-width bins interval columns are cut into
	Bins int
	// Interval names the columns treated as interval variables. Numeric columns not
	// listed here are treated as categorical.
	Interval map[string]bool
	// Workers bounds the number of rows computed concurrently
	Workers int
}

func (o AssociationOptions) withDefaults() AssociationOptions {
	if o.Bins < 2 {
		o.Bins = DefaultBins
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Matrix is a square matrix over named variables. Undefined cells are NaN.
type Matrix struct {
	Names  []string
	Values [][]float64
}

func newMatrix(names []string) Matrix {
	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	return Matrix{Names: slices.Clone(names), Values: values}
}

// At returns the cell of variables a and b, false if either is unknown
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := slices.Index(m.Names, a), slices.Index(m.Names, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Matrices holds the correlation matrix and its significance matrix
type Matrices struct {
	Correlation  Matrix
	Significance Matrix
}

// Association computes the pairwise correlation and significance of columns.
//
// The correlation works for any mix of categorical, ordinal and interval variables.
// Interval columns are cut into equal-width bins, other columns use their labels as
// categories, and each pair is cross-tabulated over the rows where both are present.
// The G statistic of that table against independence is compared with the G statistic
// a bivariate normal with correlation rho would produce on the same number of
// equal-probability categories, offset by the degrees of freedom as the expected
// statistic of an unrelated pair. The rho that reproduces the observed statistic is the
// correlation, so the coefficient reduces to the Pearson correlation for binned
// bivariate normal data.
//
// The significance is Z = Φ⁻¹(1 − p) where p is the asymptotic chi-square p-value of
// G, clamped to ±MaxSignificance. Diagonal cells are 1 and NaN; pairs where either
// side has fewer than two categories are NaN in both matrices.
func Association(ctx context.Context, t *model.Table, columns []string, opts AssociationOptions) (*Matrices, error) {
	opts = opts.withDefaults()

	encoded := make([]encodedColumn, len(columns))
	for i, name := range columns {
		idx, err := column(t, name)
		if err != nil {
			return nil, err
		}
		values := make([]model.Value, t.Len())
		for r, rec := range t.Records() {
			values[r] = rec[idx]
		}
		encoded[i] = encodeColumn(values, opts.Interval[name], opts.Bins)
	}

	result := &Matrices{Correlation: newMatrix(columns), Significance: newMatrix(columns)}
	curves := newDivergenceCache()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result.Correlation.Values[i][i] = 1
			result.Significance.Values[i][i] = math.NaN()
			for j := i + 1; j < len(columns); j++ {
				rho, z := associate(encoded[i], encoded[j], curves)
				result.Correlation.Values[i][j] = rho
				result.Correlation.Values[j][i] = rho
				result.Significance.Values[i][j] = z
				result.Significance.Values[j][i] = z
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// encodedColumn holds category indices per row, -1 for null
type encodedColumn struct {
	codes  []int
	levels int
}

// encodeColumn maps cells to category indices. Interval columns whose non-null cells
// are all numbers are cut into bins equal-width bins between their minimum and
// maximum; everything else uses sorted distinct labels.
func encodeColumn(values []model.Value, interval bool, bins int) encodedColumn {
	codes := make([]int, len(values))
	if interval {
		lo, hi := math.Inf(1), math.Inf(-1)
		numeric := true
		for _, v := range values {
			if v.IsNull() {
				continue
			}
			f, ok := v.Float()
			if !ok {
				numeric = false
				break
			}
			lo, hi = math.Min(lo, f), math.Max(hi, f)
		}
		if numeric && !math.IsInf(lo, 1) {
			width := (hi - lo) / float64(bins)
			for r, v := range values {
				f, ok := v.Float()
				switch {
				case !ok:
					codes[r] = -1
				case width == 0:
					codes[r] = 0
				default:
					codes[r] = min(int((f-lo)/width), bins-1)
				}
			}
			levels := bins
			if hi == lo {
				levels = 1
			}
			return encodedColumn{codes: codes, levels: levels}
		}
	}

	var labels []string
	for _, v := range values {
		if !v.IsNull() {
			labels = append(labels, v.String())
		}
	}
	slices.Sort(labels)
	labels = slices.Compact(labels)
	for r, v := range values {
		if v.IsNull() {
			codes[r] = -1
			continue
		}
		codes[r], _ = slices.BinarySearch(labels, v.String())
	}
	return encodedColumn{codes: codes, levels: len(labels)}
}

// associate returns the correlation and significance of two encoded columns
func associate(x, y encodedColumn, curves *divergenceCache) (float64, float64) {
	observed, n := contingency(x, y)
	if len(observed) < 2 || len(observed[0]) < 2 {
		return math.NaN(), math.NaN()
	}
	nx, ny := len(observed), len(observed[0])
	g := gStatistic(observed, n)
	dof := float64((nx - 1) * (ny - 1))

	return curves.get(nx, ny).rho((g-dof)/n), significance(g, dof)
}

// contingency cross-tabulates two columns over rows where both are present and drops
// empty rows and columns. It returns the table and the number of counted rows.
func contingency(x, y encodedColumn) ([][]float64, float64) {
	if x.levels == 0 || y.levels == 0 {
		return nil, 0
	}
	full := make([][]float64, x.levels)
	for i := range full {
		full[i] = make([]float64, y.levels)
	}
	rowSum := make([]float64, x.levels)
	colSum := make([]float64, y.levels)
	var n float64
	for r, a := range x.codes {
		b := y.codes[r]
		if a < 0 || b < 0 {
			continue
		}
		full[a][b]++
		rowSum[a]++
		colSum[b]++
		n++
	}

	var keepCols []int
	for j, s := range colSum {
		if s > 0 {
			keepCols = append(keepCols, j)
		}
	}
	var table [][]float64
	for i, s := range rowSum {
		if s == 0 {
			continue
		}
		row := make([]float64, len(keepCols))
		for c, j := range keepCols {
			row[c] = full[i][j]
		}
		table = append(table, row)
	}
	return table, n
}

// gStatistic returns the log-likelihood ratio statistic against independence
func gStatistic(observed [][]float64, n float64) float64 {
	rowSum := make([]float64, len(observed))
	colSum := make([]float64, len(observed[0]))
	for i, row := range observed {
		for j, o := range row {
			rowSum[i] += o
			colSum[j] += o
		}
	}
	var g float64
	for i, row := range observed {
		for j, o := range row {
			if o == 0 {
				continue
			}
			expected := rowSum[i] * colSum[j] / n
			g += o * math.Log(o/expected)
		}
	}
	return math.Max(0, 2*g)
}

// significance converts a G statistic into a one-sided normal score
func significance(g, dof float64) float64 {
	p := distuv.ChiSquared{K: dof}.Survival(g)
	p = clamp01(p)
	z := -distuv.UnitNormal.Quantile(p)
	return math.Max(-MaxSignificance, math.Min(MaxSignificance, z))
}

// divergenceCurve is G/n of a discretised bivariate normal as a function of rho,
// sampled on rhoSteps+1 equally spaced points of [0, 1].
type divergenceCurve struct {
	values []float64
}

// rho inverts the curve by linear interpolation, clamping to [0, 1]
func (c *divergenceCurve) rho(target float64) float64 {
	if target <= c.values[0] {
		return 0
	}
	last := len(c.values) - 1
	if target >= c.values[last] {
		return 1
	}
	k, _ := slices.BinarySearch(c.values, target)
	lo, hi := c.values[k-1], c.values[k]
	frac := 0.0
	if hi > lo {
		frac = (target - lo) / (hi - lo)
	}
	return (float64(k-1) + frac) / rhoSteps
}

type curveKey struct {
	nx, ny int
}

// divergenceCache shares divergence curves between pairs with the same table shape
type divergenceCache struct {
	mu     sync.Mutex
	curves map[curveKey]*divergenceCurve
}

func newDivergenceCache() *divergenceCache {
	return &divergenceCache{curves: make(map[curveKey]*divergenceCurve)}
}

func (c *divergenceCache) get(nx, ny int) *divergenceCurve {
	if nx > ny {
		nx, ny = ny, nx
	}
	key := curveKey{nx: nx, ny: ny}

	c.mu.Lock()
	curve, ok := c.curves[key]
	c.mu.Unlock()
	if ok {
		return curve
	}

	curve = buildDivergenceCurve(nx, ny)
	c.mu.Lock()
	if existing, ok := c.curves[key]; ok {
		curve = existing
	} else {
		c.curves[key] = curve
	}
	c.mu.Unlock()
	return curve
}

func buildDivergenceCurve(nx, ny int) *divergenceCurve {
	values := make([]float64, rhoSteps+1)
	for s := range values {
		values[s] = normalDivergence(nx, ny, float64(s)/rhoSteps)
	}
	// Quadrature noise must not break the monotonicity the inversion relies on.
	for s := 1; s < len(values); s++ {
		values[s] = math.Max(values[s], values[s-1])
	}
	return &divergenceCurve{values: values}
}

// normalDivergence returns 2·KL(P_rho ‖ P_0) for a bivariate normal with correlation
// rho discretised on nx × ny equal-probability categories.
func normalDivergence(nx, ny int, rho float64) float64 {
	probs := cellProbabilities(nx, ny, rho)
	independent := 1 / float64(nx*ny)
	var d float64
	for _, row := range probs {
		for _, p := range row {
			if p > 0 {
				d += p * math.Log(p/independent)
			}
		}
	}
	return math.Max(0, 2*d)
}

// cellProbabilities returns the probability mass of each cell
func cellProbabilities(nx, ny int, rho float64) [][]float64 {
	probs := make([][]float64, nx)
	for i := range probs {
		probs[i] = make([]float64, ny)
	}

	if rho >= 1 {
		// Comonotone limit: mass is the overlap of the i-th and j-th quantile ranges.
		for i := range nx {
			for j := range ny {
				lo := math.Max(float64(i)/float64(nx), float64(j)/float64(ny))
				hi := math.Min(float64(i+1)/float64(nx), float64(j+1)/float64(ny))
				probs[i][j] = math.Max(0, hi-lo)
			}
		}
		return probs
	}

	xEdges := quantileEdges(nx)
	yEdges := quantileEdges(ny)
	cdf := make([][]float64, nx+1)
	for i := range cdf {
		cdf[i] = make([]float64, ny+1)
		for j := range cdf[i] {
			cdf[i][j] = bivariateNormalCDF(xEdges[i], yEdges[j], rho)
		}
	}
	for i := range nx {
		for j := range ny {
			p := cdf[i+1][j+1] - cdf[i][j+1] - cdf[i+1][j] + cdf[i][j]
			probs[i][j] = math.Max(0, p)
		}
	}
	return probs
}

// quantileEdges cuts the standard normal into n equal-probability intervals
func quantileEdges(n int) []float64 {
	edges := make([]float64, n+1)
	edges[0] = math.Inf(-1)
	edges[n] = math.Inf(1)
	for i := 1; i < n; i++ {
		edges[i] = distuv.UnitNormal.Quantile(float64(i) / float64(n))
	}
	return edges
}
