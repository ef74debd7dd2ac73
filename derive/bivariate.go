package derive

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gauss-Legendre half-nodes and weights on [-1, 1] for 6, 12 and 20 points.
var (
	glWeights6 = []float64{0.1713244923791705, 0.3607615730481384, 0.4679139345726904}
	glNodes6   = []float64{0.9324695142031522, 0.6612093864662647, 0.2386191860831970}

	glWeights12 = []float64{
		0.04717533638651177, 0.1069393259953183, 0.1600783285433464,
		0.2031674267230659, 0.2334925365383547, 0.2491470458134029,
	}
	glNodes12 = []float64{
		0.9815606342467191, 0.9041172563704750, 0.7699026741943050,
		0.5873179542866171, 0.3678314989981802, 0.1252334085114692,
	}

	glWeights20 = []float64{
		0.01761400713915212, 0.04060142980038694, 0.06267204833410906,
		0.08327674157670475, 0.1019301198172404, 0.1181945319615184,
		0.1316886384491766, 0.1420961093183821, 0.1491729864726037,
		0.1527533871307259,
	}
	glNodes20 = []float64{
		0.9931285991850949, 0.9639719272779138, 0.9122344282513259,
		0.8391169718222188, 0.7463319064601508, 0.6360536807265150,
		0.5108670019508271, 0.3737060887154196, 0.2277858511416451,
		0.07652652113349733,
	}
)

func phi(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// bivariateNormalCDF returns P(X <= a, Y <= b) for standard normals with correlation r.
// Infinite limits are allowed.
func bivariateNormalCDF(a, b, r float64) float64 {
	return bivariateNormalUpper(-a, -b, r)
}

// bivariateNormalUpper returns P(X > h, Y > k) following Genz (2004), "Numerical
// computation of rectangular bivariate and trivariate normal and t probabilities".
func bivariateNormalUpper(h, k, r float64) float64 {
	switch {
	case math.IsInf(h, 1) || math.IsInf(k, 1):
		return 0
	case math.IsInf(h, -1):
		if math.IsInf(k, -1) {
			return 1
		}
		return phi(-k)
	case math.IsInf(k, -1):
		return phi(-h)
	case r == 0:
		return phi(-h) * phi(-k)
	}

	var w, x []float64
	switch ar := math.Abs(r); {
	case ar < 0.3:
		w, x = glWeights6, glNodes6
	case ar < 0.75:
		w, x = glWeights12, glNodes12
	default:
		w, x = glWeights20, glNodes20
	}

	const tp = 2 * math.Pi
	hk := h * k
	var bvn float64

	if math.Abs(r) < 0.925 {
		hs := (h*h + k*k) / 2
		asr := math.Asin(r) / 2
		for i := range x {
			for _, node := range [2]float64{1 - x[i], 1 + x[i]} {
				sn := math.Sin(asr * node)
				bvn += w[i] * math.Exp((sn*hk-hs)/(1-sn*sn))
			}
		}
		bvn = bvn*asr/tp + phi(-h)*phi(-k)
		return clamp01(bvn)
	}

	if r < 0 {
		k = -k
		hk = -hk
	}
	if math.Abs(r) < 1 {
		as := 1 - r*r
		a := math.Sqrt(as)
		bs := (h - k) * (h - k)
		asr := -(bs/as + hk) / 2
		c := (4 - hk) / 8
		d := (12 - hk) / 80
		if asr > -100 {
			bvn = a * math.Exp(asr) * (1 - c*(bs-as)*(1-d*bs)/3 + c*d*as*as)
		}
		if hk > -100 {
			b := math.Sqrt(bs)
			sp := math.Sqrt(tp) * phi(-b/a)
			bvn -= math.Exp(-hk/2) * sp * b * (1 - c*bs*(1-d*bs)/3)
		}
		a /= 2
		var sum float64
		for i := range x {
			for _, node := range [2]float64{1 - x[i], 1 + x[i]} {
				xs := (a * node) * (a * node)
				asr := -(bs/xs + hk) / 2
				if asr <= -100 {
					continue
				}
				sp := 1 + c*xs*(1+5*d*xs)
				rs := math.Sqrt(1 - xs)
				ep := math.Exp(-(hk/2)*xs/((1+rs)*(1+rs))) / rs
				sum += w[i] * math.Exp(asr) * (sp - ep)
			}
		}
		bvn = (a*sum - bvn) / tp
	}

	switch {
	case r > 0:
		bvn += phi(-math.Max(h, k))
	case h >= k:
		bvn = -bvn
	default:
		var l float64
		if h < 0 {
			l = phi(k) - phi(h)
		} else {
			l = phi(-h) - phi(-k)
		}
		bvn = l - bvn
	}
	return clamp01(bvn)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
