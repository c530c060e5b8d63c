// Package vegas is a minimal internal Monte-Carlo oracle standing in
// for the real Cuba/Vegas library (out of scope, spec.md Non-goals): a
// plain Monte-Carlo pass optionally refined by one VEGAS-style
// importance-sampling grid adaptation per dimension. It drives
// integrator.Adapter through the exact callback shape spec §4.7
// describes, so replacing this package with a cgo Cuba binding later
// changes nothing else in the runtime.
package vegas

import (
	"math"
	"math/rand"

	"github.com/momemta/momemta-go/integrator"
)

// Config controls one Integrate run.
type Config struct {
	Dimensions int
	Components int
	Calls      int // samples per iteration
	Iterations int // refinement passes; 1 disables adaptation
	Bins       int // grid bins per dimension, used when Iterations > 1
	Seed       int64
}

// Outcome is the estimated integral and its Monte-Carlo standard error,
// one pair per component, in momemta.integrands order.
type Outcome struct {
	Values []float64
	Errors []float64
}

// grid holds, per dimension, the importance-sampling bin edges used to
// map a uniform [0,1) draw into x and to weight the resulting Jacobian.
type grid struct {
	edges [][]float64 // edges[d] has Bins+1 entries in [0,1]
}

func newUniformGrid(dims, bins int) *grid {
	g := &grid{edges: make([][]float64, dims)}
	for d := 0; d < dims; d++ {
		edges := make([]float64, bins+1)
		for i := range edges {
			edges[i] = float64(i) / float64(bins)
		}
		g.edges[d] = edges
	}
	return g
}

// sample maps a uniform draw u in [0,1) through dimension d's bins,
// returning the mapped coordinate and the local Jacobian (bin width
// times bin count).
func (g *grid) sample(d int, u float64) (x, jacobian float64) {
	edges := g.edges[d]
	bins := len(edges) - 1
	pos := u * float64(bins)
	bin := int(pos)
	if bin >= bins {
		bin = bins - 1
	}
	frac := pos - float64(bin)
	lo, hi := edges[bin], edges[bin+1]
	width := hi - lo
	return lo + frac*width, width * float64(bins)
}

// refine rebuilds each dimension's bin edges so that bins accumulating
// more variance (tracked in weight) become narrower, concentrating
// future samples where the integrand varies most — the core VEGAS
// importance-sampling step.
func (g *grid) refine(weight [][]float64) {
	for d, w := range weight {
		bins := len(w)
		total := 0.0
		for _, v := range w {
			total += v
		}
		if total <= 0 {
			continue
		}
		const smoothingTarget = 1000.0
		m := make([]float64, bins)
		for i, v := range w {
			m[i] = math.Max(v/total*smoothingTarget, 1e-10)
		}
		avgPerNewBin := 0.0
		for _, v := range m {
			avgPerNewBin += v
		}
		avgPerNewBin /= float64(bins)

		newEdges := make([]float64, bins+1)
		newEdges[0] = 0
		oldEdges := g.edges[d]
		acc := 0.0
		oldBin := 0
		for newBin := 1; newBin < bins; newBin++ {
			target := avgPerNewBin
			for acc+m[oldBin] < target && oldBin < bins-1 {
				acc += m[oldBin]
				oldBin++
			}
			remaining := target - acc
			frac := 0.0
			if m[oldBin] > 0 {
				frac = remaining / m[oldBin]
			}
			width := oldEdges[oldBin+1] - oldEdges[oldBin]
			newEdges[newBin] = oldEdges[oldBin] + frac*width
			acc = -remaining
		}
		newEdges[bins] = 1
		g.edges[d] = newEdges
	}
}

// Integrate runs cfg.Iterations passes of cfg.Calls samples each,
// routing every sample through adapter's replica pool, and returns the
// weighted-mean estimate and standard error per component.
func Integrate(cfg Config, adapter *integrator.Adapter) Outcome {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.Bins < 1 {
		cfg.Bins = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	g := newUniformGrid(cfg.Dimensions, cfg.Bins)

	sums := make([]float64, cfg.Components)
	sumSquares := make([]float64, cfg.Components)

	for iter := 0; iter < cfg.Iterations; iter++ {
		varianceWeight := make([][]float64, cfg.Dimensions)
		for d := range varianceWeight {
			varianceWeight[d] = make([]float64, cfg.Bins)
		}

		iterSum := make([]float64, cfg.Components)
		iterSumSq := make([]float64, cfg.Components)

		for call := 0; call < cfg.Calls; call++ {
			point := make([]float64, cfg.Dimensions)
			bins := make([]int, cfg.Dimensions)
			jacobian := 1.0
			for d := 0; d < cfg.Dimensions; d++ {
				u := rng.Float64()
				x, j := g.sample(d, u)
				point[d] = x
				jacobian *= j
				bins[d] = int(u * float64(cfg.Bins))
				if bins[d] >= cfg.Bins {
					bins[d] = cfg.Bins - 1
				}
			}

			result := adapter.Callback(integrator.Sample{Point: point, Weight: jacobian, Core: call})
			if result.Err != nil {
				continue
			}
			for c, v := range result.Values {
				contribution := v * jacobian
				iterSum[c] += contribution
				iterSumSq[c] += contribution * contribution
			}
			if len(result.Values) > 0 {
				variance := result.Values[0] * result.Values[0]
				for d := 0; d < cfg.Dimensions; d++ {
					varianceWeight[d][bins[d]] += variance
				}
			}
		}

		n := float64(cfg.Calls)
		for c := 0; c < cfg.Components; c++ {
			mean := iterSum[c] / n
			meanSq := iterSumSq[c] / n
			variance := math.Max(meanSq-mean*mean, 0)
			weight := 0.0
			if variance > 0 {
				weight = 1 / (variance / n)
			} else {
				weight = n
			}
			sums[c] += mean * weight
			sumSquares[c] += weight
		}

		if iter < cfg.Iterations-1 {
			g.refine(varianceWeight)
		}
	}

	outcome := Outcome{Values: make([]float64, cfg.Components), Errors: make([]float64, cfg.Components)}
	for c := 0; c < cfg.Components; c++ {
		if sumSquares[c] == 0 {
			continue
		}
		outcome.Values[c] = sums[c] / sumSquares[c]
		outcome.Errors[c] = math.Sqrt(1 / sumSquares[c])
	}
	return outcome
}
